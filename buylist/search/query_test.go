package search

import (
	"reflect"
	"testing"

	"github.com/climaxcard/buylist/buylist/catalog"
)

func intp(v int) *int { return &v }

func testIndex() []catalog.IndexedCard {
	return catalog.BuildIndex([]catalog.Card{
		{Name: "ルギアV", Code: "110/S-P", Pack: "SV-P", Rarity: "SR", Price: intp(1500)},
		{Name: "Lugia VSTAR", Code: "139/195", Pack: "Silver Tempest", Rarity: "UR", Price: intp(4000)},
		{Name: "ピカチュウ", Code: "025/SV-P", Pack: "プロモカードパック", Rarity: "プロモ", Price: intp(300), Promo: true},
		{Name: "リザードンex", Code: "066/165", Pack: "151", Booster: "SV2a", Rarity: "RR", Price: nil, Latest: true},
		{Name: "ミュウツー", Code: "150/165", Pack: "151", Booster: "SV2a", Rarity: "P", Price: intp(300), Latest: true},
	})
}

func names(view []catalog.IndexedCard) []string {
	out := make([]string, len(view))
	for i, it := range view {
		out[i] = it.Name
	}
	return out
}

func TestEvaluateNameKanaQuery(t *testing.T) {
	// A kana query must match on the kana-folded name only.
	view := Evaluate(testIndex(), Query{Name: "ルギア"})
	if got, want := names(view), []string{"ルギアV"}; !reflect.DeepEqual(got, want) {
		t.Errorf("kana name query = %v, want %v", got, want)
	}
}

func TestEvaluateNameLatinQuery(t *testing.T) {
	// No Japanese script in the query: the latin-folded field decides.
	view := Evaluate(testIndex(), Query{Name: "Lugia"})
	if got, want := names(view), []string{"Lugia VSTAR"}; !reflect.DeepEqual(got, want) {
		t.Errorf("latin name query = %v, want %v", got, want)
	}
}

func TestEvaluateCodeMatchEither(t *testing.T) {
	view := Evaluate(testIndex(), Query{Code: "110"})
	if got, want := names(view), []string{"ルギアV"}; !reflect.DeepEqual(got, want) {
		t.Errorf("code query = %v, want %v", got, want)
	}
	// Empty query trivially matches everything.
	if got := len(Evaluate(testIndex(), Query{})); got != 5 {
		t.Errorf("empty query matched %d records, want 5", got)
	}
}

func TestEvaluatePackJoinsBooster(t *testing.T) {
	// "SV2a" lives in the booster column; the pack filter folds pack and
	// booster together.
	view := Evaluate(testIndex(), Query{Pack: "SV2a"})
	if got, want := names(view), []string{"リザードンex", "ミュウツー"}; !reflect.DeepEqual(got, want) {
		t.Errorf("pack query = %v, want %v", got, want)
	}
}

func TestEvaluateRarityPromoEquivalence(t *testing.T) {
	kana := Evaluate(testIndex(), Query{Rarity: "プロモ"})
	latin := Evaluate(testIndex(), Query{Rarity: "promo"})
	if !reflect.DeepEqual(names(kana), names(latin)) {
		t.Errorf("プロモ (%v) and promo (%v) must resolve identically", names(kana), names(latin))
	}
	// Both spellings collapse P-rarity rows into the same class.
	if got, want := names(kana), []string{"ピカチュウ", "ミュウツー"}; !reflect.DeepEqual(got, want) {
		t.Errorf("promo rarity query = %v, want %v", got, want)
	}
}

func TestEvaluateRarityExactNotSubstring(t *testing.T) {
	// "R" must not substring-match SR/UR/RR rows.
	view := Evaluate(testIndex(), Query{Rarity: "R"})
	if len(view) != 0 {
		t.Errorf("rarity R matched %v, want none", names(view))
	}
}

func TestEvaluateToggles(t *testing.T) {
	if got, want := names(Evaluate(testIndex(), Query{PromoOnly: true})), []string{"ピカチュウ"}; !reflect.DeepEqual(got, want) {
		t.Errorf("promo-only = %v, want %v", got, want)
	}
	if got, want := names(Evaluate(testIndex(), Query{LatestOnly: true})), []string{"リザードンex", "ミュウツー"}; !reflect.DeepEqual(got, want) {
		t.Errorf("latest-only = %v, want %v", got, want)
	}
}

func TestEvaluateSubsetAndPredicates(t *testing.T) {
	index := testIndex()
	q := Query{Pack: "151", LatestOnly: true}
	for _, it := range Evaluate(index, q) {
		if !it.Latest {
			t.Errorf("%s violates latest-only", it.Name)
		}
		found := false
		for _, src := range index {
			if reflect.DeepEqual(src, it) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s is not a member of the index", it.Name)
		}
	}
}

func TestEvaluateSortStable(t *testing.T) {
	index := testIndex()

	desc := Evaluate(index, Query{Sort: SortPriceDesc})
	if got, want := names(desc), []string{"Lugia VSTAR", "ルギアV", "ピカチュウ", "ミュウツー", "リザードンex"}; !reflect.DeepEqual(got, want) {
		t.Errorf("desc = %v, want %v", got, want)
	}

	// Tie at 300: ピカチュウ precedes ミュウツー in index order under both
	// directions because the sort is stable, not reversed.
	asc := Evaluate(index, Query{Sort: SortPriceAsc})
	if got, want := names(asc), []string{"リザードンex", "ピカチュウ", "ミュウツー", "ルギアV", "Lugia VSTAR"}; !reflect.DeepEqual(got, want) {
		t.Errorf("asc = %v, want %v", got, want)
	}

	// SortNone preserves index order.
	none := Evaluate(index, Query{})
	if got, want := names(none), []string{"ルギアV", "Lugia VSTAR", "ピカチュウ", "リザードンex", "ミュウツー"}; !reflect.DeepEqual(got, want) {
		t.Errorf("none = %v, want %v", got, want)
	}
}

func TestSuggest(t *testing.T) {
	got := Suggest(testIndex(), "るぎ", 3)
	if len(got) == 0 || got[0] != "ルギアV" {
		t.Errorf("Suggest(るぎ) = %v, want ルギアV first", got)
	}
	if Suggest(testIndex(), "", 3) != nil {
		t.Error("empty query must yield no suggestions")
	}
}
