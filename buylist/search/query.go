// Package search evaluates the catalog filters and sort order against the
// record index, producing the ordered result view the paginator slices.
package search

import (
	"sort"
	"strings"

	"github.com/climaxcard/buylist/buylist/catalog"
	"github.com/climaxcard/buylist/buylist/textnorm"
)

// Sort is the result ordering mode.
type Sort int

const (
	SortNone Sort = iota // keep index order
	SortPriceDesc
	SortPriceAsc
)

// Query holds one evaluation's filter and sort inputs. The free-text fields
// carry the raw user input; folding happens inside Evaluate.
type Query struct {
	Name   string
	Code   string
	Pack   string
	Rarity string

	PromoOnly  bool
	LatestOnly bool

	Sort Sort
}

// matchEither is the substring test used for code and pack: a hit on either
// folded representation counts, and an empty query trivially matches.
func matchEither(kana, latin, qKana, qLatin string) bool {
	if qKana == "" && qLatin == "" {
		return true
	}
	if qKana != "" && strings.Contains(kana, qKana) {
		return true
	}
	if qLatin != "" && strings.Contains(latin, qLatin) {
		return true
	}
	return false
}

// Evaluate applies every active filter (ANDed) and the sort mode to the
// index and returns the ordered result view. Sorting is stable so that
// re-filtering with the same sort never reshuffles equal-priced cards.
func Evaluate(index []catalog.IndexedCard, q Query) []catalog.IndexedCard {
	nameKana := textnorm.KanaFold(q.Name)
	nameLatin := textnorm.LatinFold(q.Name)
	codeKana := textnorm.KanaFold(q.Code)
	codeLatin := textnorm.LatinFold(q.Code)
	packKana := textnorm.KanaFold(q.Pack)
	packLatin := textnorm.LatinFold(q.Pack)

	// The rarity filter is exact-match on the resolved comparison key;
	// rarity codes are too short and ambiguous for substring matching.
	rarityKey := ""
	if k, l := textnorm.KanaFold(q.Rarity), textnorm.LatinFold(q.Rarity); k != "" || l != "" {
		rarityKey = textnorm.RarityKey(k, l)
	}

	// A name query without any Japanese script matches the latin-folded
	// field only, so a latin fragment cannot spuriously hit inside an
	// all-Japanese name, and vice versa.
	nameHasJP := textnorm.ContainsJapanese(q.Name)

	view := make([]catalog.IndexedCard, 0, len(index))
	for _, it := range index {
		if q.Name != "" {
			if nameHasJP {
				if !strings.Contains(it.NameKana, nameKana) {
					continue
				}
			} else if !strings.Contains(it.NameLatin, nameLatin) {
				continue
			}
		}
		if !matchEither(it.CodeKana, it.CodeLatin, codeKana, codeLatin) {
			continue
		}
		if !matchEither(it.PackKana, it.PackLatin, packKana, packLatin) {
			continue
		}
		if rarityKey != "" && it.RarityCompareKey() != rarityKey {
			continue
		}
		if q.PromoOnly && !it.Promo {
			continue
		}
		if q.LatestOnly && !it.Latest {
			continue
		}
		view = append(view, it)
	}

	switch q.Sort {
	case SortPriceDesc:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].PriceOrZero() > view[j].PriceOrZero()
		})
	case SortPriceAsc:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].PriceOrZero() < view[j].PriceOrZero()
		})
	}
	return view
}
