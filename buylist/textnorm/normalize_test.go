package textnorm

import "testing"

func TestKanaFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "katakana to hiragana", in: "ルギア", want: "るぎあ"},
		{name: "fullwidth latin", in: "ＰＩＫＡＣＨＵ", want: "pikachu"},
		{name: "separators stripped", in: "リザードン・ex / VSTAR", want: "りざーどんexvstar"},
		{name: "halfwidth kana", in: "ﾋﾟｶﾁｭｳ", want: "ぴかちゅう"},
		{name: "mixed dashes", in: "SV-P_250—193", want: "svp250193"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KanaFold(tt.in); got != tt.want {
				t.Errorf("KanaFold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLatinFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase", in: "Lugia", want: "lugia"},
		{name: "leet digits", in: "P1KACHU B0X", want: "plkachubox"},
		{name: "kept digits", in: "SV2a 089", want: "sv2ao89"},
		{name: "japanese dropped", in: "ルギアex", want: "ex"},
		{name: "symbols dropped", in: "25th Anniv.!!", want: "2sthanniv"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LatinFold(tt.in); got != tt.want {
				t.Errorf("LatinFold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Both folds are idempotent: folding a folded string changes nothing.
func TestFoldIdempotent(t *testing.T) {
	inputs := []string{
		"ルギアV", "ＰＩＫＡＣＨＵ ＧＸ", "ﾐｭｳﾂｰ/EX", "SV-P 250/193",
		"プロモ", "25th ANNIVERSARY COLLECTION", "", "ヴァンガード",
	}
	for _, in := range inputs {
		k := KanaFold(in)
		if got := KanaFold(k); got != k {
			t.Errorf("KanaFold not idempotent on %q: %q -> %q", in, k, got)
		}
		l := LatinFold(in)
		if got := LatinFold(l); got != l {
			t.Errorf("LatinFold not idempotent on %q: %q -> %q", in, l, got)
		}
	}
}

func TestRarityKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "katakana promo", in: "プロモ", want: "promo"},
		{name: "latin promo", in: "PROMO", want: "promo"},
		{name: "single p", in: "P", want: "promo"},
		{name: "plain rarity", in: "SAR", want: "sar"},
		{name: "kana only rarity", in: "ミラー", want: "みらー"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RarityKey(KanaFold(tt.in), LatinFold(tt.in))
			if got != tt.want {
				t.Errorf("RarityKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContainsJapanese(t *testing.T) {
	if ContainsJapanese("Lugia V 110/SV-P") {
		t.Error("latin query flagged as Japanese")
	}
	if !ContainsJapanese("ルギア") || !ContainsJapanese("竜王") || !ContainsJapanese("ぎあ") {
		t.Error("Japanese query not detected")
	}
}
