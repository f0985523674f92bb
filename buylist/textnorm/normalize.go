// Package textnorm folds raw card text into the two canonical comparison
// forms used by the search engine. Buylist rows mix Japanese and Latin
// scripts, and buyers type queries in either, so every field is indexed
// both as a kana-folded and a latin-folded string.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Separator class stripped from both folded forms: whitespace, middle dot
// variants, slashes, hyphen/dash variants and underscore.
const separators = "・·/／-_—–−"

// leet collapses the digit/letter confusions commonly seen in card names
// ("P1KACHU", "B0X" and so on).
var leet = strings.NewReplacer(
	"0", "o",
	"1", "l",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
)

func isSeparator(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '　' {
		return true
	}
	return strings.ContainsRune(separators, r)
}

func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isSeparator(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// KanaFold returns the kana comparison form: NFKC, lowercase, katakana
// shifted down to hiragana, separators stripped. Idempotent.
func KanaFold(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 'ァ' && r <= 'ヶ' {
			r -= 0x60
		}
		if !isSeparator(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LatinFold returns the latin comparison form: NFKC, lowercase, leet digit
// substitution, separators stripped, then everything outside [a-z0-9]
// dropped. Idempotent.
func LatinFold(s string) string {
	s = leet.Replace(strings.ToLower(norm.NFKC.String(s)))
	s = stripSeparators(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RarityKey resolves a folded (kana, latin) pair to the single comparison
// key used for exact rarity matching. The promo rarity is spelled many ways
// on the sheet (プロモ, PROMO, P); all of them collapse to "promo". Everything
// else keys on the latin form when present, the kana form otherwise.
func RarityKey(kana, latin string) string {
	if latin == "promo" || latin == "p" || kana == "ぷろも" {
		return "promo"
	}
	if latin != "" {
		return latin
	}
	return kana
}

// ContainsJapanese reports whether s contains kana or CJK ideographs. The
// name filter uses it on the raw query to decide which folded field to
// match against.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if (r >= 0x3040 && r <= 0x30FF) || (r >= 0x3400 && r <= 0x9FFF) {
			return true
		}
	}
	return false
}
