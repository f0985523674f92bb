package catalog

import (
	"strings"

	"github.com/climaxcard/buylist/buylist/textnorm"
)

// IndexedCard is a Card plus its derived comparison fields. The folded pairs
// are pure functions of the source fields, computed once at build time.
type IndexedCard struct {
	Card

	NameKana    string
	NameLatin   string
	CodeKana    string
	CodeLatin   string
	PackKana    string // pack + booster, space-joined before folding
	PackLatin   string
	RarityKana  string
	RarityLatin string
}

// RarityCompareKey is the exact-match key for the rarity filter.
func (c IndexedCard) RarityCompareKey() string {
	return textnorm.RarityKey(c.RarityKana, c.RarityLatin)
}

// BuildIndex computes the folded comparison fields for every card. Runs in
// linear time and does no I/O.
func BuildIndex(cards []Card) []IndexedCard {
	index := make([]IndexedCard, len(cards))
	for i, c := range cards {
		packBooster := strings.TrimSpace(c.Pack + " " + c.Booster)
		index[i] = IndexedCard{
			Card:        c,
			NameKana:    textnorm.KanaFold(c.Name),
			NameLatin:   textnorm.LatinFold(c.Name),
			CodeKana:    textnorm.KanaFold(c.Code),
			CodeLatin:   textnorm.LatinFold(c.Code),
			PackKana:    textnorm.KanaFold(packBooster),
			PackLatin:   textnorm.LatinFold(packBooster),
			RarityKana:  textnorm.KanaFold(c.Rarity),
			RarityLatin: textnorm.LatinFold(c.Rarity),
		}
	}
	return index
}

// SearchBlobFor recomputes the payload's precomputed search text for a card:
// the kana fold of all display fields joined with spaces. Carried for
// compatibility with older page builds; the engine itself never reads it.
func SearchBlobFor(c Card) string {
	return textnorm.KanaFold(strings.Join([]string{c.Name, c.Code, c.Pack, c.Rarity, c.Booster}, " "))
}
