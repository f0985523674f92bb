package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/climaxcard/buylist/buylist/catalog"
	"github.com/climaxcard/buylist/buylist/textnorm"
)

// suggestSource implements fuzzy.Source over the kana-folded card names so
// that a query in either script can still land near-misses.
type suggestSource []catalog.IndexedCard

func (s suggestSource) Len() int            { return len(s) }
func (s suggestSource) String(i int) string { return s[i].NameKana }

// Suggest returns up to limit distinct display names fuzzily matching a
// query that produced no exact results. Used by the CLI grep mode's
// "did you mean" output.
func Suggest(index []catalog.IndexedCard, query string, limit int) []string {
	folded := textnorm.KanaFold(query)
	if folded == "" || len(index) == 0 || limit <= 0 {
		return nil
	}
	matches := fuzzy.FindFrom(folded, suggestSource(index))

	seen := make(map[string]struct{}, limit)
	names := make([]string, 0, limit)
	for _, m := range matches {
		name := index[m.Index].Name
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
		if len(names) == limit {
			break
		}
	}
	return names
}
