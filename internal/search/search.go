package search

import (
	"github.com/nikbrunner/favme/internal/model"
	"github.com/sahilm/fuzzy"
)

// Result represents a fuzzy search match.
type Result struct {
	Entry          model.Entry
	MatchedIndexes []int
	Score          int
}

// entryNames implements fuzzy.Source over favorite names.
type entryNames []model.Entry

func (en entryNames) String(i int) string {
	return en[i].Name
}

func (en entryNames) Len() int {
	return len(en)
}

// Find searches folder and website names with fuzzy matching.
// Returns results sorted by match score (best first).
func Find(fav *model.Favorites, query string) []Result {
	if query == "" {
		return nil
	}

	entries := entryNames(fav.All())
	matches := fuzzy.FindFrom(query, entries)

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Entry:          entries[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// Pick returns the single unambiguous result: the only match, or the only
// match whose name equals query exactly.
func Pick(results []Result, query string) (model.Entry, bool) {
	if len(results) == 1 {
		return results[0].Entry, true
	}

	var exact []model.Entry
	for _, r := range results {
		if r.Entry.Name == query {
			exact = append(exact, r.Entry)
		}
	}
	if len(exact) == 1 {
		return exact[0], true
	}
	return model.Entry{}, false
}
