// Package search ranks cast entries against a free-text character query.
// Graph traversal hands it plain cast views; it never touches the store or
// the provider.
package search

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/sixhops/sixhops/pkg/types"
)

const (
	// DefaultThreshold is the minimum similarity score kept in results.
	DefaultThreshold = 75
	// DefaultLimit caps the number of matches returned.
	DefaultLimit = 5
)

// Options tune a character search.
type Options struct {
	// Threshold drops matches scoring below it; 0 means DefaultThreshold.
	Threshold int
	// Limit caps results; 0 means DefaultLimit, negative means unlimited.
	Limit int
}

// Match is one ranked cast entry.
type Match struct {
	Score      int
	Person     types.ID
	PersonName string
	Character  string
}

// score rates query against a candidate string on a 0..100 scale. The best
// of whole-string similarity and per-token similarity is taken, so "vader"
// still scores high against "Darth Vader".
func score(query, candidate string) int {
	query = strings.ToLower(strings.TrimSpace(query))
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if query == "" || candidate == "" {
		return 0
	}

	best := levenshtein.Match(query, candidate, nil)
	for _, token := range strings.Fields(candidate) {
		if sim := levenshtein.Match(query, token, nil); sim > best {
			best = sim
		}
	}
	return int(best*100 + 0.5)
}

// Characters ranks cast entries by how well their character name matches
// query. An empty query returns every entry at full score. Entries that tie
// on score sort by person name, then character, for stable output.
func Characters(cast []types.CastEntry, query string, opts Options) []Match {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	type key struct {
		person    int64
		character string
	}
	seen := map[key]bool{}

	var matches []Match
	for _, entry := range cast {
		k := key{person: entry.ID, character: entry.Character}
		if seen[k] {
			continue
		}
		seen[k] = true

		s := 100
		if query != "" {
			s = score(query, entry.Character)
			if s < threshold {
				continue
			}
		}
		matches = append(matches, Match{
			Score:      s,
			Person:     types.NewID(types.KindPerson, entry.ID),
			PersonName: entry.Name,
			Character:  entry.Character,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].PersonName != matches[j].PersonName {
			return matches[i].PersonName < matches[j].PersonName
		}
		return matches[i].Character < matches[j].Character
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// RankNames orders free-text name candidates by similarity to query,
// best first. Used to pick among ambiguous remote search results.
func RankNames(query string, names []string) []string {
	ranked := make([]string, len(names))
	copy(ranked, names)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(query, ranked[i]) > score(query, ranked[j])
	})
	return ranked
}
