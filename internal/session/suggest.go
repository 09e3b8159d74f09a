package session

import (
	"sort"
	"strings"
)

// searchVocabulary seeds did-you-mean suggestions for searches that come
// back empty. It covers the domain terms users actually search for.
var searchVocabulary = []string{
	"collision", "caliber", "service", "center", "automotive",
	"account", "contact", "opportunity", "customer", "dealer",
	"distributor", "paint", "refinish", "coating", "industrial",
	"transportation", "commercial", "vehicle", "body", "shop",
}

// suggestCutoff is the minimum similarity ratio for a suggestion.
const suggestCutoff = 0.6

// closeMatches returns up to n candidates similar to term, best first.
// Similarity is the matched-character ratio 2*M/T over lowercased inputs,
// where M is the longest common subsequence length and T the total length.
func closeMatches(term string, candidates []string, n int) []string {
	term = strings.ToLower(term)

	type scored struct {
		value string
		ratio float64
	}
	var matches []scored
	for _, candidate := range candidates {
		r := similarity(term, strings.ToLower(candidate))
		if r >= suggestCutoff {
			matches = append(matches, scored{candidate, r})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ratio > matches[j].ratio
	})

	out := make([]string, 0, n)
	for _, m := range matches {
		if len(out) == n {
			break
		}
		out = append(out, m.value)
	}
	return out
}

func similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 2 * float64(lcsLength(a, b)) / float64(len(a)+len(b))
}

// lcsLength computes the longest common subsequence length with a rolling
// single-row table.
func lcsLength(a, b string) int {
	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := row[j]
			if a[i-1] == b[j-1] {
				row[j] = prev + 1
			} else if row[j-1] > row[j] {
				row[j] = row[j-1]
			}
			prev = cur
		}
	}
	return row[len(b)]
}
