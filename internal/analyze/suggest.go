// Package analyze finds near-miss names, so a typo in a worker name can be
// caught before it splits one person's work across two spellings.
package analyze

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Suggestion pairs a known name with its similarity score (0-1, higher is better).
type Suggestion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// DefaultThreshold is the minimum similarity score for a suggestion to be returned.
const DefaultThreshold = 0.6

// DefaultTopN is the maximum number of suggestions returned.
const DefaultTopN = 3

// Suggest returns known names similar to name, best first. It returns nil when
// name is already known (ignoring case and spacing), since there is nothing
// to correct.
func Suggest(name string, known []string) []Suggestion {
	return SuggestN(name, known, DefaultTopN, DefaultThreshold)
}

// SuggestN returns up to topN known names similar to name, with score >= threshold.
func SuggestN(name string, known []string, topN int, threshold float64) []Suggestion {
	norm := normalize(name)
	if norm == "" || len(known) == 0 {
		return nil
	}

	var results []Suggestion
	for _, k := range known {
		nk := normalize(k)
		if nk == norm {
			return nil
		}
		if score := similarity(norm, nk); score >= threshold {
			results = append(results, Suggestion{Name: k, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}

// similarity is the normalized Levenshtein similarity of a and b plus a small
// bonus for a shared prefix, capped at 1.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 0
	}

	lev := 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
	bonus := 0.1 * float64(commonPrefixLen(a, b)) / float64(maxLen)

	score := lev + bonus
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// normalize lowercases s and collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// commonPrefixLen returns the number of leading runes a and b share.
func commonPrefixLen(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return n
}
