// Package wordstats computes descending word-frequency statistics over the
// titles and descriptions of a query's search results.
package wordstats

import (
	"sort"
	"strings"

	"github.com/roasbeef/vidlens/internal/models"
)

// WordCount pairs a word with how often it appears.
type WordCount struct {
	Word  string `json:"word"`
	Count int64  `json:"count"`
}

// ComputeWordStats counts word occurrences across the titles and
// descriptions of the results. Words are lower-cased ASCII word-character
// runs; apostrophes survive only inside a word ("don't"), never at its
// edges. The output is sorted by descending count, ties broken
// alphabetically so the order is stable.
func ComputeWordStats(results []*models.VideoResult) []WordCount {
	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(res.Title)
		b.WriteByte(' ')
		b.WriteString(res.Description)
	}

	counts := make(map[string]int64)
	for _, word := range tokenize(b.String()) {
		counts[strings.ToLower(word)]++
	}

	stats := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		stats = append(stats, WordCount{Word: word, Count: count})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Word < stats[j].Word
	})

	return stats
}

// tokenize splits text into word tokens. A rune joins a token if it is a
// word character, or an apostrophe flanked by word characters on both
// sides.
func tokenize(text string) []string {
	runes := []rune(text)

	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for i, r := range runes {
		switch {
		case isWordChar(r):
			current.WriteRune(r)

		case r == '\'' && i > 0 && isWordChar(runes[i-1]) &&
			i+1 < len(runes) && isWordChar(runes[i+1]):

			current.WriteRune(r)

		default:
			flush()
		}
	}
	flush()

	return tokens
}

// isWordChar reports whether r is an ASCII letter, digit or underscore.
func isWordChar(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '_'
}
