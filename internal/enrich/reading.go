// Package enrich computes the textual metrics attached to catalog search
// results: Flesch readability scores and lexicon-based sentiment. The two
// stages run as independent actors; the Pipeline runs them back to back so
// a batch is only ever considered enriched when both stages succeeded.
package enrich

import (
	"math"
	"strings"
)

// ReadingStats holds the two Flesch metrics for one piece of text.
type ReadingStats struct {
	// Score is the Flesch Reading Ease score. Higher is easier.
	Score float64

	// Grade is the Flesch-Kincaid grade level.
	Grade float64
}

// AnalyzeReading computes Flesch Reading Ease and Flesch-Kincaid grade for
// the given text. Blank text scores a perfect 100 with grade 0. Sentences
// are counted as words terminated by '.', '!' or '?', never fewer than one.
// Both results are rounded to two decimals.
func AnalyzeReading(text string) ReadingStats {
	if strings.TrimSpace(text) == "" {
		return ReadingStats{Score: 100, Grade: 0}
	}

	words := strings.Split(strings.ToLower(text), " ")

	sentences := 0
	syllables := 0
	for _, w := range words {
		if strings.HasSuffix(w, ".") || strings.HasSuffix(w, "!") ||
			strings.HasSuffix(w, "?") {

			sentences++
		}
		syllables += countSyllables(w)
	}
	if sentences < 1 {
		sentences = 1
	}

	numWords := float64(len(words))
	numSentences := float64(sentences)
	numSyllables := float64(syllables)

	score := 206.835 - 1.015*(numWords/numSentences) -
		84.6*(numSyllables/numWords)
	grade := 0.39*(numWords/numSentences) +
		11.8*(numSyllables/numWords) - 15.59

	return ReadingStats{
		Score: round2(score),
		Grade: round2(grade),
	}
}

// countSyllables approximates the syllable count of one word by counting
// runs of vowels, discounting a silent trailing 'e'. Every word counts as at
// least one syllable.
func countSyllables(word string) int {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, word)

	if cleaned == "" {
		return 0
	}

	groups := 0
	prevVowel := false
	for _, r := range cleaned {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			groups++
		}
		prevVowel = vowel
	}

	// A trailing silent 'e' closes no new syllable ("side", "make").
	if strings.HasSuffix(cleaned, "e") && !strings.HasSuffix(cleaned, "le") &&
		groups > 1 {

		groups--
	}

	if groups < 1 {
		groups = 1
	}

	return groups
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
