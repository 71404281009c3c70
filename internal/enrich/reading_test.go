package enrich

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAnalyzeReadingBlankText verifies the blank-text special case: perfect
// ease, zero grade.
func TestAnalyzeReadingBlankText(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   "} {
		stats := AnalyzeReading(text)
		require.Equal(t, 100.0, stats.Score)
		require.Equal(t, 0.0, stats.Grade)
	}
}

// TestAnalyzeReadingSimpleText verifies easy prose scores higher than dense
// prose and that unpunctuated text still counts one sentence.
func TestAnalyzeReadingSimpleText(t *testing.T) {
	t.Parallel()

	easy := AnalyzeReading("The cat sat on the mat.")
	dense := AnalyzeReading(
		"Electromagnetic interference characterization " +
			"necessitates comprehensive instrumentation.",
	)
	require.Greater(t, easy.Score, dense.Score)
	require.Less(t, easy.Grade, dense.Grade)

	// No terminal punctuation: still a single sentence, not zero.
	unpunctuated := AnalyzeReading("no punctuation here at all")
	require.NotZero(t, unpunctuated.Score)
}

// TestAnalyzeReadingDeterministic verifies the same input always produces
// the same rounded output.
func TestAnalyzeReadingDeterministic(t *testing.T) {
	t.Parallel()

	const text = "Rockets are fun. Orbit is hard! Why so serious?"
	first := AnalyzeReading(text)
	for range 5 {
		require.Equal(t, first, AnalyzeReading(text))
	}
}

// TestCountSyllables spot-checks the vowel-group approximation.
func TestCountSyllables(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"cat":      1,
		"rocket":   2,
		"banana":   3,
		"make":     1,
		"little":   2,
		"rhythm":   1,
		"x7!":      1,
		"!!!":      0,
		"engineer": 3,
	}
	for word, want := range cases {
		require.Equal(t, want, countSyllables(word), "word %q", word)
	}
}
