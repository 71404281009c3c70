package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDedupKeyIgnoresReadingScores verifies that two results differing only
// in reading score and grade level share one dedup identity, while a
// sentiment difference splits them.
func TestDedupKeyIgnoresReadingScores(t *testing.T) {
	t.Parallel()

	base := VideoResult{
		ID:           "v1",
		Title:        "Launch day",
		Channel:      "SpaceNews",
		Description:  "The rocket lifted off.",
		VideoURL:     "https://www.youtube.com/watch?v=v1",
		ChannelID:    "c1",
		ThumbnailURL: "https://i.ytimg.com/v1/default.jpg",
	}

	scored := base
	scored.ReadingScore = 80.3
	scored.GradeLevel = 4.2
	require.Equal(t, base.Key(), scored.Key())

	sentiment := base
	sentiment.SentimentScore = 0.25
	require.NotEqual(t, base.Key(), sentiment.Key())
}
