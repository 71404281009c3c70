package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/vidlens/internal/baselib/actor"
	"github.com/roasbeef/vidlens/internal/models"
	"github.com/stretchr/testify/require"
)

// newTestPipeline spawns both stage actors in a fresh system and returns
// the pipeline wired over them.
func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()

	system := actor.NewSystem()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()
		require.NoError(t, system.Shutdown(ctx))
	})

	lex, err := LoadLexicon(strings.NewReader(sampleLexicon))
	require.NoError(t, err)

	reading := actor.Spawn[AddReadingStats, []*models.VideoResult](
		system, "reading", NewReadingService(),
	)
	sentiment := actor.Spawn[AddSentimentScores, []*models.VideoResult](
		system, "sentiment", NewSentimentService(lex),
	)

	return NewPipeline(reading, sentiment)
}

// TestPipelineEnrichesBatch verifies both stages run, the batch keeps its
// order, and all three derived fields are populated.
func TestPipelineEnrichesBatch(t *testing.T) {
	t.Parallel()

	pipeline := newTestPipeline(t)

	results := []*models.VideoResult{
		{ID: "a", Description: "I love rockets. They are fun."},
		{ID: "b", Description: "I hate delays."},
	}

	enriched, err := pipeline.Enrich(context.Background(), results)
	require.NoError(t, err)
	require.Len(t, enriched, 2)

	// Order preserved and mutation in place.
	require.Same(t, results[0], enriched[0])
	require.Equal(t, "a", enriched[0].ID)
	require.Equal(t, "b", enriched[1].ID)

	for _, res := range enriched {
		require.NotZero(t, res.ReadingScore)
		require.NotZero(t, res.GradeLevel)
	}
	require.Greater(t, enriched[0].SentimentScore, 0.0)
	require.Less(t, enriched[1].SentimentScore, 0.0)
}

// TestPipelineEmptyBatch verifies an empty batch passes straight through.
func TestPipelineEmptyBatch(t *testing.T) {
	t.Parallel()

	pipeline := newTestPipeline(t)

	enriched, err := pipeline.Enrich(
		context.Background(), []*models.VideoResult{},
	)
	require.NoError(t, err)
	require.Empty(t, enriched)
}

// failingSentiment always rejects the batch.
type failingSentiment struct{}

func (failingSentiment) Receive(_ context.Context,
	_ AddSentimentScores) fn.Result[[]*models.VideoResult] {

	return fn.Err[[]*models.VideoResult](errors.New("lexicon offline"))
}

// TestPipelineStageFailureFailsBatch verifies a stage error fails the whole
// batch rather than returning partially enriched results.
func TestPipelineStageFailureFailsBatch(t *testing.T) {
	t.Parallel()

	system := actor.NewSystem()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()
		require.NoError(t, system.Shutdown(ctx))
	})

	reading := actor.Spawn[AddReadingStats, []*models.VideoResult](
		system, "reading", NewReadingService(),
	)
	sentiment := actor.Spawn[AddSentimentScores, []*models.VideoResult](
		system, "sentiment", failingSentiment{},
	)
	pipeline := NewPipeline(reading, sentiment)

	_, err := pipeline.Enrich(context.Background(), []*models.VideoResult{
		{ID: "a", Description: "Some text."},
	})
	require.ErrorContains(t, err, "sentiment stage")
}
