package enrich

import (
	"context"
	"fmt"

	"github.com/roasbeef/vidlens/internal/actorutil"
	"github.com/roasbeef/vidlens/internal/models"
)

// Pipeline chains the two enrichment stages. Both must succeed for a batch
// to count as enriched; a stage failure fails the whole batch and leaves
// the caller to retry on its next poll.
type Pipeline struct {
	reading   ReadingRef
	sentiment SentimentRef
}

// NewPipeline builds a pipeline over the two stage actors.
func NewPipeline(reading ReadingRef, sentiment SentimentRef) *Pipeline {
	return &Pipeline{
		reading:   reading,
		sentiment: sentiment,
	}
}

// Enrich runs reading then sentiment over the batch, mutating the results
// in place and preserving order. The returned slice is the input slice.
func (p *Pipeline) Enrich(ctx context.Context,
	results []*models.VideoResult) ([]*models.VideoResult, error) {

	results, err := actorutil.AskAwait(
		ctx, p.reading, AddReadingStats{Results: results},
	)
	if err != nil {
		return nil, fmt.Errorf("reading stage: %w", err)
	}

	results, err = actorutil.AskAwait(
		ctx, p.sentiment, AddSentimentScores{Results: results},
	)
	if err != nil {
		return nil, fmt.Errorf("sentiment stage: %w", err)
	}

	return results, nil
}
