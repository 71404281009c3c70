package enrich

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/vidlens/internal/baselib/actor"
	"github.com/roasbeef/vidlens/internal/models"
)

// ReadingService is the actor behavior computing readability metrics for
// result batches. It mutates the batch in place and echoes it back so
// callers can chain stages.
type ReadingService struct{}

// NewReadingService creates the reading stage behavior.
func NewReadingService() *ReadingService {
	return &ReadingService{}
}

// Receive implements actor.Behavior.
func (s *ReadingService) Receive(ctx context.Context,
	msg AddReadingStats) fn.Result[[]*models.VideoResult] {

	for _, res := range msg.Results {
		stats := AnalyzeReading(res.Description)
		res.ReadingScore = stats.Score
		res.GradeLevel = stats.Grade
	}

	log.DebugS(ctx, "Added reading stats",
		"num_results", len(msg.Results))

	return fn.Ok(msg.Results)
}

// SentimentService is the actor behavior computing sentiment scores for
// result batches using a loaded lexicon.
type SentimentService struct {
	lexicon *Lexicon
}

// NewSentimentService creates the sentiment stage behavior.
func NewSentimentService(lexicon *Lexicon) *SentimentService {
	return &SentimentService{lexicon: lexicon}
}

// Receive implements actor.Behavior.
func (s *SentimentService) Receive(ctx context.Context,
	msg AddSentimentScores) fn.Result[[]*models.VideoResult] {

	for _, res := range msg.Results {
		res.SentimentScore = s.lexicon.SentimentScore(res.Description)
	}

	log.DebugS(ctx, "Added sentiment scores",
		"num_results", len(msg.Results))

	return fn.Ok(msg.Results)
}

// ReadingRef is the typed reference to the reading stage actor.
type ReadingRef = actor.ActorRef[AddReadingStats, []*models.VideoResult]

// SentimentRef is the typed reference to the sentiment stage actor.
type SentimentRef = actor.ActorRef[AddSentimentScores, []*models.VideoResult]

// Compile-time interface checks.
var (
	_ actor.Behavior[AddReadingStats, []*models.VideoResult]    = (*ReadingService)(nil)
	_ actor.Behavior[AddSentimentScores, []*models.VideoResult] = (*SentimentService)(nil)
)
