package enrich

import (
	"github.com/roasbeef/vidlens/internal/baselib/actor"
	"github.com/roasbeef/vidlens/internal/models"
)

// AddReadingStats asks the reading actor to fill in ReadingScore and
// GradeLevel for every result in the batch.
type AddReadingStats struct {
	actor.BaseMessage

	Results []*models.VideoResult
}

// MessageType implements actor.Message.
func (AddReadingStats) MessageType() string { return "AddReadingStats" }

// AddSentimentScores asks the sentiment actor to fill in SentimentScore for
// every result in the batch.
type AddSentimentScores struct {
	actor.BaseMessage

	Results []*models.VideoResult
}

// MessageType implements actor.Message.
func (AddSentimentScores) MessageType() string { return "AddSentimentScores" }
