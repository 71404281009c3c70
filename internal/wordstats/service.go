package wordstats

import (
	"context"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/vidlens/internal/baselib/actor"
	"github.com/roasbeef/vidlens/internal/catalog"
)

// ComputeStats requests the word-frequency table for a query's current
// search results.
type ComputeStats struct {
	actor.BaseMessage

	// Query is the search term to compute statistics for.
	Query string
}

// MessageType returns the message's type name.
func (ComputeStats) MessageType() string { return "ComputeStats" }

// Service is the actor behavior serving word statistics. It fetches the
// query's results from the catalog and reduces them to counts; the
// catalog's own cache keeps repeat queries cheap.
type Service struct {
	catalog catalog.Catalog
}

// NewService creates the word statistics behavior.
func NewService(cat catalog.Catalog) *Service {
	return &Service{catalog: cat}
}

// Receive implements actor.Behavior.
func (s *Service) Receive(ctx context.Context,
	msg ComputeStats) fn.Result[[]WordCount] {

	results, err := s.catalog.Search(ctx, msg.Query)
	if err != nil {
		return fn.Err[[]WordCount](fmt.Errorf(
			"searching %q: %w", msg.Query, err,
		))
	}

	stats := ComputeWordStats(results)

	log.InfoS(ctx, "Computed word stats", "query", msg.Query,
		"num_results", len(results), "num_words", len(stats))

	return fn.Ok(stats)
}

// ServiceRef is the typed reference to the word statistics actor.
type ServiceRef = actor.ActorRef[ComputeStats, []WordCount]

// Compile-time interface check.
var _ actor.Behavior[ComputeStats, []WordCount] = (*Service)(nil)
