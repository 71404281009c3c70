package search

import (
	"context"
	"net/url"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/vidlens/internal/baselib/actor"
	"github.com/roasbeef/vidlens/internal/catalog"
)

// SupervisorRef is the typed reference to the search supervisor. It is the
// only handle the session layer ever needs.
type SupervisorRef = actor.ActorRef[SupervisorMessage, any]

// SupervisorConfig holds the supervisor's dependencies.
type SupervisorConfig struct {
	// System spawns and stops the worker actors.
	System *actor.System

	// Catalog serves every worker's polls.
	Catalog catalog.Catalog

	// Enricher scores every worker's batches.
	Enricher Enricher

	// PollInterval is passed to spawned workers. Zero means the
	// default.
	PollInterval time.Duration

	// FetchTimeout is passed to spawned workers. Zero means the
	// default.
	FetchTimeout time.Duration

	// FailureLimit and FailureWindow bound each worker's failure rate.
	// Zero values mean the defaults.
	FailureLimit  int
	FailureWindow time.Duration

	// Fatal receives escalated errors the daemon must act on. Delivery
	// is non-blocking; a full channel drops the duplicate report.
	Fatal chan<- error
}

// workerHandle is the supervisor's bookkeeping for one child.
type workerHandle struct {
	actorID  string
	ref      WorkerRef
	failures *FailureWindow
}

// Supervisor owns one worker per unique query. It creates workers lazily on
// StartSearch, forwards subscriptions, and applies the fault policy to
// failure reports. Workers are never torn down by unsubscribe, only by the
// policy.
type Supervisor struct {
	cfg SupervisorConfig

	// self is handed to workers so their failure reports land back in
	// this mailbox.
	self actor.TellOnlyRef[SupervisorMessage]

	children map[string]*workerHandle
}

// NewSupervisor creates the supervisor behavior, filling config defaults.
func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.FailureLimit <= 0 {
		cfg.FailureLimit = DefaultFailureLimit
	}
	if cfg.FailureWindow <= 0 {
		cfg.FailureWindow = DefaultFailureWindow
	}

	return &Supervisor{
		cfg:      cfg,
		children: make(map[string]*workerHandle),
	}
}

// SpawnSupervisor spawns the supervisor in its system and returns its
// reference.
func SpawnSupervisor(cfg SupervisorConfig) SupervisorRef {
	s := NewSupervisor(cfg)
	ref := actor.Spawn[SupervisorMessage, any](
		cfg.System, "search-supervisor", s,
	)
	s.self = ref

	return ref
}

// Receive implements actor.Behavior.
func (s *Supervisor) Receive(ctx context.Context,
	msg SupervisorMessage) fn.Result[any] {

	switch m := msg.(type) {
	case StartSearch:
		s.handleStart(ctx, m)

	case EndSearch:
		s.handleEnd(ctx, m)

	case workerFailed:
		s.handleFailure(ctx, m)
	}

	return fn.Ok[any](nil)
}

// handleStart looks up or creates the query's worker and forwards the
// subscription. Creation is atomic because all StartSearch messages pass
// through this one mailbox.
func (s *Supervisor) handleStart(ctx context.Context, msg StartSearch) {
	h, ok := s.children[msg.Query]
	if !ok {
		h = s.spawnWorker(msg.Query)
		s.children[msg.Query] = h

		log.InfoS(ctx, "Search worker created", "query", msg.Query)
	} else {
		log.DebugS(ctx, "Search worker already exists",
			"query", msg.Query)
	}

	h.ref.Tell(ctx, Subscribe{Subscriber: msg.Subscriber})
}

// handleEnd forwards the unsubscribe to the query's worker, if any.
func (s *Supervisor) handleEnd(ctx context.Context, msg EndSearch) {
	h, ok := s.children[msg.Query]
	if !ok {
		log.DebugS(ctx, "EndSearch for unknown query",
			"query", msg.Query)
		return
	}

	h.ref.Tell(ctx, Unsubscribe{Subscriber: msg.Subscriber})
}

// handleFailure applies the fault policy to one worker failure. Exhausting
// the failure window stops the worker no matter how the error classifies.
func (s *Supervisor) handleFailure(ctx context.Context, msg workerFailed) {
	h, ok := s.children[msg.query]
	if !ok {
		return
	}

	directive := Classify(msg.err)
	if h.failures.Record() {
		directive = Stop
	}

	log.InfoS(ctx, "Worker failure", "query", msg.query,
		"directive", directive, "err", msg.err,
		"recent_failures", h.failures.Count())

	switch directive {
	case Resume:
		// State intact, next tick retries.

	case Stop:
		s.cfg.System.StopActor(h.actorID)
		delete(s.children, msg.query)

		log.WarnS(ctx, "Search worker stopped", msg.err,
			"query", msg.query)

	case Escalate:
		s.cfg.System.StopActor(h.actorID)
		delete(s.children, msg.query)

		log.CriticalS(ctx, "Worker failure escalated", msg.err,
			"query", msg.query)

		if s.cfg.Fatal != nil {
			select {
			case s.cfg.Fatal <- msg.err:
			default:
			}
		}
	}
}

// spawnWorker creates, spawns and binds a worker for one query.
func (s *Supervisor) spawnWorker(query string) *workerHandle {
	w := NewWorker(WorkerConfig{
		Query:        query,
		Catalog:      s.cfg.Catalog,
		Enricher:     s.cfg.Enricher,
		PollInterval: s.cfg.PollInterval,
		FetchTimeout: s.cfg.FetchTimeout,
		Supervisor:   s.self,
	})

	actorID := "search-worker/" + url.QueryEscape(query)
	ref := actor.Spawn[WorkerMessage, any](s.cfg.System, actorID, w)
	w.bind(ref)

	return &workerHandle{
		actorID:  actorID,
		ref:      ref,
		failures: NewFailureWindow(
			s.cfg.FailureLimit, s.cfg.FailureWindow,
		),
	}
}

// Compile-time interface check.
var _ actor.Behavior[SupervisorMessage, any] = (*Supervisor)(nil)
