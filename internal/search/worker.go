package search

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/vidlens/internal/actorutil"
	"github.com/roasbeef/vidlens/internal/baselib/actor"
	"github.com/roasbeef/vidlens/internal/catalog"
	"github.com/roasbeef/vidlens/internal/models"
)

const (
	// DefaultPollInterval is the fixed delay between catalog polls.
	DefaultPollInterval = 2 * time.Minute

	// DefaultFetchTimeout bounds one fetch plus enrichment round trip.
	DefaultFetchTimeout = 30 * time.Second

	// ackScoreWindow is how many of the most recent results feed the
	// score totals in a SubscribeAck.
	ackScoreWindow = 50

	// ackItemWindow is how many of the most recent results a
	// SubscribeAck carries in full.
	ackItemWindow = 10
)

// Enricher fills in the derived score fields of a result batch.
type Enricher interface {
	Enrich(ctx context.Context,
		results []*models.VideoResult) ([]*models.VideoResult, error)
}

// WorkerRef is the typed reference to a search worker.
type WorkerRef = actor.ActorRef[WorkerMessage, any]

// WorkerConfig holds a worker's dependencies.
type WorkerConfig struct {
	// Query is the search term this worker owns.
	Query string

	// Catalog serves the polls.
	Catalog catalog.Catalog

	// Enricher scores fetched batches before they reach subscribers.
	Enricher Enricher

	// PollInterval is the fixed delay between polls. Non-positive
	// disables the timer, leaving ticks to the caller.
	PollInterval time.Duration

	// FetchTimeout bounds one fetch plus enrichment. Zero means the
	// default.
	FetchTimeout time.Duration

	// Supervisor receives failure reports. May be nil in tests.
	Supervisor actor.TellOnlyRef[SupervisorMessage]
}

// Worker is the per-query polling actor. It owns the insertion-ordered set
// of results seen for its query, a subscriber registry, and a fixed-delay
// poll timer. Fetches run off the actor goroutine and re-enter the mailbox
// as fetchDone, so at most one fetch is ever in flight and state mutation
// stays single-threaded.
//
// The seen set only ever grows. A query's history is the product the worker
// sells; trimming it would change what late subscribers see.
type Worker struct {
	cfg WorkerConfig

	// self lets the timer and fetch goroutines re-enter the mailbox.
	self actor.TellOnlyRef[WorkerMessage]

	subscribers map[string]actor.TellOnlyRef[SubscriberEvent]

	// seen holds every distinct result in first-seen order; seenKeys is
	// its membership index.
	seen     []*models.VideoResult
	seenKeys map[models.DedupKey]struct{}

	// pendingAcks are subscribers owed a SubscribeAck once the next
	// fetch completes.
	pendingAcks []actor.TellOnlyRef[SubscriberEvent]

	fetchInFlight bool

	tickerStop chan struct{}
}

// NewWorker creates a worker behavior for one query. Call bind after
// spawning to wire the self reference and start the poll timer.
func NewWorker(cfg WorkerConfig) *Worker {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	return &Worker{
		cfg:         cfg,
		subscribers: make(map[string]actor.TellOnlyRef[SubscriberEvent]),
		seenKeys:    make(map[models.DedupKey]struct{}),
	}
}

// bind wires the worker to its own spawned reference and starts the poll
// timer. Must be called before any message is sent to the worker.
func (w *Worker) bind(self actor.TellOnlyRef[WorkerMessage]) {
	w.self = self

	if w.cfg.PollInterval <= 0 {
		return
	}

	w.tickerStop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(w.cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.self.Tell(context.Background(), Tick{})

			case <-w.tickerStop:
				return
			}
		}
	}()
}

// Receive implements actor.Behavior.
func (w *Worker) Receive(ctx context.Context,
	msg WorkerMessage) fn.Result[any] {

	switch m := msg.(type) {
	case Subscribe:
		w.handleSubscribe(ctx, m)

	case Unsubscribe:
		w.handleUnsubscribe(ctx, m)

	case Tick:
		w.handleTick(ctx)

	case fetchDone:
		w.handleFetchDone(ctx, m)
	}

	return fn.Ok[any](nil)
}

// OnStop implements actor.Stoppable, stopping the poll timer.
func (w *Worker) OnStop(_ context.Context) error {
	if w.tickerStop != nil {
		close(w.tickerStop)
	}

	return nil
}

// handleSubscribe registers the subscriber. With history already on hand
// the ack goes out immediately; an empty history means this is the query's
// first subscriber, so a catch-up fetch runs first and the ack follows its
// completion.
func (w *Worker) handleSubscribe(ctx context.Context, msg Subscribe) {
	w.subscribers[msg.Subscriber.ID()] = msg.Subscriber

	log.InfoS(ctx, "User subscribed", "query", w.cfg.Query,
		"subscriber", msg.Subscriber.ID(),
		"num_subscribers", len(w.subscribers))

	if len(w.seen) > 0 {
		w.sendAck(ctx, msg.Subscriber)
		return
	}

	w.pendingAcks = append(w.pendingAcks, msg.Subscriber)
	if !w.fetchInFlight {
		w.startFetch()
	}
}

// handleUnsubscribe drops the subscriber. The worker keeps polling; only a
// supervisor decision tears a worker down.
func (w *Worker) handleUnsubscribe(ctx context.Context, msg Unsubscribe) {
	delete(w.subscribers, msg.Subscriber.ID())

	kept := w.pendingAcks[:0]
	for _, sub := range w.pendingAcks {
		if sub.ID() != msg.Subscriber.ID() {
			kept = append(kept, sub)
		}
	}
	w.pendingAcks = kept

	log.InfoS(ctx, "User unsubscribed", "query", w.cfg.Query,
		"subscriber", msg.Subscriber.ID(),
		"num_subscribers", len(w.subscribers))
}

// handleTick starts a poll unless nobody is listening or a fetch is still
// outstanding.
func (w *Worker) handleTick(ctx context.Context) {
	switch {
	case len(w.subscribers) == 0:
		log.DebugS(ctx, "Tick with no subscribers",
			"query", w.cfg.Query)

	case w.fetchInFlight:
		log.DebugS(ctx, "Tick skipped, fetch in flight",
			"query", w.cfg.Query)

	default:
		log.DebugS(ctx, "Search ticked", "query", w.cfg.Query)
		w.startFetch()
	}
}

// startFetch launches the fetch+enrich round trip off the actor goroutine.
// Its outcome re-enters the mailbox as fetchDone.
func (w *Worker) startFetch() {
	w.fetchInFlight = true

	go func() {
		ctx, cancel := context.WithTimeout(
			context.Background(), w.cfg.FetchTimeout,
		)
		defer cancel()

		results, err := w.cfg.Catalog.Search(ctx, w.cfg.Query)
		if err == nil {
			results, err = w.cfg.Enricher.Enrich(ctx, results)
		}

		w.self.Tell(context.Background(), fetchDone{
			results: results,
			err:     err,
		})
	}()
}

// handleFetchDone folds a completed fetch into worker state. Failures leave
// state untouched and go to the supervisor; pending acks stay queued for
// the next successful fetch. On success, unseen items are appended in
// upstream order and broadcast, then owed acks go out.
func (w *Worker) handleFetchDone(ctx context.Context, msg fetchDone) {
	w.fetchInFlight = false

	if msg.err != nil {
		log.WarnS(ctx, "Fetch failed", msg.err, "query", w.cfg.Query)

		if w.cfg.Supervisor != nil {
			w.cfg.Supervisor.Tell(ctx, workerFailed{
				query: w.cfg.Query,
				err:   msg.err,
			})
		}

		return
	}

	// Subscribers owed an ack get their history in the ack itself, not
	// as a stream of singles.
	awaitingAck := make(map[string]struct{}, len(w.pendingAcks))
	for _, sub := range w.pendingAcks {
		awaitingAck[sub.ID()] = struct{}{}
	}

	recipients := make(
		[]actor.TellOnlyRef[SubscriberEvent], 0, len(w.subscribers),
	)
	for id, sub := range w.subscribers {
		if _, pending := awaitingAck[id]; pending {
			continue
		}
		recipients = append(recipients, sub)
	}

	fresh := 0
	for _, res := range msg.results {
		key := res.Key()
		if _, seen := w.seenKeys[key]; seen {
			continue
		}

		w.seenKeys[key] = struct{}{}
		w.seen = append(w.seen, res)
		fresh++

		actorutil.TellAll(ctx, recipients, SubscriberEvent(NewResult{
			Query:  w.cfg.Query,
			Result: res,
		}))
	}

	for _, sub := range w.pendingAcks {
		w.sendAck(ctx, sub)
	}
	w.pendingAcks = nil

	log.DebugS(ctx, "Fetch complete", "query", w.cfg.Query,
		"num_results", len(msg.results), "num_fresh", fresh,
		"num_seen", len(w.seen))
}

// sendAck delivers the batch summary built from current history.
func (w *Worker) sendAck(ctx context.Context,
	sub actor.TellOnlyRef[SubscriberEvent]) {

	n := len(w.seen)

	count := n
	if count > ackScoreWindow {
		count = ackScoreWindow
	}

	var sentiment, reading, grade float64
	for _, res := range w.seen[n-count:] {
		sentiment += res.SentimentScore
		reading += res.ReadingScore
		grade += res.GradeLevel
	}

	items := ackItemWindow
	if items > n {
		items = n
	}

	sub.Tell(ctx, SubscribeAck{
		Query:               w.cfg.Query,
		TotalCount:          count,
		TotalSentimentScore: sentiment,
		TotalReadingScore:   reading,
		TotalReadingGrade:   grade,
		Results:             w.seen[n-items:],
	})
}

// Compile-time interface checks.
var (
	_ actor.Behavior[WorkerMessage, any] = (*Worker)(nil)
	_ actor.Stoppable                    = (*Worker)(nil)
)
