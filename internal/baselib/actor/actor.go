package actor

import (
	"context"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// defaultCleanupTimeout bounds how long a Stoppable behavior may spend in
// OnStop before shutdown proceeds without it.
const defaultCleanupTimeout = 5 * time.Second

// Config holds the parameters for creating an Actor.
type Config[M Message, R any] struct {
	// ID uniquely identifies the actor, used in logs and references.
	ID string

	// Behavior reacts to the actor's messages.
	Behavior Behavior[M, R]

	// DLO receives messages left in the mailbox when the actor stops.
	// May be nil, in which case drained messages are dropped.
	DLO TellOnlyRef[Message]

	// MailboxSize is the mailbox buffer capacity; non-positive values
	// default to 1.
	MailboxSize int

	// Wg, when non-nil, tracks the actor's goroutine so a system can
	// wait for every actor to exit during shutdown.
	Wg *sync.WaitGroup

	// CleanupTimeout bounds OnStop cleanup. Zero means the default.
	CleanupTimeout time.Duration
}

// Actor runs a Behavior on its own goroutine, feeding it messages from a
// mailbox one at a time. All state owned by the behavior is therefore
// confined to a single goroutine.
type Actor[M Message, R any] struct {
	id       string
	behavior Behavior[M, R]
	mailbox  Mailbox[M, R]

	// ctx governs the actor's lifetime; cancel tears it down.
	ctx    context.Context
	cancel context.CancelFunc

	dlo            TellOnlyRef[Message]
	wg             *sync.WaitGroup
	cleanupTimeout time.Duration

	startOnce sync.Once
	stopOnce  sync.Once

	ref ActorRef[M, R]
}

// New creates an actor without starting it. Call Start to begin processing.
func New[M Message, R any](cfg Config[M, R]) *Actor[M, R] {
	ctx, cancel := context.WithCancel(context.Background())

	cleanup := cfg.CleanupTimeout
	if cleanup <= 0 {
		cleanup = defaultCleanupTimeout
	}

	a := &Actor[M, R]{
		id:             cfg.ID,
		behavior:       cfg.Behavior,
		mailbox:        newChannelMailbox[M, R](ctx, cfg.MailboxSize),
		ctx:            ctx,
		cancel:         cancel,
		dlo:            cfg.DLO,
		wg:             cfg.Wg,
		cleanupTimeout: cleanup,
	}
	a.ref = &refImpl[M, R]{actor: a}

	return a
}

// Start launches the actor's processing goroutine. Safe to call more than
// once; only the first call has an effect.
func (a *Actor[M, R]) Start() {
	a.startOnce.Do(func() {
		log.DebugS(a.ctx, "Starting actor", "actor_id", a.id)

		if a.wg != nil {
			a.wg.Add(1)
		}
		go a.run()
	})
}

// Stop cancels the actor's context, terminating the processing loop. Pending
// mailbox messages are drained to the DLO.
func (a *Actor[M, R]) Stop() {
	a.stopOnce.Do(a.cancel)
}

// Ref returns the actor's full reference.
func (a *Actor[M, R]) Ref() ActorRef[M, R] {
	return a.ref
}

// TellRef returns a send-only view of the actor's reference.
func (a *Actor[M, R]) TellRef() TellOnlyRef[M] {
	return a.ref
}

// run is the actor's message loop. It exits when the actor context cancels,
// then drains the mailbox and runs optional OnStop cleanup.
func (a *Actor[M, R]) run() {
	if a.wg != nil {
		defer a.wg.Done()
	}

	for env := range a.mailbox.Receive(a.ctx) {
		// Asks honor the caller's deadline in addition to actor
		// shutdown; Tells are fire-and-forget once enqueued and only
		// observe the actor's own lifetime.
		processCtx := a.ctx
		cancel := context.CancelFunc(func() {})
		if env.promise != nil {
			processCtx, cancel = mergeContexts(a.ctx, env.callerCtx)
		}

		result := a.behavior.Receive(processCtx, env.message)
		cancel()

		if env.promise != nil {
			env.promise.Complete(result)
		}
	}

	a.mailbox.Close()

	drained := 0
	for env := range a.mailbox.Drain() {
		drained++

		if a.dlo != nil {
			a.dlo.Tell(context.Background(), env.message)
		}
		if env.promise != nil {
			env.promise.Complete(fn.Err[R](ErrActorTerminated))
		}
	}

	if s, ok := a.behavior.(Stoppable); ok {
		cleanupCtx, cancel := context.WithTimeout(
			context.Background(), a.cleanupTimeout,
		)
		defer cancel()

		if err := s.OnStop(cleanupCtx); err != nil {
			log.WarnS(a.ctx, "Actor cleanup failed", err,
				"actor_id", a.id)
		}
	}

	log.DebugS(a.ctx, "Actor terminated", "actor_id", a.id,
		"drained_messages", drained)
}

// mergeContexts derives a context that cancels when either parent does,
// preserving the earlier of their deadlines. The watcher goroutine exits as
// soon as any of the three contexts is done.
func mergeContexts(ctx1, ctx2 context.Context) (context.Context,
	context.CancelFunc) {

	base := ctx1
	if d2, ok2 := ctx2.Deadline(); ok2 {
		if d1, ok1 := ctx1.Deadline(); !ok1 || d2.Before(d1) {
			base = ctx2
		}
	}

	merged, cancel := context.WithCancel(base)

	go func() {
		select {
		case <-ctx1.Done():
			cancel()
		case <-ctx2.Done():
			cancel()
		case <-merged.Done():
		}
	}()

	return merged, cancel
}

// refImpl implements ActorRef by enqueueing into the target's mailbox.
type refImpl[M Message, R any] struct {
	actor *Actor[M, R]
}

// ID returns the target actor's identifier.
func (r *refImpl[M, R]) ID() string {
	return r.actor.id
}

// Tell sends msg without awaiting a response. When the send fails because
// the actor terminated, the message is routed to the DLO; a caller-side
// cancellation simply drops it.
func (r *refImpl[M, R]) Tell(ctx context.Context, msg M) {
	ok := r.actor.mailbox.Send(ctx, envelope[M, R]{
		message:   msg,
		callerCtx: ctx,
	})
	if ok {
		return
	}

	if ctx.Err() == nil || r.actor.ctx.Err() != nil {
		if r.actor.dlo != nil {
			r.actor.dlo.Tell(context.Background(), msg)
		}
	}
}

// Ask sends msg and returns a Future for the behavior's reply.
func (r *refImpl[M, R]) Ask(ctx context.Context, msg M) Future[R] {
	p := NewPromise[R]()

	if r.actor.ctx.Err() != nil {
		p.Complete(fn.Err[R](ErrActorTerminated))
		return p.Future()
	}

	ok := r.actor.mailbox.Send(ctx, envelope[M, R]{
		message:   msg,
		promise:   p,
		callerCtx: ctx,
	})
	if !ok {
		// Actor termination takes precedence over a caller-side
		// cancellation when explaining the failure.
		switch {
		case r.actor.ctx.Err() != nil:
			p.Complete(fn.Err[R](ErrActorTerminated))

		case ctx.Err() != nil:
			p.Complete(fn.Err[R](ctx.Err()))

		default:
			p.Complete(fn.Err[R](ErrActorTerminated))
		}
	}

	return p.Future()
}
