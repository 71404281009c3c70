package actor

import (
	"context"
	"errors"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// stopper is the minimal lifecycle view the system keeps of its actors.
type stopper interface {
	Stop()
}

// SystemConfig holds system-wide defaults.
type SystemConfig struct {
	// MailboxCapacity is the default mailbox buffer for spawned actors.
	MailboxCapacity int
}

// DefaultSystemConfig returns the standard system configuration.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		MailboxCapacity: 100,
	}
}

// System owns a set of actors and coordinates their shutdown. It also hosts
// the dead-letter actor that receives undeliverable messages.
type System struct {
	cfg SystemConfig

	// actors tracks every spawned actor by ID, including dead-letters.
	actors map[string]stopper

	// deadLetters swallows undeliverable messages, logging each one.
	deadLetters ActorRef[Message, any]

	// mu protects the actors map.
	mu sync.Mutex

	// ctx cancels when the system shuts down; no actors can be spawned
	// afterwards.
	ctx    context.Context
	cancel context.CancelFunc

	// wg tracks running actor goroutines for deterministic shutdown.
	wg sync.WaitGroup
}

// NewSystem creates a system with default configuration.
func NewSystem() *System {
	return NewSystemWithConfig(DefaultSystemConfig())
}

// NewSystemWithConfig creates a system with the given configuration.
func NewSystemWithConfig(cfg SystemConfig) *System {
	ctx, cancel := context.WithCancel(context.Background())

	s := &System{
		cfg:    cfg,
		actors: make(map[string]stopper),
		ctx:    ctx,
		cancel: cancel,
	}

	// The DLO's own DLO is nil so a failed dead-letter delivery cannot
	// loop back into itself.
	dlo := New(Config[Message, any]{
		ID: "dead-letters",
		Behavior: NewFunctionBehavior(
			func(ctx context.Context, msg Message) fn.Result[any] {
				log.DebugS(ctx, "Dead letter",
					"msg_type", msg.MessageType())

				return fn.Err[any](errors.New(
					"message undeliverable: " +
						msg.MessageType(),
				))
			},
		),
		MailboxSize: cfg.MailboxCapacity,
		Wg:          &s.wg,
	})
	dlo.Start()

	s.deadLetters = dlo.Ref()
	s.actors[dlo.id] = dlo

	return s
}

// DeadLetters returns the system's dead-letter reference.
func (s *System) DeadLetters() ActorRef[Message, any] {
	return s.deadLetters
}

// Spawn creates, starts, and tracks an actor running the given behavior. If
// the system is already shut down, the returned reference is to a stopped
// actor and every interaction with it fails with ErrActorTerminated.
func Spawn[M Message, R any](s *System, id string,
	behavior Behavior[M, R]) ActorRef[M, R] {

	if s.ctx.Err() != nil {
		return stoppedRef[M, R](id)
	}

	a := New(Config[M, R]{
		ID:          id,
		Behavior:    behavior,
		DLO:         s.deadLetters,
		MailboxSize: s.cfg.MailboxCapacity,
		Wg:          &s.wg,
	})
	a.Start()

	s.mu.Lock()
	s.actors[a.id] = a
	s.mu.Unlock()

	log.DebugS(s.ctx, "Actor spawned", "actor_id", id)

	return a.Ref()
}

// StopActor stops a tracked actor by ID and forgets it. It reports whether
// the actor was found.
func (s *System) StopActor(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actors[id]
	if !ok {
		return false
	}

	a.Stop()
	delete(s.actors, id)

	log.DebugS(s.ctx, "Actor stopped", "actor_id", id)

	return true
}

// Shutdown stops every actor and waits for their goroutines to exit, or for
// the context to expire. Cancelling the system context first guarantees no
// new actors can register after the snapshot is taken.
func (s *System) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	toStop := make([]stopper, 0, len(s.actors))
	for _, a := range s.actors {
		toStop = append(toStop, a)
	}
	s.actors = make(map[string]stopper)
	s.mu.Unlock()

	log.InfoS(ctx, "Actor system shutting down",
		"num_actors", len(toStop))

	for _, a := range toStop {
		a.Stop()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.InfoS(ctx, "Actor system shutdown complete")
		return nil

	case <-ctx.Done():
		log.ErrorS(ctx, "Actor system shutdown incomplete", ctx.Err())
		return ctx.Err()
	}
}

// stoppedRef builds a reference whose target is already terminated, avoiding
// nil references when spawning after shutdown.
func stoppedRef[M Message, R any](id string) ActorRef[M, R] {
	a := New(Config[M, R]{ID: id})
	a.Stop()

	return a.Ref()
}
