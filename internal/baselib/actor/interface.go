// Package actor implements the lightweight actor runtime used by the vidlens
// search engine. Each actor owns its state and processes messages from a
// single mailbox sequentially, so no locking is needed inside behaviors. The
// runtime provides typed references supporting fire-and-forget sends (Tell)
// and request/response interactions (Ask) backed by promises.
package actor

import (
	"context"
	"errors"
	"iter"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// ErrActorTerminated indicates that an operation failed because the target
// actor was terminated or is shutting down.
var ErrActorTerminated = errors.New("actor terminated")

// BaseMessage can be embedded by message types defined outside this package
// to satisfy the Message interface's unexported marker method.
type BaseMessage struct{}

// messageMarker seals the Message interface for types embedding BaseMessage.
func (BaseMessage) messageMarker() {}

// Message is the sealed interface all actor messages implement. Only types
// embedding BaseMessage (or defined in this package) can satisfy it.
type Message interface {
	messageMarker()

	// MessageType returns the message's type name for logging and
	// routing.
	MessageType() string
}

// Future is the consumer side of an asynchronous result.
type Future[T any] interface {
	// Await blocks until the result is available or the context is
	// cancelled.
	Await(ctx context.Context) fn.Result[T]

	// OnComplete registers a callback invoked once the result is ready.
	// If the context is cancelled first, the callback receives the
	// context's error instead.
	OnComplete(ctx context.Context, cb func(fn.Result[T]))
}

// Promise is the producer side of a Future. Completing a promise at most
// once resolves the associated future for every waiter.
type Promise[T any] interface {
	// Future returns the consumer handle for this promise.
	Future() Future[T]

	// Complete resolves the future. It reports whether this call was the
	// one that set the result.
	Complete(result fn.Result[T]) bool
}

// BaseRef is the non-generic root of all actor references, letting
// heterogeneous references live in one collection (e.g. a subscriber set).
type BaseRef interface {
	// ID returns the unique identifier of the referenced actor.
	ID() string
}

// TellOnlyRef is a capability-restricted reference supporting only
// fire-and-forget sends.
type TellOnlyRef[M Message] interface {
	BaseRef

	// Tell enqueues a message without waiting for a response. The message
	// may be dropped if the context is cancelled or the actor has
	// terminated.
	Tell(ctx context.Context, msg M)
}

// ActorRef is a full reference supporting both Tell and Ask.
type ActorRef[M Message, R any] interface {
	TellOnlyRef[M]

	// Ask enqueues a message and returns a Future resolved with the
	// actor's reply, or with an error if delivery fails.
	Ask(ctx context.Context, msg M) Future[R]
}

// Behavior encapsulates an actor's reaction to messages. Receive runs on the
// actor's own goroutine; implementations never need internal locking for
// state they own exclusively.
type Behavior[M Message, R any] interface {
	// Receive processes one message. The context cancels when the actor
	// shuts down or, for Ask interactions, when the caller's deadline
	// expires.
	Receive(ctx context.Context, msg M) fn.Result[R]
}

// Stoppable is an optional interface behaviors can implement to release
// external resources when their actor stops.
type Stoppable interface {
	// OnStop runs after the message loop exits. The context carries the
	// cleanup deadline.
	OnStop(ctx context.Context) error
}

// Mailbox is the queue an actor consumes messages from. Send may be called
// concurrently; Receive and Drain belong to the actor's goroutine only.
type Mailbox[M Message, R any] interface {
	// Send blocks until the envelope is accepted, the caller's context is
	// cancelled, or the actor terminates. It reports success.
	Send(ctx context.Context, env envelope[M, R]) bool

	// Receive iterates over envelopes as they arrive, stopping when the
	// given context is cancelled or the mailbox is closed.
	Receive(ctx context.Context) iter.Seq[envelope[M, R]]

	// Close rejects all future sends. Idempotent.
	Close()

	// Drain yields envelopes still queued after Close, for dead-letter
	// routing.
	Drain() iter.Seq[envelope[M, R]]
}
