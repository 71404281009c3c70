package actor

import (
	"context"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// promise is the single implementation of Promise and Future in this
// runtime. The zero value is not usable; construct via NewPromise.
type promise[T any] struct {
	// done is closed exactly once when the result is set.
	done chan struct{}

	// result holds the outcome. Only valid after done is closed.
	result fn.Result[T]

	// completeOnce guards the transition to the completed state.
	completeOnce sync.Once
}

// NewPromise creates an unresolved promise.
func NewPromise[T any]() Promise[T] {
	return &promise[T]{
		done: make(chan struct{}),
	}
}

// Complete resolves the promise. Only the first call wins; later calls are
// no-ops and return false.
func (p *promise[T]) Complete(result fn.Result[T]) bool {
	won := false
	p.completeOnce.Do(func() {
		p.result = result
		close(p.done)
		won = true
	})

	return won
}

// Future returns the consumer handle. The promise itself implements Future,
// so this is an identity conversion.
func (p *promise[T]) Future() Future[T] {
	return p
}

// Await blocks until the promise resolves or the context is cancelled,
// whichever comes first.
func (p *promise[T]) Await(ctx context.Context) fn.Result[T] {
	select {
	case <-p.done:
		return p.result

	case <-ctx.Done():
		return fn.Err[T](ctx.Err())
	}
}

// OnComplete invokes cb asynchronously once the result is available, or with
// the context's error if it is cancelled first.
func (p *promise[T]) OnComplete(ctx context.Context, cb func(fn.Result[T])) {
	go func() {
		cb(p.Await(ctx))
	}()
}
