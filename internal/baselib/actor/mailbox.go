package actor

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
)

// envelope pairs a message with the promise of an Ask caller. A nil promise
// marks a Tell. The caller context lets behaviors observe request-scoped
// deadlines on Ask interactions.
type envelope[M Message, R any] struct {
	message   M
	promise   Promise[R]
	callerCtx context.Context
}

// channelMailbox is a Mailbox backed by a buffered Go channel. Sends are safe
// under concurrency; receiving belongs to the owning actor's goroutine.
type channelMailbox[M Message, R any] struct {
	ch chan envelope[M, R]

	// closed flips once and is read lock-free.
	closed atomic.Bool

	// mu excludes Close from in-flight sends so we never send on a
	// closed channel.
	mu sync.RWMutex

	closeOnce sync.Once

	// actorCtx is the owning actor's lifecycle context. Sends fail once
	// it is cancelled.
	actorCtx context.Context
}

// newChannelMailbox creates a mailbox with the given buffer capacity. A
// non-positive capacity is bumped to 1 so sends to an idle actor never spin.
func newChannelMailbox[M Message, R any](actorCtx context.Context,
	capacity int) *channelMailbox[M, R] {

	if capacity <= 0 {
		capacity = 1
	}

	return &channelMailbox[M, R]{
		ch:       make(chan envelope[M, R], capacity),
		actorCtx: actorCtx,
	}
}

// Send blocks until the envelope is queued or either context cancels. The
// read lock held across the select excludes Close, so the channel cannot be
// closed mid-send.
func (m *channelMailbox[M, R]) Send(ctx context.Context,
	env envelope[M, R]) bool {

	// Fast-path rejection when either side is already done.
	if ctx.Err() != nil || m.actorCtx.Err() != nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed.Load() {
		return false
	}

	select {
	case m.ch <- env:
		return true

	case <-ctx.Done():
		return false

	case <-m.actorCtx.Done():
		return false
	}
}

// Receive yields envelopes until the context cancels or the mailbox closes.
// The context is re-checked before every receive so shutdown never races a
// ready channel in the select.
func (m *channelMailbox[M, R]) Receive(
	ctx context.Context) iter.Seq[envelope[M, R]] {

	return func(yield func(envelope[M, R]) bool) {
		for {
			if ctx.Err() != nil {
				return
			}

			select {
			case env, ok := <-m.ch:
				if !ok || !yield(env) {
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}
}

// Close rejects all future sends. The write lock waits out any in-flight
// send before the channel is closed.
func (m *channelMailbox[M, R]) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.closed.Store(true)
		close(m.ch)
	})
}

// Drain non-blockingly yields whatever envelopes remain after Close.
func (m *channelMailbox[M, R]) Drain() iter.Seq[envelope[M, R]] {
	return func(yield func(envelope[M, R]) bool) {
		if !m.closed.Load() {
			return
		}

		for {
			select {
			case env, ok := <-m.ch:
				if !ok || !yield(env) {
					return
				}

			default:
				return
			}
		}
	}
}
