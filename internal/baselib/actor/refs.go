package actor

import (
	"context"
	"time"
)

// ChannelTellOnlyRef is a TellOnlyRef backed by a plain channel. It serves
// as the inbox of non-actor consumers (e.g. a WebSocket session's write
// loop) and as a capture point in tests.
type ChannelTellOnlyRef[M Message] struct {
	id   string
	msgs chan M
}

// NewChannelTellOnlyRef creates a channel-backed ref with the given ID and
// buffer size.
func NewChannelTellOnlyRef[M Message](id string,
	bufSize int) *ChannelTellOnlyRef[M] {

	return &ChannelTellOnlyRef[M]{
		id:   id,
		msgs: make(chan M, bufSize),
	}
}

// Tell delivers msg to the channel if there is room and drops it otherwise.
// The consumer side drains at its own pace and may stop draining entirely
// (a dead WebSocket connection, say); a blocking send here would park the
// sending actor mid-broadcast behind that one consumer, so delivery is
// strictly at-most-once.
func (c *ChannelTellOnlyRef[M]) Tell(_ context.Context, msg M) {
	select {
	case c.msgs <- msg:
	default:
	}
}

// ID returns the reference identifier.
func (c *ChannelTellOnlyRef[M]) ID() string {
	return c.id
}

// Messages exposes the receive side of the inbox.
func (c *ChannelTellOnlyRef[M]) Messages() <-chan M {
	return c.msgs
}

// AwaitMessage waits up to timeout for the next message, reporting whether
// one arrived.
func (c *ChannelTellOnlyRef[M]) AwaitMessage(timeout time.Duration) (M, bool) {
	select {
	case msg := <-c.msgs:
		return msg, true

	case <-time.After(timeout):
		var zero M
		return zero, false
	}
}

// Compile-time interface check.
var _ TellOnlyRef[Message] = (*ChannelTellOnlyRef[Message])(nil)
