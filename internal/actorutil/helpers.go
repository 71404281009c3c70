// Package actorutil provides small conveniences on top of the actor runtime
// for request/response calls and fan-out sends.
package actorutil

import (
	"context"

	"github.com/roasbeef/vidlens/internal/baselib/actor"
)

// AskAwait sends an Ask to the given actor and blocks until the reply (or an
// error) is available, unpacking the Result for the caller.
func AskAwait[M actor.Message, R any](ctx context.Context,
	ref actor.ActorRef[M, R], msg M) (R, error) {

	return ref.Ask(ctx, msg).Await(ctx).Unpack()
}

// TellAll fires msg at every ref in the slice.
func TellAll[M actor.Message](ctx context.Context,
	refs []actor.TellOnlyRef[M], msg M) {

	for _, ref := range refs {
		ref.Tell(ctx, msg)
	}
}
