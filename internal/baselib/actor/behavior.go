package actor

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// FunctionBehavior adapts a plain function to the Behavior interface, for
// actors whose reaction needs no struct state of its own.
type FunctionBehavior[M Message, R any] struct {
	fn func(ctx context.Context, msg M) fn.Result[R]
}

// NewFunctionBehavior wraps fn as a Behavior.
func NewFunctionBehavior[M Message, R any](
	f func(ctx context.Context, msg M) fn.Result[R],
) *FunctionBehavior[M, R] {
	return &FunctionBehavior[M, R]{fn: f}
}

// Receive implements Behavior by delegating to the wrapped function.
func (b *FunctionBehavior[M, R]) Receive(ctx context.Context,
	msg M) fn.Result[R] {

	return b.fn(ctx, msg)
}

// Compile-time interface check.
var _ Behavior[Message, any] = (*FunctionBehavior[Message, any])(nil)
