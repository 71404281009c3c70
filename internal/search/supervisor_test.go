package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/roasbeef/vidlens/internal/baselib/actor"
	"github.com/roasbeef/vidlens/internal/catalog"
	"github.com/roasbeef/vidlens/internal/models"
	"github.com/stretchr/testify/require"
)

// newTestSystem builds a system torn down with the test.
func newTestSystem(t *testing.T) *actor.System {
	t.Helper()

	system := actor.NewSystem()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(
			context.Background(), testTimeout,
		)
		defer cancel()
		require.NoError(t, system.Shutdown(ctx))
	})

	return system
}

// TestSupervisorSingleWorkerPerQuery drives the spawned supervisor end to
// end: two StartSearch for one query share a single worker and a single
// upstream fetch.
func TestSupervisorSingleWorkerPerQuery(t *testing.T) {
	t.Parallel()

	fake := catalog.NewFake()
	fake.QueueSearch("rockets", []*models.VideoResult{
		video("a"), video("b"),
	})

	system := newTestSystem(t)
	ref := SpawnSupervisor(SupervisorConfig{
		System:   system,
		Catalog:  fake,
		Enricher: stubEnricher{},
	})
	ctx := context.Background()

	first := newSubscriber("user-1")
	ref.Tell(ctx, StartSearch{Query: "rockets", Subscriber: first})

	ev, ok := first.AwaitMessage(testTimeout)
	require.True(t, ok)
	ack, isAck := ev.(SubscribeAck)
	require.True(t, isAck)
	require.Equal(t, 2, ack.TotalCount)

	second := newSubscriber("user-2")
	ref.Tell(ctx, StartSearch{Query: "rockets", Subscriber: second})

	ev, ok = second.AwaitMessage(testTimeout)
	require.True(t, ok)
	ack, isAck = ev.(SubscribeAck)
	require.True(t, isAck)
	require.Equal(t, 2, ack.TotalCount)

	require.Equal(t, 1, fake.SearchCalls())
}

// TestSupervisorEndSearchUnknownQuery verifies ending a search nobody
// started is a no-op rather than an error.
func TestSupervisorEndSearchUnknownQuery(t *testing.T) {
	t.Parallel()

	system := newTestSystem(t)
	ref := SpawnSupervisor(SupervisorConfig{
		System:   system,
		Catalog:  catalog.NewFake(),
		Enricher: stubEnricher{},
	})
	ctx := context.Background()

	_, err := ref.Ask(ctx, EndSearch{
		Query:      "never-started",
		Subscriber: newSubscriber("user-1"),
	}).Await(ctx).Unpack()
	require.NoError(t, err)
}

// TestSupervisorFaultDirectives exercises the policy application at the
// behavior level, where the children map can be inspected directly.
func TestSupervisorFaultDirectives(t *testing.T) {
	t.Parallel()

	system := newTestSystem(t)
	s := NewSupervisor(SupervisorConfig{
		System:   system,
		Catalog:  catalog.NewFake(),
		Enricher: stubEnricher{},
	})
	ctx := context.Background()

	start := StartSearch{
		Query:      "rockets",
		Subscriber: newSubscriber("user-1"),
	}
	s.Receive(ctx, start)
	require.Len(t, s.children, 1)

	// A second start reuses the child.
	handle := s.children["rockets"]
	s.Receive(ctx, StartSearch{
		Query:      "rockets",
		Subscriber: newSubscriber("user-2"),
	})
	require.Len(t, s.children, 1)
	require.Same(t, handle, s.children["rockets"])

	// Transient failure: resumed, child intact.
	s.Receive(ctx, workerFailed{
		query: "rockets",
		err:   &catalog.TransientError{Err: errors.New("timeout")},
	})
	require.Len(t, s.children, 1)

	// Unclassified failure: stopped and forgotten.
	s.Receive(ctx, workerFailed{
		query: "rockets",
		err:   errors.New("malformed payload"),
	})
	require.Empty(t, s.children)

	// A failure report for a stopped child is ignored.
	s.Receive(ctx, workerFailed{
		query: "rockets",
		err:   errors.New("straggler"),
	})
	require.Empty(t, s.children)

	// The next start recreates from scratch.
	s.Receive(ctx, start)
	require.Len(t, s.children, 1)
	require.NotSame(t, handle, s.children["rockets"])
}

// TestSupervisorEscalationHitsFatalChannel verifies configuration failures
// surface on the fatal channel instead of being retried.
func TestSupervisorEscalationHitsFatalChannel(t *testing.T) {
	t.Parallel()

	fatal := make(chan error, 1)

	system := newTestSystem(t)
	s := NewSupervisor(SupervisorConfig{
		System:   system,
		Catalog:  catalog.NewFake(),
		Enricher: stubEnricher{},
		Fatal:    fatal,
	})
	ctx := context.Background()

	s.Receive(ctx, StartSearch{
		Query:      "rockets",
		Subscriber: newSubscriber("user-1"),
	})

	s.Receive(ctx, workerFailed{
		query: "rockets",
		err:   fmt.Errorf("startup: %w", catalog.ErrMissingAPIKey),
	})

	require.Empty(t, s.children)

	select {
	case err := <-fatal:
		require.ErrorIs(t, err, catalog.ErrMissingAPIKey)
	default:
		t.Fatal("no fatal error delivered")
	}
}

// TestSupervisorFailureWindowForcesStop verifies that even transient
// failures stop a worker once the window limit is exceeded.
func TestSupervisorFailureWindowForcesStop(t *testing.T) {
	t.Parallel()

	system := newTestSystem(t)
	s := NewSupervisor(SupervisorConfig{
		System:       system,
		Catalog:      catalog.NewFake(),
		Enricher:     stubEnricher{},
		FailureLimit: 2,
		FailureWindow: time.Minute,
	})
	ctx := context.Background()

	s.Receive(ctx, StartSearch{
		Query:      "rockets",
		Subscriber: newSubscriber("user-1"),
	})

	transient := &catalog.TransientError{Err: errors.New("flap")}
	for i := 0; i < 2; i++ {
		s.Receive(ctx, workerFailed{query: "rockets", err: transient})
		require.Len(t, s.children, 1)
	}

	// Third failure inside the window exceeds the limit of two.
	s.Receive(ctx, workerFailed{query: "rockets", err: transient})
	require.Empty(t, s.children)
}
