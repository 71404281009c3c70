package search

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/roasbeef/vidlens/internal/catalog"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestClassify checks the error taxonomy mapping.
func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want Directive
	}{
		{
			name: "missing api key escalates",
			err:  catalog.ErrMissingAPIKey,
			want: Escalate,
		},
		{
			name: "wrapped missing api key escalates",
			err: fmt.Errorf("boot: %w",
				catalog.ErrMissingAPIKey),
			want: Escalate,
		},
		{
			name: "transient resumes",
			err: &catalog.TransientError{
				Err: errors.New("dial timeout"),
			},
			want: Resume,
		},
		{
			name: "wrapped transient resumes",
			err: fmt.Errorf("fetch: %w", &catalog.TransientError{
				Err: errors.New("502"),
			}),
			want: Resume,
		},
		{
			name: "anything else stops",
			err:  errors.New("decode failure"),
			want: Stop,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

// TestFailureWindowSliding verifies the limit only counts failures inside
// the window.
func TestFailureWindowSliding(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	w := NewFailureWindow(3, time.Minute)
	w.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.False(t, w.Record())
	}
	require.Equal(t, 3, w.Count())

	// Fourth failure inside the window trips the limit.
	require.True(t, w.Record())

	// Step past the window: everything ages out.
	now = now.Add(2 * time.Minute)
	require.Equal(t, 0, w.Count())
	require.False(t, w.Record())
}

// TestFailureWindowProperties cross-checks Record against a brute-force
// model under random failure timings.
func TestFailureWindowProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(1, 10).Draw(rt, "limit")
		window := time.Duration(
			rapid.IntRange(1, 300).Draw(rt, "window_secs"),
		) * time.Second

		now := time.Unix(0, 0)
		w := NewFailureWindow(limit, window)
		w.now = func() time.Time { return now }

		var all []time.Time
		steps := rapid.IntRange(1, 50).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			advance := time.Duration(
				rapid.IntRange(0, 600).Draw(rt, "advance"),
			) * time.Second
			now = now.Add(advance)

			exceeded := w.Record()
			all = append(all, now)

			// Model: count of failures strictly inside the
			// window, this one included.
			inWindow := 0
			cutoff := now.Add(-window)
			for _, ts := range all {
				if ts.After(cutoff) {
					inWindow++
				}
			}

			require.Equal(rt, inWindow > limit, exceeded)
			require.Equal(rt, inWindow, w.Count())
		}
	})
}
