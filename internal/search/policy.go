package search

import (
	"errors"
	"time"

	"github.com/roasbeef/vidlens/internal/catalog"
)

const (
	// DefaultFailureLimit is how many failures a worker may accumulate
	// inside the failure window before it is stopped outright.
	DefaultFailureLimit = 10

	// DefaultFailureWindow is the sliding window failures are counted
	// over.
	DefaultFailureWindow = 5 * time.Minute
)

// Directive is the supervisor's verdict on a worker failure.
type Directive int

const (
	// Resume keeps the worker running with its state intact. The next
	// tick simply tries again.
	Resume Directive = iota

	// Stop tears the worker down. A later StartSearch for the same
	// query recreates it from scratch.
	Stop

	// Escalate marks the failure as beyond the supervisor's authority,
	// surfacing it to the daemon as fatal.
	Escalate
)

// String returns the directive's name.
func (d Directive) String() string {
	switch d {
	case Resume:
		return "resume"
	case Stop:
		return "stop"
	case Escalate:
		return "escalate"
	default:
		return "unknown"
	}
}

// Classify maps a worker failure to a directive. Transient catalog errors
// are presumed to be network weather and resolve on their own; a missing
// API key can never self-heal, so it escalates; anything else stops the
// worker.
func Classify(err error) Directive {
	switch {
	case errors.Is(err, catalog.ErrMissingAPIKey):
		return Escalate

	case catalog.IsTransient(err):
		return Resume

	default:
		return Stop
	}
}

// FailureWindow counts failures over a sliding time window. It is owned by
// a single supervisor goroutine and needs no locking.
type FailureWindow struct {
	limit  int
	window time.Duration

	times []time.Time

	// now is the clock, injectable for deterministic tests.
	now func() time.Time
}

// NewFailureWindow creates a window allowing up to limit failures per
// window duration.
func NewFailureWindow(limit int, window time.Duration) *FailureWindow {
	return &FailureWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Record registers one failure and reports whether the limit is now
// exceeded, counting only failures inside the window.
func (f *FailureWindow) Record() bool {
	now := f.now()
	cutoff := now.Add(-f.window)

	kept := f.times[:0]
	for _, t := range f.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	f.times = append(kept, now)

	return len(f.times) > f.limit
}

// Count reports how many recorded failures fall inside the window.
func (f *FailureWindow) Count() int {
	cutoff := f.now().Add(-f.window)

	n := 0
	for _, t := range f.times {
		if t.After(cutoff) {
			n++
		}
	}

	return n
}
