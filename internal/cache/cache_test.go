package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestCacheTTLWindow verifies the reference timing scenario: a value put at
// t0 is visible two minutes later and gone at four minutes.
func TestCacheTTLWindow(t *testing.T) {
	t.Parallel()

	c := New[string]()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.PutAt("q", t0, "v")

	c.now = func() time.Time { return t0.Add(2 * time.Minute) }
	got := c.Get("q")
	require.True(t, got.IsSome())
	require.Equal(t, "v", got.UnwrapOr(""))

	c.now = func() time.Time { return t0.Add(4 * time.Minute) }
	require.True(t, c.Get("q").IsNone())
}

// TestCacheMissIndistinguishable verifies a never-written key and an expired
// key look the same to callers.
func TestCacheMissIndistinguishable(t *testing.T) {
	t.Parallel()

	c := New[int]()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.PutAt("expired", t0, 1)
	c.now = func() time.Time { return t0.Add(DefaultTTL) }

	require.Equal(t, c.Get("expired"), c.Get("never-written"))
}

// TestCacheReplaceAfterExpiry verifies a fresh Put fully replaces an expired
// entry, timestamp included.
func TestCacheReplaceAfterExpiry(t *testing.T) {
	t.Parallel()

	c := New[int]()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c.PutAt("k", t0, 1)
	c.PutAt("k", t0.Add(5*time.Minute), 2)

	c.now = func() time.Time { return t0.Add(6 * time.Minute) }
	got := c.Get("k")
	require.True(t, got.IsSome())
	require.Equal(t, 2, got.UnwrapOr(0))

	// Only one entry exists; replacement is wholesale.
	require.Equal(t, 1, c.Len())
}

// TestCacheConcurrentAccess hammers one key from many goroutines to shake
// out torn reads under the race detector.
func TestCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := New[int]()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 200 {
				c.Put("shared", i*1000+j)
				_ = c.Get("shared")
			}
		}()
	}
	wg.Wait()

	require.True(t, c.Get("shared").IsSome())
}

// TestCacheProperties checks, over random operation sequences, that Get
// returns exactly the last value written within the TTL and nothing
// otherwise.
func TestCacheProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		ttl := time.Duration(
			rapid.Int64Range(1, 600).Draw(rt, "ttlSeconds"),
		) * time.Second
		c := NewWithTTL[int](ttl)

		t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		clock := t0
		c.now = func() time.Time { return clock }

		// last tracks the most recent write per key.
		type write struct {
			at  time.Time
			val int
		}
		last := make(map[string]write)

		steps := rapid.IntRange(1, 50).Draw(rt, "steps")
		for i := range steps {
			key := fmt.Sprintf(
				"k%d", rapid.IntRange(0, 4).Draw(rt, "key"),
			)

			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				val := i
				c.Put(key, val)
				last[key] = write{at: clock, val: val}

			case 1:
				got := c.Get(key)
				w, ok := last[key]
				if ok && clock.Sub(w.at) < ttl {
					if got.IsNone() {
						rt.Fatalf("live entry %q "+
							"missing", key)
					}
					if got.UnwrapOr(-1) != w.val {
						rt.Fatalf("stale value for "+
							"%q", key)
					}
				} else if got.IsSome() {
					rt.Fatalf("expired/missing entry "+
						"%q visible", key)
				}

			case 2:
				clock = clock.Add(time.Duration(
					rapid.Int64Range(0, 300).
						Draw(rt, "advance"),
				) * time.Second)
			}
		}
	})
}
