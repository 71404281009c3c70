// Package cache provides a small generic TTL cache used to shield the
// catalog client from redundant upstream calls. Entries expire lazily: an
// aged-out value is simply invisible to Get, and the next Put replaces it
// wholesale. Nothing is ever purged in the background, so memory grows with
// key cardinality. Keys are bounded by the distinct queries and IDs the
// daemon ever sees, which keeps that growth tame.
package cache

import (
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// DefaultTTL is how long an entry stays visible after insertion.
const DefaultTTL = 3 * time.Minute

// entry pairs a value with its insertion time.
type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Cache is a string-keyed TTL cache. The zero value is not usable;
// construct with New or NewWithTTL. All methods are safe for concurrent
// use; reads and writes of one key are linearizable under the lock.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]

	ttl time.Duration

	// now is the clock, injectable for deterministic tests.
	now func() time.Time
}

// New creates a cache with the default 3 minute TTL.
func New[V any]() *Cache[V] {
	return NewWithTTL[V](DefaultTTL)
}

// NewWithTTL creates a cache whose entries expire after the given duration.
func NewWithTTL[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the value for key if one was stored less than a TTL ago. A
// missing key and an expired key are indistinguishable to the caller.
func (c *Cache[V]) Get(key string) fn.Option[V] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.insertedAt) >= c.ttl {
		return fn.None[V]()
	}

	return fn.Some(e.value)
}

// Put stores value under key, stamped with the current time.
func (c *Cache[V]) Put(key string, value V) {
	c.PutAt(key, c.now(), value)
}

// PutAt stores value under key with an explicit insertion time. Tests use
// this to place entries at a known point in the past.
func (c *Cache[V]) PutAt(key string, at time.Time, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:      value,
		insertedAt: at,
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
