package lrucache

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidCapacity is returned by New when capacity is not positive.
var ErrInvalidCapacity = errors.New("lrucache: capacity must be positive")

// Cache is a bounded in-memory cache with LRU eviction and lazy TTL expiry.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	index    map[K]int
	order    recencyList[K, V]
	capacity int
	ttl      time.Duration
	name     string
	cfg      config[K, V]
	stats    Stats
}

// New creates a Cache holding at most capacity entries, each valid for ttl
// after its last Put. A non-positive ttl disables expiry. name labels log
// records and stats snapshots and has no other effect.
func New[K comparable, V any](capacity int, ttl time.Duration, name string, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d for %q", ErrInvalidCapacity, capacity, name)
	}

	cfg := defaultConfig[K, V]()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Cache[K, V]{
		index:    make(map[K]int, min(capacity, 1024)),
		order:    newRecencyList[K, V](capacity),
		capacity: capacity,
		ttl:      ttl,
		name:     name,
		cfg:      cfg,
	}, nil
}

// Put inserts or overwrites key and marks it most recently used. Inserting a
// new key into a full cache first evicts the least recently used entry,
// whether or not that entry has expired.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	evicted, ok := c.put(key, value)
	c.mu.Unlock()

	if ok {
		c.stats.evict()
		c.cfg.logger.Debug("evicted least recently used entry", "cache", c.name, "key", evicted)
	}
}

func (c *Cache[K, V]) put(key K, value V) (evicted K, ok bool) {
	now := c.cfg.clock.Now()

	if i, found := c.index[key]; found {
		e := c.order.at(i)
		e.value = value
		e.recordedAt = now
		c.order.moveToFront(i)
		return evicted, false
	}

	if c.order.count() >= c.capacity {
		evicted = c.removeAt(c.order.back()).key
		ok = true
	}

	c.index[key] = c.order.alloc(entry[K, V]{key: key, value: value, recordedAt: now})
	return evicted, ok
}

// Get returns the value for key and promotes it to most recently used.
// Unknown and expired keys report false; an expired entry is removed as a
// side effect. Get does not extend the entry's lifetime.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V

	c.mu.Lock()
	i, expired := c.lookup(key)
	if i == none {
		c.mu.Unlock()
		c.stats.miss()
		c.logExpired(key, expired)
		return zero, false
	}
	c.order.moveToFront(i)
	v := c.order.at(i).value
	c.mu.Unlock()

	c.stats.hit()
	return v, true
}

// ContainsKey reports whether Get would find key. Expired entries are
// removed; a live entry keeps its position in the recency order.
func (c *Cache[K, V]) ContainsKey(key K) bool {
	c.mu.Lock()
	i, expired := c.lookup(key)
	c.mu.Unlock()

	c.logExpired(key, expired)
	return i != none
}

// lookup resolves key to a live slot. An expired entry is dropped and
// reported through expired. Callers hold c.mu.
func (c *Cache[K, V]) lookup(key K) (i int, expired bool) {
	i, ok := c.index[key]
	if !ok {
		return none, false
	}
	if c.order.at(i).isExpired(c.cfg.clock.Now(), c.ttl) {
		c.removeAt(i)
		return none, true
	}
	return i, false
}

func (c *Cache[K, V]) logExpired(key K, expired bool) {
	if !expired {
		return
	}
	c.stats.expire()
	c.cfg.logger.Debug("dropped expired entry", "cache", c.name, "key", key)
}

// Remove deletes key whether or not it has expired and reports whether
// anything was removed.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[key]
	if !ok {
		return false
	}
	c.removeAt(i)
	return true
}

func (c *Cache[K, V]) removeAt(i int) entry[K, V] {
	e := c.order.release(i)
	delete(c.index, e.key)
	return e
}

// Clear removes every entry. Calling it on an empty cache is a no-op.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.index)
	c.order.reset()
}

// Len returns the number of stored entries, counting expired entries that
// have not been observed since they expired.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.count()
}

// Keys returns the stored keys from most to least recently used without
// touching recency or expiry.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.keys()
}

// Name returns the diagnostic label given to New.
func (c *Cache[K, V]) Name() string {
	return c.name
}

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// TTL returns the lifetime applied to every entry.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Stats returns a snapshot of cache statistics.
func (c *Cache[K, V]) Stats() Snapshot {
	s := c.stats.Snapshot()
	s.Name = c.name
	return s
}
