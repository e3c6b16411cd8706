// Package lrucache provides a generic, bounded, in-memory cache with
// least-recently-used eviction and lazy time-to-live expiry.
//
// # Overview
//
// A Cache holds at most a fixed number of entries. Every Put and every
// successful Get moves the entry to the most recently used position; when a
// new key arrives at a full cache the least recently used entry is evicted
// first. Each entry also carries the time of its last write and is treated as
// absent once the cache's TTL has elapsed since then.
//
// # Basic Usage
//
//	games, err := lrucache.New[string, []Game](50000, 100*time.Second, "GameCache")
//	if err != nil {
//		return err
//	}
//
//	games.Put("games:min_rating:4", result)
//
//	if v, ok := games.Get("games:min_rating:4"); ok {
//		return v, nil
//	}
//
//	games.Remove("games:min_rating:4")
//	games.Clear()
//
// # Expiry
//
// Expiry is lazy. There is no background goroutine: an entry is checked only
// when Get or ContainsKey observes it, and an expired entry found that way is
// removed on the spot. Until then it still occupies a slot and is counted by
// Len, and it remains a candidate for capacity eviction like any other entry.
//
// Only Put restarts an entry's lifetime. Get promotes an entry in the recency
// order but does not extend how long it stays valid.
//
// # Coherence
//
// A Cache is a passive side table. It never reads from or writes to the data
// source it fronts, and it is not kept coherent with that source: a write that
// bypasses the caller's own Put/Remove/Clear leaves stale data in place until
// the entry expires. Invalidation is the caller's job.
//
// # Testing
//
// Inject a Clock to control time in tests:
//
//	type manualClock struct{ now time.Time }
//	func (c *manualClock) Now() time.Time { return c.now }
//
//	clk := &manualClock{now: time.Now()}
//	c, _ := lrucache.New[string, int](10, time.Minute, "test",
//		lrucache.WithClock[string, int](clk),
//	)
//
//	c.Put("key", 42)
//	clk.now = clk.now.Add(2 * time.Minute)
//	_, ok := c.Get("key") // ok == false, Len() dropped by one
//
// # Thread Safety
//
// All Cache methods are safe for concurrent use. Each cache guards its index
// and recency order with a single sync.Mutex, so every operation is atomic
// with respect to every other operation on the same cache. Separate caches
// share no state.
package lrucache
