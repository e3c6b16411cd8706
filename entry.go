package lrucache

import "time"

type entry[K comparable, V any] struct {
	key        K
	value      V
	recordedAt time.Time // set by Put only; reads never refresh it
}

// isExpired reports whether at least ttl has elapsed since the last write.
// A non-positive ttl never expires.
func (e *entry[K, V]) isExpired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(e.recordedAt) >= ttl
}
