package lrucache

import "log/slog"

type config[K comparable, V any] struct {
	clock  Clock
	logger *slog.Logger
}

func defaultConfig[K comparable, V any]() config[K, V] {
	return config[K, V]{
		clock:  systemClock{},
		logger: slog.New(slog.DiscardHandler),
	}
}

// Option configures a Cache.
type Option[K comparable, V any] func(*config[K, V])

// WithClock sets the time source used for write stamps and expiry checks.
// Useful for testing TTL behavior.
func WithClock[K comparable, V any](clk Clock) Option[K, V] {
	return func(c *config[K, V]) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sets the logger that receives debug records for evictions and
// expirations. Records are emitted after the cache lock is released.
func WithLogger[K comparable, V any](l *slog.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		if l != nil {
			c.logger = l
		}
	}
}
