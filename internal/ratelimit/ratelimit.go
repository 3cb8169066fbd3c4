// Package ratelimit implements a fixed-window request limiter for the
// authentication endpoints.
//
// Counters live in a pluggable Store: in-process memory for a single
// instance, Redis when several instances must share a budget. The middleware
// fails open on store errors so a limiter outage never locks users out of
// sign-in.
package ratelimit

import (
	"context"
	"time"
)

// Config holds the limiter configuration.
type Config struct {
	// Requests allowed per window per client.
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"20"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Store counts requests per key within a window. Incr increments the key's
// counter, starting the window on first increment, and returns the new count
// and the time until the window resets.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, reset time.Duration, err error)
}

// Result describes one limiter decision.
type Result struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter applies a fixed-window limit over a Store.
type Limiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// New creates a Limiter. Non-positive config values fall back to the
// defaults.
func New(store Store, cfg Config) *Limiter {
	if cfg.Requests <= 0 {
		cfg.Requests = 20
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &Limiter{store: store, limit: int64(cfg.Requests), window: cfg.Window}
}

// Allow records a request for key and reports whether it fits the window
// budget.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, reset, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
	}
	if !res.Allowed {
		res.RetryAfter = reset
	}
	return res, nil
}
