package ratelimiter

import (
	"context"
	"time"
)

// State is the storage-side outcome of a single fixed-window take.
type State struct {
	// Allowed reports whether the take was accepted.
	Allowed bool
	// Count is the number of accepted takes in the current window,
	// including this one when Allowed is true. It never exceeds the
	// configured limit.
	Count int
	// ResetAt is when the current window closes.
	ResetAt time.Time
}

// Store persists per-key window counters. Take applies the whole
// fixed-window step for one key: open a window on a missing or expired
// entry, increment inside an open window while under the limit, deny
// without incrementing once the limit is reached. Implementations must
// make Take atomic per key.
//
// Each Limiter owns exactly one Store; two limiters never share key
// space even when they track identical key strings.
type Store interface {
	Take(ctx context.Context, key string, cfg Config) (State, error)

	// Reset drops the entry for key. Missing keys are not an error.
	Reset(ctx context.Context, key string) error

	// Clear drops every entry.
	Clear(ctx context.Context) error

	// Cleanup drops entries whose window expired before now and reports
	// how many were removed. Entries with an open window are untouched.
	Cleanup(ctx context.Context, window time.Duration) (int, error)

	// Size reports the number of tracked keys. Diagnostics only.
	Size(ctx context.Context) (int, error)
}
