package ratelimiter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultCleanupInterval is used by StartCleanup when no interval is given.
const DefaultCleanupInterval = time.Minute

// Config holds the fixed-window parameters of one logical limiter.
type Config struct {
	// Limit is the maximum number of accepted calls per window. Must be >= 1.
	Limit int
	// Window is the fixed window length. Must be >= 1ms.
	Window time.Duration
}

// Validate rejects non-positive parameters. Invalid configs are refused
// at construction rather than producing degenerate arithmetic at check
// time.
func (c Config) Validate() error {
	if c.Limit < 1 {
		return fmt.Errorf("%w: limit must be >= 1, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Window < time.Millisecond {
		return fmt.Errorf("%w: window must be >= 1ms, got %s", ErrInvalidConfig, c.Window)
	}
	return nil
}

// ConfigPatch updates part of a limiter's config. Zero fields keep the
// current value.
type ConfigPatch struct {
	Limit  int
	Window time.Duration
}

// Result is the outcome of a single check. Derived, never persisted.
type Result struct {
	// Allowed reports whether the call may proceed.
	Allowed bool
	// Limit echoes the config limit at the time of the check.
	Limit int
	// Remaining is how many calls are left in the current window. Never
	// negative.
	Remaining int
	// ResetIn is the time left until the current window closes.
	ResetIn time.Duration
	// ResetAt is when the current window closes. Stable across repeated
	// checks inside the same window.
	ResetAt time.Time
}

// RetryAfter is how long a denied caller should wait before retrying.
// Zero for allowed calls.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return r.ResetIn
}

// Limiter enforces at most Limit accepted calls per Window per key using
// a fixed-window counter over its Store. Safe for concurrent use.
type Limiter struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger

	mu  sync.RWMutex // guards cfg
	cfg Config

	cleanupMu     sync.Mutex
	cleanupCancel context.CancelFunc
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source used to derive ResetIn.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger for background cleanup.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Limiter over store. Returns ErrInvalidConfig for
// non-positive limit or window.
func New(store Store, cfg Config, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, ErrMissingStore
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Limiter{
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Check applies one fixed-window step for key and reports the outcome.
// The boundary is inclusive: the call that brings the count to the limit
// is the last one allowed.
func (l *Limiter) Check(ctx context.Context, key string) (Result, error) {
	cfg := l.Config()

	st, err := l.store.Take(ctx, key, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check for key %q: %w", key, err)
	}

	resetIn := st.ResetAt.Sub(l.now())
	if resetIn < 0 {
		resetIn = 0
	}

	return Result{
		Allowed:   st.Allowed,
		Limit:     cfg.Limit,
		Remaining: max(0, cfg.Limit-st.Count),
		ResetIn:   resetIn,
		ResetAt:   st.ResetAt,
	}, nil
}

// Reset drops the counter for key, so the next check behaves like a
// brand-new key. Missing keys are not an error.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}

// Clear drops all counters. Used for test isolation and administrative
// resets.
func (l *Limiter) Clear(ctx context.Context) error {
	return l.store.Clear(ctx)
}

// Cleanup removes entries whose window fully expired and reports how
// many were dropped.
func (l *Limiter) Cleanup(ctx context.Context) (int, error) {
	return l.store.Cleanup(ctx, l.Config().Window)
}

// Size reports the number of tracked keys. Diagnostics only.
func (l *Limiter) Size(ctx context.Context) (int, error) {
	return l.store.Size(ctx)
}

// Config returns the current limit/window pair.
func (l *Limiter) Config() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// SetConfig merges patch into the current config and returns the result.
// Only positive fields overwrite; zero fields keep the current value.
func (l *Limiter) SetConfig(patch ConfigPatch) Config {
	l.mu.Lock()
	defer l.mu.Unlock()

	if patch.Limit > 0 {
		l.cfg.Limit = patch.Limit
	}
	if patch.Window > 0 {
		l.cfg.Window = patch.Window
	}
	return l.cfg
}

// StartCleanup begins periodic background eviction of expired entries.
// Idempotent: calling it while already running is a no-op. A
// non-positive interval falls back to DefaultCleanupInterval.
func (l *Limiter) StartCleanup(interval time.Duration) {
	l.cleanupMu.Lock()
	defer l.cleanupMu.Unlock()

	if l.cleanupCancel != nil {
		return
	}
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cleanupCancel = cancel

	go l.cleanupLoop(ctx, interval)
}

// StopCleanup cancels the background eviction. Safe to call when not
// running.
func (l *Limiter) StopCleanup() {
	l.cleanupMu.Lock()
	defer l.cleanupMu.Unlock()

	if l.cleanupCancel == nil {
		return
	}
	l.cleanupCancel()
	l.cleanupCancel = nil
}

// Run provides errgroup compatibility: it starts periodic cleanup with
// the given interval and stops it when the context is cancelled.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) func() error {
	return func() error {
		l.StartCleanup(interval)
		<-ctx.Done()
		l.StopCleanup()
		return nil
	}
}

func (l *Limiter) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := l.Cleanup(ctx)
			switch {
			case err != nil:
				l.logger.WarnContext(ctx, "rate limiter cleanup failed",
					slog.Any("error", err))
			case removed > 0:
				l.logger.DebugContext(ctx, "rate limiter cleanup",
					slog.Int("removed", removed))
			}
		}
	}
}
