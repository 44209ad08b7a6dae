package ratelimiter

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Registry maps logical limiter names to singleton Limiter instances so
// independent request paths share counters instead of fragmenting state.
// Construct one explicitly and inject it into route setup; tests get
// isolated registries instead of reset-between-tests discipline on a
// hidden global.
//
// Registered limiters live for the registry's lifetime; nothing evicts
// them.
type Registry struct {
	mu       sync.Mutex
	limiters map[string]*Limiter

	newStore    func(name string) Store
	limiterOpts []Option
	autoCleanup time.Duration
	logger      *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStoreFactory sets how a new limiter's store is built. The factory
// receives the limiter name so backends like Redis can namespace keys
// per limiter. Default: a fresh MemoryStore per limiter.
func WithStoreFactory(f func(name string) Store) RegistryOption {
	return func(r *Registry) {
		if f != nil {
			r.newStore = f
		}
	}
}

// WithAutoCleanup starts background eviction on every limiter the
// registry creates. This is the required mitigation against unbounded
// memory growth in production deployments with high key cardinality.
func WithAutoCleanup(interval time.Duration) RegistryOption {
	return func(r *Registry) {
		r.autoCleanup = interval
	}
}

// WithLimiterOptions forwards options to every limiter the registry
// creates.
func WithLimiterOptions(opts ...Option) RegistryOption {
	return func(r *Registry) {
		r.limiterOpts = append(r.limiterOpts, opts...)
	}
}

// WithRegistryLogger sets the registry logger, also forwarded to
// created limiters.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		limiters: make(map[string]*Limiter),
		newStore: func(string) Store { return NewMemoryStore() },
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Get returns the limiter registered under name, creating it with cfg on
// first use. The config only applies to that first call: a later call
// with a different config keeps the stored limiter unchanged
// (first-writer-wins). Passing a consistent config per name is the
// caller's precondition; a mismatch is logged at debug level to make the
// programmer error visible in tests.
func (r *Registry) Get(name string, cfg Config) (*Limiter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lim, ok := r.limiters[name]; ok {
		if current := lim.Config(); current != cfg {
			r.logger.Debug("rate limiter config mismatch ignored",
				slog.String("name", name),
				slog.Int("stored_limit", current.Limit),
				slog.Duration("stored_window", current.Window),
				slog.Int("requested_limit", cfg.Limit),
				slog.Duration("requested_window", cfg.Window))
		}
		return lim, nil
	}

	lim, err := New(r.newStore(name), cfg, append([]Option{WithLogger(r.logger)}, r.limiterOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("create rate limiter %q: %w", name, err)
	}

	if r.autoCleanup > 0 {
		lim.StartCleanup(r.autoCleanup)
	}

	r.limiters[name] = lim
	return lim, nil
}

// GetPreset resolves a catalog preset and threads its config through Get.
func (r *Registry) GetPreset(p Preset) (*Limiter, error) {
	cfg, ok := PresetConfig(p)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}
	return r.Get(string(p), cfg)
}

// Len reports how many named limiters exist. Diagnostics only.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

// Shutdown stops background cleanup on every registered limiter. The
// limiters themselves stay registered.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, lim := range r.limiters {
		lim.StopCleanup()
	}
}
