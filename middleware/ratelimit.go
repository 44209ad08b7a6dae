package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/salesdesk/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Registry resolves the named limiter (required)
	Registry *ratelimiter.Registry
	// Name is the logical limiter name in the registry (required)
	Name string
	// Config is the limit/window pair for the limiter. Only the first
	// registration of Name uses it; pass the same config everywhere the
	// name appears.
	Config ratelimiter.Config
	// KeyPrefix namespaces caller keys within the limiter (e.g. "login")
	KeyPrefix string
	// OmitHeaders suppresses the X-RateLimit-* / Retry-After response headers
	OmitHeaders bool
	// ErrorHandler renders the rejection response (default: 429 JSON with retry_after)
	ErrorHandler func(w http.ResponseWriter, r *http.Request, result ratelimiter.Result)
	// Logger records check failures (default: slog.Default())
	Logger *slog.Logger
}

// RateLimit creates a rate limiting middleware over the guard facade. It
// resolves the caller identity from proxy headers, checks the named
// limiter, attaches the standard rate limit headers, and rejects with
// 429 when the window is exhausted. Panics if the registry or name is
// missing, or the config is invalid.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Registry == nil {
		panic("ratelimit middleware: registry is required")
	}
	if cfg.Name == "" {
		panic("ratelimit middleware: limiter name is required")
	}
	if err := cfg.Config.Validate(); err != nil {
		panic(fmt.Sprintf("ratelimit middleware: %v", err))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultRateLimitErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			result, headers, err := cfg.Registry.CheckRequest(r, cfg.Name, cfg.Config, cfg.KeyPrefix)
			if err != nil {
				cfg.Logger.ErrorContext(r.Context(), "rate limit check failed",
					slog.String("limiter", cfg.Name),
					slog.Any("error", err))
				writeJSONError(w, http.StatusInternalServerError,
					"internal_server_error", "internal server error", nil)
				return
			}

			if !cfg.OmitHeaders {
				for key, values := range headers {
					for _, v := range values {
						w.Header().Set(key, v)
					}
				}
			}

			if !result.Allowed {
				cfg.ErrorHandler(w, r, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitPreset creates a rate limiting middleware from a catalog
// preset; the preset name doubles as the limiter name. Panics on an
// unknown preset.
func RateLimitPreset(reg *ratelimiter.Registry, preset ratelimiter.Preset, keyPrefix string) func(http.Handler) http.Handler {
	cfg, ok := ratelimiter.PresetConfig(preset)
	if !ok {
		panic(fmt.Sprintf("ratelimit middleware: unknown preset %q", preset))
	}

	return RateLimit(RateLimitConfig{
		Registry:  reg,
		Name:      string(preset),
		Config:    cfg,
		KeyPrefix: keyPrefix,
	})
}

func defaultRateLimitErrorHandler(w http.ResponseWriter, r *http.Request, result ratelimiter.Result) {
	// Same rounding as the Retry-After header: partial seconds round up.
	retryAfter := (result.RetryAfter().Milliseconds() + 999) / 1000
	writeJSONError(w, http.StatusTooManyRequests,
		"too_many_requests", "rate limit exceeded",
		map[string]any{"retry_after": strconv.FormatInt(retryAfter, 10)})
}
