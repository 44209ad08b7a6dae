package ratelimiter

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/salesdesk/pkg/clientip"
)

// CheckRequest is the single call surface HTTP handlers should use. It
// derives the caller key from proxy headers (prefixed with keyPrefix
// when non-empty), resolves the named limiter through the registry, runs
// the window check, and formats the standard response headers.
//
// Callers attach the headers to the outgoing response and answer 429
// with Retry-After when the result is denied. Calling Limiter.Check
// directly from handler code skips the registry's singleton sharing and
// fragments counters.
func (r *Registry) CheckRequest(req *http.Request, name string, cfg Config, keyPrefix string) (Result, http.Header, error) {
	lim, err := r.Get(name, cfg)
	if err != nil {
		return Result{}, nil, err
	}

	key := clientip.GetIP(req)
	if keyPrefix != "" {
		key = keyPrefix + ":" + key
	}

	result, err := lim.Check(req.Context(), key)
	if err != nil {
		return Result{}, nil, err
	}

	return result, Headers(result), nil
}

// CheckRequestPreset is CheckRequest with the name and config resolved
// from the preset catalog.
func (r *Registry) CheckRequestPreset(req *http.Request, p Preset, keyPrefix string) (Result, http.Header, error) {
	cfg, ok := PresetConfig(p)
	if !ok {
		return Result{}, nil, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}
	return r.CheckRequest(req, string(p), cfg, keyPrefix)
}

// Headers formats a check result into the standard rate limit response
// headers:
//
//	X-RateLimit-Limit      config limit
//	X-RateLimit-Remaining  remaining calls, clamped to 0
//	X-RateLimit-Reset      window close, unix seconds rounded up
//	Retry-After            "0" when allowed, else seconds until the
//	                       window closes, rounded up
//
// Retry-After is always present so clients can rely on it without
// probing.
func Headers(result Result) http.Header {
	h := make(http.Header, 4)
	h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(ceilSeconds(result.ResetAt.UnixMilli()), 10))

	var retryAfter int64
	if !result.Allowed {
		retryAfter = ceilSeconds(result.ResetIn.Milliseconds())
	}
	h.Set("Retry-After", strconv.FormatInt(retryAfter, 10))

	return h
}

func ceilSeconds(ms int64) int64 {
	return (ms + 999) / 1000
}
