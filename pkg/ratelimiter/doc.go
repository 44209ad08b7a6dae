// Package ratelimiter provides fixed-window request rate limiting with
// pluggable storage backends, a named-limiter registry, and a request
// guard that formats standard X-RateLimit-* response headers.
//
// # Fixed Window Algorithm
//
// Each key owns a counter anchored at a window start timestamp. The first
// check for an unseen or expired key opens a fresh window with count 1;
// checks inside an open window increment the counter until it reaches the
// configured limit, after which checks are denied without incrementing.
// When a window expires the counter resets completely; the elapsed
// overage is discarded, not carried over.
//
// The algorithm intentionally permits up to 2x the limit in a sliding
// interval that straddles a window boundary (limit calls just before the
// reset, limit more just after). That burst tolerance is a property of
// fixed windows, traded for O(1) memory per key and a single atomic
// update per check.
//
// # Core Types
//
// Limiter wraps one Store with a {Limit, Window} Config and exposes
// Check, Reset, Clear, Cleanup, Size, and an idempotent background
// cleanup ticker (StartCleanup/StopCleanup).
//
// Registry maps logical limiter names to lazily created singleton
// Limiter instances so independent request paths share counters:
//
//	reg := ratelimiter.NewRegistry()
//
//	lim, err := reg.Get("login", ratelimiter.Config{Limit: 5, Window: 15 * time.Minute})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := lim.Check(ctx, clientIP)
//	if err != nil {
//		// storage backend failure (never happens with MemoryStore)
//	}
//	if !result.Allowed {
//		// reject with 429, result.RetryAfter() tells the client when to come back
//	}
//
// The config passed to Get only applies when the name is first seen;
// later calls with a different config keep the original instance
// unchanged (first-writer-wins). Callers must pass a consistent config
// per name.
//
// # Presets
//
// PresetConfig resolves a fixed catalog of endpoint classes (api, search,
// login, passwordReset, upload). The catalog values are part of the
// external contract; operators and tests depend on them.
//
// # Request Guard
//
// Registry.CheckRequest is the single call surface HTTP handlers should
// use. It derives the caller key from proxy headers via pkg/clientip,
// optionally prefixed per endpoint class, runs the check, and returns the
// formatted headers:
//
//	result, headers, err := reg.CheckRequestPreset(r, ratelimiter.PresetLogin, "login")
//
// Bypassing the guard by constructing a Limiter directly in handler code
// skips the registry's singleton sharing and fragments counters.
//
// # Storage Backends
//
// MemoryStore keeps counters in a mutex-guarded map. State is per
// process: in a horizontally scaled deployment the effective limit is
// limit x instance count. Stale entries linger until Cleanup runs; call
// StartCleanup (or Registry's WithAutoCleanup) in production, otherwise
// high key cardinality grows memory without bound.
//
// RedisStore applies the same window step atomically through a Lua
// script, sharing counters across instances. Expired entries are evicted
// by Redis TTLs, so Cleanup is a no-op there.
//
// # Operational Caveats
//
// The caller identity comes from X-Forwarded-For / X-Real-IP as supplied.
// A client that reaches the service directly can pick its own identity;
// strip or overwrite these headers at the edge proxy.
package ratelimiter
