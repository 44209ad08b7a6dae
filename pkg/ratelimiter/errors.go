package ratelimiter

import "errors"

// Package-level error definitions for rate limiter operations.
var (
	ErrInvalidConfig = errors.New("invalid rate limiter configuration")
	ErrMissingStore  = errors.New("rate limiter store is required")
	ErrUnknownPreset = errors.New("unknown rate limiter preset")
)
