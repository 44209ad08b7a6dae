// Package middleware provides net/http middleware for the salesdesk HTTP
// surface: rate limiting, client IP resolution, request IDs, and
// structured request logging.
//
// Each middleware follows the same shape: a Config struct with optional
// fields (including a Skip hook), a zero-config constructor, and a
// WithConfig constructor. Missing required dependencies are programmer
// errors and panic at construction, not at request time.
package middleware
