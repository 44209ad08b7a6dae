package middleware

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/salesdesk/pkg/clientip"
)

// clientIPContextKey is used as a key for storing client IP in request context.
type clientIPContextKey struct{}

// ClientIPConfig configures the client IP extraction middleware.
type ClientIPConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// StoreInHeader determines whether to echo the IP in a response header
	StoreInHeader bool
	// HeaderName specifies the response header name (default: "X-Client-IP")
	HeaderName string
}

// ClientIP creates a client IP extraction middleware with default
// configuration: the resolved identity is stored in the request context.
func ClientIP() func(http.Handler) http.Handler {
	return ClientIPWithConfig(ClientIPConfig{})
}

// ClientIPWithConfig creates a client IP extraction middleware with
// custom configuration. The identity is resolved once per request so
// downstream logging and handlers agree with the rate limiter.
func ClientIPWithConfig(cfg ClientIPConfig) func(http.Handler) http.Handler {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Client-IP"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientip.GetIP(r)
			r = r.WithContext(context.WithValue(r.Context(), clientIPContextKey{}, ip))

			if cfg.StoreInHeader {
				w.Header().Set(cfg.HeaderName, ip)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetClientIP retrieves the client IP from the request context. Returns
// the IP and whether the ClientIP middleware ran.
func GetClientIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}
