package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/salesdesk/core/sales"
	"github.com/dmitrymomot/salesdesk/middleware"
	"github.com/dmitrymomot/salesdesk/pkg/ratelimiter"
)

type routerDeps struct {
	Registry *ratelimiter.Registry
	Logger   *slog.Logger
	// Auth is optional; endpoints that need it answer 503 while it is
	// absent.
	Auth   sales.AuthProvider
	Health map[string]func(context.Context) error
}

func newRouter(deps routerDeps) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", healthHandler(deps.Health))

	loginLimit := middleware.RateLimitPreset(deps.Registry, ratelimiter.PresetLogin, "login")
	resetLimit := middleware.RateLimitPreset(deps.Registry, ratelimiter.PresetPasswordReset, "pwreset")
	apiLimit := middleware.RateLimitPreset(deps.Registry, ratelimiter.PresetAPI, "api")
	searchLimit := middleware.RateLimitPreset(deps.Registry, ratelimiter.PresetSearch, "search")
	uploadLimit := middleware.RateLimitPreset(deps.Registry, ratelimiter.PresetUpload, "upload")

	mux.Handle("POST /auth/login", loginLimit(loginHandler(deps.Auth)))
	mux.Handle("POST /auth/logout", apiLimit(logoutHandler(deps.Auth)))
	mux.Handle("POST /auth/password-reset", resetLimit(passwordResetHandler(deps.Auth)))

	mux.Handle("GET /api/search", searchLimit(notImplementedHandler()))
	mux.Handle("POST /api/uploads", uploadLimit(notImplementedHandler()))
	mux.Handle("/api/", apiLimit(notImplementedHandler()))

	chain := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.ClientIP(),
		middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger:    deps.Logger,
			Component: "http",
		}),
	}

	var handler http.Handler = mux
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler
}
