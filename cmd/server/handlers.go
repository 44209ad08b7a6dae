package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/salesdesk/core/sales"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func healthHandler(checks map[string]func(context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		result := make(map[string]string, len(checks)+1)
		result["status"] = "ok"
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				result["status"] = "degraded"
			} else {
				result[name] = "ok"
			}
		}
		respondJSON(w, status, result)
	})
}

func loginHandler(auth sales.AuthProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth == nil {
			respondError(w, http.StatusServiceUnavailable, "auth_unavailable", "Authentication backend is not configured.")
			return
		}

		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON.")
			return
		}

		session, err := auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, sales.ErrInvalidCredentials) {
				respondError(w, http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect.")
				return
			}
			respondError(w, http.StatusInternalServerError, "internal", "Login failed.")
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"token":      session.Token,
			"expires_at": session.ExpiresAt,
			"name":       session.Person.Name,
			"role":       session.Person.Role,
		})
	})
}

func logoutHandler(auth sales.AuthProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth == nil {
			respondError(w, http.StatusServiceUnavailable, "auth_unavailable", "Authentication backend is not configured.")
			return
		}

		token := r.Header.Get("Authorization")
		if err := auth.Logout(r.Context(), token); err != nil {
			respondError(w, http.StatusInternalServerError, "internal", "Logout failed.")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func passwordResetHandler(auth sales.AuthProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth == nil {
			respondError(w, http.StatusServiceUnavailable, "auth_unavailable", "Authentication backend is not configured.")
			return
		}

		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON.")
			return
		}

		// Always accept; whether the email exists is not disclosed.
		_ = auth.RequestPasswordReset(r.Context(), req.Email)
		respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	})
}

func notImplementedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotImplemented, "not_implemented", "This endpoint is not implemented yet.")
	})
}
