// Package clientip derives the caller identity used for rate limiting
// from proxy headers of an inbound request.
//
// Precedence:
//  1. X-Forwarded-For: the substring before the first comma, trimmed
//  2. X-Real-IP: verbatim
//  3. the literal "unknown"
//
// An X-Forwarded-For value that is empty after trimming resolves to
// "unknown" rather than falling through to X-Real-IP.
//
// Header values are trusted as supplied; no validation is performed that
// the request actually arrived through a trusted proxy. A client that
// reaches the service directly can therefore pick its own identity —
// strip or overwrite these headers at the edge proxy. That trust
// boundary belongs to the network layer, not to this package.
package clientip

import (
	"net/http"
	"strings"
)

// Unknown is returned when no proxy header yields an identity.
const Unknown = "unknown"

// GetIP resolves the caller identity string for r.
func GetIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
		return Unknown
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return Unknown
}
