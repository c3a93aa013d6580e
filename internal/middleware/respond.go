// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for admin authentication,
// rate limiting, request timeouts, security headers and metrics.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error messages written by middleware.
const (
	MsgUnauthorized    = "Unauthorized"
	MsgTooManyRequests = "Too many requests"
	MsgRequestTimeout  = "Request timeout"
)

// writeError writes a {"error": message} JSON body.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
