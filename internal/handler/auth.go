// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/smerptek/smerp-site/internal/auth"
	"github.com/smerptek/smerp-site/internal/metrics"
	"github.com/smerptek/smerp-site/internal/middleware"
)

// TokenIssuer signs admin tokens.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, time.Time, error)
}

// AuthHandler handles POST /admin/auth.
type AuthHandler struct {
	credentials     auth.CredentialVerifier
	tokens          TokenIssuer
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(creds auth.CredentialVerifier, tokens TokenIssuer, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		credentials:     creds,
		tokens:          tokens,
		loginProtection: lp,
	}
}

// LoginRequest is the body of POST /admin/auth.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries a freshly issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login verifies the admin credentials and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, MsgInvalidRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, MsgCredentialsRequired)
		return
	}

	clientIP := middleware.ClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsLocked(req.Email); locked {
			slog.Warn("login attempt on locked admin account",
				"email", req.Email, "ip", clientIP, "remaining", remaining.Round(time.Second))
			metrics.AdminLoginsTotal.WithLabelValues(metrics.LoginBlocked).Inc()
			WriteError(w, http.StatusTooManyRequests, MsgTooManyAttempts)
			return
		}
	}

	identity, ok := h.credentials.Verify(r.Context(), req.Email, req.Password)
	if !ok {
		slog.Info("admin login failed", "email", req.Email, "ip", clientIP)
		metrics.AdminLoginsTotal.WithLabelValues(metrics.LoginFailure).Inc()
		if h.loginProtection != nil {
			if locked, _ := h.loginProtection.RecordFailure(req.Email); locked {
				WriteError(w, http.StatusTooManyRequests, MsgTooManyAttempts)
				return
			}
		}
		WriteError(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	token, expiresAt, err := h.tokens.Issue(identity)
	if err != nil {
		slog.Error("failed to issue admin token", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccess(req.Email)
	}
	metrics.AdminLoginsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	slog.Info("admin logged in", "email", identity.Email, "ip", clientIP)

	WriteJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt})
}
