// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
)

// RoleAdmin is the only role the admin API knows about.
const RoleAdmin = "admin"

// Identity is an authenticated principal.
type Identity struct {
	Email string
	Role  string
}

// CredentialVerifier checks an email/password pair and returns the matching identity.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (Identity, bool)
}

// StaticCredentials is a CredentialVerifier with exactly one admin principal
// taken from configuration.
type StaticCredentials struct {
	email        string
	password     string
	passwordHash string
}

// NewStaticCredentials creates a verifier for a single admin account.
// When passwordHash is set it must be an argon2id hash and password is ignored.
func NewStaticCredentials(email, password, passwordHash string) *StaticCredentials {
	return &StaticCredentials{
		email:        strings.ToLower(strings.TrimSpace(email)),
		password:     password,
		passwordHash: passwordHash,
	}
}

// Verify implements CredentialVerifier.
func (c *StaticCredentials) Verify(_ context.Context, email, password string) (Identity, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(c.email)) == 1

	// Always evaluate the password so the response time does not reveal
	// whether the email matched.
	passwordOK := c.checkPassword(password)

	if !emailOK || !passwordOK {
		return Identity{}, false
	}
	return Identity{Email: c.email, Role: RoleAdmin}, true
}

func (c *StaticCredentials) checkPassword(password string) bool {
	if c.passwordHash != "" {
		ok, err := CheckPassword(password, c.passwordHash)
		if err != nil {
			slog.Error("admin password hash is invalid", "error", err)
			return false
		}
		return ok
	}
	if c.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(c.password)) == 1
}

var _ CredentialVerifier = (*StaticCredentials)(nil)
