// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads and validates the application configuration
// from SMERP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/smerptek/smerp-site/internal/currency"
)

// DefaultJWTSecret is used only in development when SMERP_JWT_SECRET is unset.
const DefaultJWTSecret = "smerp-development-secret-do-not-use-in-prod"

// DefaultAdminPassword is the development-only admin password.
const DefaultAdminPassword = "changeme"

// MinJWTSecretLength is the minimum required length for the token signing secret.
// HS256 keys should be at least as long as the hash output (32 bytes).
const MinJWTSecretLength = 32

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	DefaultJWTSecret,
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env        string `env:"SMERP_ENV" envDefault:"development"`
	ServerHost string `env:"SMERP_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SMERP_SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"SMERP_LOG_LEVEL" envDefault:"info"`

	// DatabaseURL is a SQLite file path or DSN. Empty disables persistence:
	// admin routes answer 503 and contact submissions are only logged.
	DatabaseURL string `env:"SMERP_DATABASE_URL"`
	DoSeed      bool   `env:"SMERP_DO_SEED" envDefault:"false"`

	// Admin authentication
	JWTSecret         string        `env:"SMERP_JWT_SECRET"`
	TokenTTL          time.Duration `env:"SMERP_TOKEN_TTL" envDefault:"168h"`
	AdminEmail        string        `env:"SMERP_ADMIN_EMAIL" envDefault:"admin@smerptek.com"`
	AdminPassword     string        `env:"SMERP_ADMIN_PASSWORD"`
	AdminPasswordHash string        `env:"SMERP_ADMIN_PASSWORD_HASH"` // argon2id, takes precedence over AdminPassword

	// Exchange rates
	RatesURL     string        `env:"SMERP_RATES_URL" envDefault:"https://api.exchangerate-api.com/v4/latest"`
	RatesBase    string        `env:"SMERP_RATES_BASE" envDefault:"AED"`
	RatesTTL     time.Duration `env:"SMERP_RATES_TTL" envDefault:"1h"`
	RatesTimeout time.Duration `env:"SMERP_RATES_TIMEOUT" envDefault:"10s"`
	// RatesRefresh is a cron schedule for warming the rate cache; empty disables it.
	RatesRefresh string `env:"SMERP_RATES_REFRESH" envDefault:"@every 30m"`

	// Cache configuration
	RedisURL    string `env:"SMERP_REDIS_URL"`                        // Optional Redis URL for a shared rate cache
	CachePrefix string `env:"SMERP_CACHE_PREFIX" envDefault:"smerp:"` // Redis key prefix
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// HasDatabase returns true if a database is configured.
func (c Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and applies development-only defaults.
// In production a missing or weak token secret and a default admin password
// are fatal.
func (c *Config) Validate() error {
	if c.TokenTTL <= 0 {
		return errors.New("SMERP_TOKEN_TTL must be positive")
	}
	if c.RatesTTL <= 0 {
		return errors.New("SMERP_RATES_TTL must be positive")
	}
	c.RatesBase = strings.ToUpper(strings.TrimSpace(c.RatesBase))
	if !currency.IsSupported(c.RatesBase) {
		return fmt.Errorf("SMERP_RATES_BASE must be one of %s, got %q",
			strings.Join(currency.Targets, ", "), c.RatesBase)
	}
	if c.AdminEmail == "" {
		return errors.New("SMERP_ADMIN_EMAIL must not be empty")
	}

	if c.IsDevelopment() {
		if c.JWTSecret == "" {
			slog.Warn("SMERP_JWT_SECRET not set, using the development default")
			c.JWTSecret = DefaultJWTSecret
		}
		if c.AdminPassword == "" && c.AdminPasswordHash == "" {
			slog.Warn("admin password not set, using the development default")
			c.AdminPassword = DefaultAdminPassword
		}
		return nil
	}

	if c.JWTSecret == "" {
		return errors.New("SMERP_JWT_SECRET is required outside development; " +
			"generate one with: openssl rand -base64 32")
	}
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("SMERP_JWT_SECRET must be at least %d bytes long, got %d bytes",
			MinJWTSecretLength, len(c.JWTSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			return errors.New("SMERP_JWT_SECRET is a known default value and must not be used")
		}
	}
	if !hasMinimumEntropy(c.JWTSecret) {
		slog.Warn("SMERP_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("SMERP_ADMIN_PASSWORD or SMERP_ADMIN_PASSWORD_HASH is required outside development")
	}
	if c.AdminPasswordHash == "" && c.AdminPassword == DefaultAdminPassword {
		return errors.New("SMERP_ADMIN_PASSWORD is a known default value and must not be used")
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
