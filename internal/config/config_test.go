// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

const strongSecret = "Xk9-prod-Secret-value-0123456789abcdef"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v, want 168h", cfg.TokenTTL)
	}
	if cfg.RatesTTL != time.Hour {
		t.Errorf("RatesTTL = %v, want 1h", cfg.RatesTTL)
	}
	if cfg.RatesBase != "AED" {
		t.Errorf("RatesBase = %q, want AED", cfg.RatesBase)
	}
	if cfg.HasDatabase() {
		t.Error("HasDatabase() = true, want false when SMERP_DATABASE_URL is unset")
	}
	if cfg.JWTSecret != DefaultJWTSecret {
		t.Errorf("JWTSecret = %q, want development default", cfg.JWTSecret)
	}
	if cfg.AdminPassword != DefaultAdminPassword {
		t.Errorf("AdminPassword = %q, want development default", cfg.AdminPassword)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "SMERP_ENV", "production")
	setEnv(t, "SMERP_JWT_SECRET", strongSecret)
	setEnv(t, "SMERP_ADMIN_PASSWORD", "S3cure-admin-pass")
	setEnv(t, "SMERP_DATABASE_URL", "/var/lib/smerp/site.db")
	setEnv(t, "SMERP_SERVER_HOST", "0.0.0.0")
	setEnv(t, "SMERP_SERVER_PORT", "3000")
	setEnv(t, "SMERP_TOKEN_TTL", "24h")
	setEnv(t, "SMERP_RATES_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if !cfg.HasDatabase() {
		t.Error("HasDatabase() = false, want true")
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.RatesTTL != 30*time.Minute {
		t.Errorf("RatesTTL = %v, want 30m", cfg.RatesTTL)
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestLoad_ProductionSecretRules(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr string
	}{
		{"missing", "", "required"},
		{"too short", "short-Secret-1", "at least"},
		{"known default", DefaultJWTSecret, "known default"},
		{"strong", strongSecret, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "SMERP_ENV", "production")
			setEnv(t, "SMERP_ADMIN_PASSWORD", "S3cure-admin-pass")
			if tt.secret != "" {
				setEnv(t, "SMERP_JWT_SECRET", tt.secret)
			}

			_, err := Load()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Load() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Load() should fail for %s secret", tt.name)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_ProductionAdminPassword(t *testing.T) {
	t.Run("missing password", func(t *testing.T) {
		os.Clearenv()
		setEnv(t, "SMERP_ENV", "production")
		setEnv(t, "SMERP_JWT_SECRET", strongSecret)

		if _, err := Load(); err == nil {
			t.Fatal("Load() should fail without an admin password")
		}
	})

	t.Run("default password", func(t *testing.T) {
		os.Clearenv()
		setEnv(t, "SMERP_ENV", "production")
		setEnv(t, "SMERP_JWT_SECRET", strongSecret)
		setEnv(t, "SMERP_ADMIN_PASSWORD", DefaultAdminPassword)

		if _, err := Load(); err == nil {
			t.Fatal("Load() should reject the default admin password")
		}
	})

	t.Run("hash only", func(t *testing.T) {
		os.Clearenv()
		setEnv(t, "SMERP_ENV", "production")
		setEnv(t, "SMERP_JWT_SECRET", strongSecret)
		setEnv(t, "SMERP_ADMIN_PASSWORD_HASH", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA")

		if _, err := Load(); err != nil {
			t.Fatalf("Load() error: %v", err)
		}
	})
}

func TestLoad_InvalidTTL(t *testing.T) {
	os.Clearenv()
	setEnv(t, "SMERP_TOKEN_TTL", "0s")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail for a zero token TTL")
	}
}

func TestLoad_RatesBase(t *testing.T) {
	os.Clearenv()
	setEnv(t, "SMERP_RATES_BASE", " sar ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RatesBase != "SAR" {
		t.Errorf("RatesBase = %q, want SAR", cfg.RatesBase)
	}

	setEnv(t, "SMERP_RATES_BASE", "USD")
	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a base currency without fallback rates")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
	}
	for in, want := range tests {
		cfg := Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"alllowercaseonly", false},
		{"lowerUPPER", false},
		{"lowerUPPER123", true},
		{"lower-123!", true},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.input); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
