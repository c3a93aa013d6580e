// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command smerp runs the SMERP TEK site backend: the admin content API,
// the public content API and contact form intake.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/smerptek/smerp-site/internal/auth"
	"github.com/smerptek/smerp-site/internal/cache"
	"github.com/smerptek/smerp-site/internal/config"
	"github.com/smerptek/smerp-site/internal/currency"
	"github.com/smerptek/smerp-site/internal/metrics"
	"github.com/smerptek/smerp-site/internal/middleware"
	"github.com/smerptek/smerp-site/internal/scheduler"
	"github.com/smerptek/smerp-site/internal/store"
	"github.com/smerptek/smerp-site/internal/version"
)

// Build-time variables injected via ldflags
var (
	appVersion   string
	appGitCommit string
	appBuildTime string
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	hashPassword := flag.Bool("hash-password", false, "Read a password from stdin and print its argon2id hash")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "smerp - SMERP TEK site backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SMERP_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SMERP_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SMERP_DATABASE_URL     SQLite database path (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SMERP_JWT_SECRET       Admin token signing secret (required in production, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SMERP_ADMIN_EMAIL      Admin login email\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SMERP_ADMIN_PASSWORD   Admin password (or SMERP_ADMIN_PASSWORD_HASH)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SMERP_REDIS_URL        Redis URL for a shared exchange rate cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SMERP_RATES_REFRESH    Cron schedule for refreshing exchange rates (default: @every 30m)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if *hashPassword {
		if err := printPasswordHash(os.Stdin, os.Stdout); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	metrics.Register()

	a := &app{
		isDev:   cfg.IsDevelopment(),
		version: versionInfo,
	}

	if cfg.HasDatabase() {
		db, err := openDatabase(cfg, logger)
		if err != nil {
			return err
		}
		defer func(db *sql.DB) {
			if err := db.Close(); err != nil {
				slog.Error("error closing database connection", "error", err)
			}
		}(db)

		orm, err := store.OpenORM(db, logger)
		if err != nil {
			return fmt.Errorf("opening ORM: %w", err)
		}
		a.db = db
		a.repos = store.NewRepositories(orm)

		if cfg.DoSeed {
			if err := store.Seed(context.Background(), a.repos.Settings); err != nil {
				return fmt.Errorf("seeding database: %w", err)
			}
		}
	} else {
		slog.Warn("SMERP_DATABASE_URL not set: admin API disabled, contact submissions are only logged")
	}

	cacheResult, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.RatesTTL,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacheResult.Cache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache initialized", "backend", cacheResult.Backend, "fallback", cacheResult.IsFallback)

	a.rates = currency.NewConverter(currency.Options{
		RatesURL: cfg.RatesURL,
		Base:     cfg.RatesBase,
		TTL:      cfg.RatesTTL,
		Timeout:  cfg.RatesTimeout,
		Cache:    cacheResult.Cache,
		Logger:   logger,
	})

	if cfg.RatesRefresh != "" {
		sched := scheduler.New(logger)
		err = sched.Add(scheduler.Job{
			Name:     "refresh-exchange-rates",
			Schedule: cfg.RatesRefresh,
			Timeout:  cfg.RatesTimeout,
			Run: func(ctx context.Context) error {
				a.rates.FetchExchangeRates(ctx)
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("configuring scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	a.tokens, err = auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	if cfg.AdminPasswordHash != "" && auth.NeedsRehash(cfg.AdminPasswordHash) {
		slog.Warn("SMERP_ADMIN_PASSWORD_HASH uses outdated argon2 parameters; consider regenerating it")
	}
	a.credentials = auth.NewStaticCredentials(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPasswordHash)

	a.loginProtection = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer a.loginProtection.Close()
	a.contactLimiter = middleware.NewRateLimiter(contactRateLimit, contactBurst)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           newRouter(a),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// printPasswordHash reads one line from in and writes its argon2id hash,
// suitable for SMERP_ADMIN_PASSWORD_HASH, to out.
func printPasswordHash(in io.Reader, out io.Writer) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("password must not be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}

// openDatabase opens the SQLite database and applies migrations.
func openDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	logger.Info("initializing database", "url", cfg.DatabaseURL)
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	logger.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("database ready")
	return db, nil
}
