// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/smerptek/smerp-site/internal/cache"
	"github.com/smerptek/smerp-site/internal/metrics"
)

// Defaults for Options fields left empty.
const (
	DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest"
	DefaultTTL      = time.Hour
	DefaultTimeout  = 10 * time.Second
)

// maxResponseSize bounds the body read from the quote API.
const maxResponseSize = 1 << 20

// Options configures a Converter.
type Options struct {
	RatesURL   string
	Base       string
	TTL        time.Duration
	Timeout    time.Duration
	Cache      cache.Cache // nil uses a private memory cache
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Converter serves exchange rates from a TTL cache, refreshing them from
// the quote API on a miss. Concurrent misses share one outbound request.
type Converter struct {
	ratesURL string
	base     string
	ttl      time.Duration
	cache    cache.Cache
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time

	group singleflight.Group
	last  atomic.Pointer[Snapshot]
}

// NewConverter creates a converter.
func NewConverter(opts Options) *Converter {
	c := &Converter{
		ratesURL: strings.TrimRight(opts.RatesURL, "/"),
		base:     strings.ToUpper(opts.Base),
		ttl:      opts.TTL,
		cache:    opts.Cache,
		client:   opts.HTTPClient,
		logger:   opts.Logger,
		now:      time.Now,
	}
	if c.ratesURL == "" {
		c.ratesURL = DefaultRatesURL
	}
	if c.base == "" {
		c.base = DefaultBase
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if !IsSupported(c.base) {
		c.logger.Warn("unsupported base currency, using the default", "base", c.base, "default", DefaultBase)
		c.base = DefaultBase
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	}
	if c.cache == nil {
		c.cache = cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: c.ttl})
	}
	return c
}

func (c *Converter) cacheKey() string {
	return "currency:rates:" + c.base
}

// FetchExchangeRates returns the cached snapshot while it is younger than
// the TTL and refreshes it otherwise. It never fails: when the quote API
// cannot be used the fallback table is cached in its place.
func (c *Converter) FetchExchangeRates(ctx context.Context) Snapshot {
	if snap, ok := c.cached(ctx); ok {
		c.last.Store(&snap)
		return snap
	}

	v, _, _ := c.group.Do(c.cacheKey(), func() (any, error) {
		// The refresh outlives a cancelled caller; the others share its result.
		ctx := context.WithoutCancel(ctx)

		if snap, ok := c.cached(ctx); ok {
			return snap, nil
		}

		snap, err := c.fetch(ctx)
		if err != nil {
			c.logger.Warn("exchange rate fetch failed, using fallback rates",
				"base", c.base, "error", err)
			snap = FallbackSnapshot(c.base, c.now().UTC())
			metrics.ExchangeRateFetchesTotal.WithLabelValues(metrics.RatesFallback).Inc()
		} else {
			metrics.ExchangeRateFetchesTotal.WithLabelValues(metrics.RatesLive).Inc()
		}

		c.store(ctx, snap)
		return snap, nil
	})

	snap := v.(Snapshot)
	c.last.Store(&snap)
	return snap
}

// Convert multiplies an amount in the base currency by the rate for
// currency and rounds to two decimals. It uses the last fetched snapshot,
// or the fallback table when none exists, and never performs I/O.
func (c *Converter) Convert(amount float64, currency string) float64 {
	return Round2(amount * c.Latest().Rate(currency))
}

// Latest returns the last snapshot seen by this converter, or the fallback
// table.
func (c *Converter) Latest() Snapshot {
	if snap := c.last.Load(); snap != nil {
		return *snap
	}
	return FallbackSnapshot(c.base, time.Time{})
}

// Base returns the base currency.
func (c *Converter) Base() string {
	return c.base
}

func (c *Converter) cached(ctx context.Context) (Snapshot, bool) {
	data, err := c.cache.Get(ctx, c.cacheKey())
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn("reading cached exchange rates", "error", err)
		}
		return Snapshot{}, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn("decoding cached exchange rates", "error", err)
		return Snapshot{}, false
	}
	if !snap.Fresh(c.now(), c.ttl) {
		return Snapshot{}, false
	}
	return snap, true
}

func (c *Converter) store(ctx context.Context, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.Error("encoding exchange rates", "error", err)
		return
	}
	if err := c.cache.Set(ctx, c.cacheKey(), data, c.ttl); err != nil {
		c.logger.Warn("caching exchange rates", "error", err)
	}
}

type quoteResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// fetch requests {RatesURL}/{base} and keeps only the target currencies.
func (c *Converter) fetch(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.ExchangeRateFetchDuration.Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ratesURL+"/"+c.base, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("building rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("rates request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Snapshot{}, fmt.Errorf("rates API returned status %d", resp.StatusCode)
	}

	var quote quoteResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&quote); err != nil {
		return Snapshot{}, fmt.Errorf("decoding rates response: %w", err)
	}

	rates := make(map[string]float64, len(Targets))
	for _, code := range Targets {
		rate, ok := quote.Rates[code]
		if !ok || rate <= 0 {
			return Snapshot{}, fmt.Errorf("rates response missing %s", code)
		}
		rates[code] = rate
	}

	return Snapshot{Base: c.base, Rates: rates, FetchedAt: c.now().UTC()}, nil
}
