// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smerptek/smerp-site/internal/cache"
)

const liveRates = `{"base":"AED","rates":{"AED":1,"SAR":1.021,"QAR":0.991,"KWD":0.0837,"OMR":0.1048,"BHD":0.1026,"USD":0.2723}}`

// rateServer serves body with status and counts requests.
func rateServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/AED" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestConverter(url string) *Converter {
	return NewConverter(Options{RatesURL: url, Timeout: 2 * time.Second})
}

func TestFetchExchangeRates_CachesWithinTTL(t *testing.T) {
	srv, calls := rateServer(t, http.StatusOK, liveRates)
	c := newTestConverter(srv.URL)
	ctx := context.Background()

	first := c.FetchExchangeRates(ctx)
	second := c.FetchExchangeRates(ctx)

	assert.EqualValues(t, 1, calls.Load(), "second call within the TTL must not hit the network")
	assert.False(t, first.Fallback)
	assert.Equal(t, first.Rates, second.Rates)
	assert.Len(t, first.Rates, len(Targets), "non-target currencies are dropped")
	assert.InDelta(t, 1.021, first.Rates[SAR], 1e-9)
	assert.Equal(t, 1021.0, c.Convert(1000, SAR))
}

func TestFetchExchangeRates_RefetchesAfterTTL(t *testing.T) {
	srv, calls := rateServer(t, http.StatusOK, liveRates)
	c := newTestConverter(srv.URL)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	c.FetchExchangeRates(ctx)
	now = now.Add(30 * time.Minute)
	c.FetchExchangeRates(ctx)
	assert.EqualValues(t, 1, calls.Load())

	now = now.Add(31 * time.Minute)
	c.FetchExchangeRates(ctx)
	assert.EqualValues(t, 2, calls.Load())
}

func TestFetchExchangeRates_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"malformed body", http.StatusOK, `{"rates":`},
		{"missing target", http.StatusOK, `{"rates":{"AED":1,"SAR":1.02}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := rateServer(t, tt.status, tt.body)
			c := newTestConverter(srv.URL)
			ctx := context.Background()

			snap := c.FetchExchangeRates(ctx)
			assert.True(t, snap.Fallback)
			assert.False(t, snap.FetchedAt.IsZero(), "fallback is cached with a fresh timestamp")
			assert.Equal(t, 1020.0, c.Convert(1000, SAR))

			c.FetchExchangeRates(ctx)
			assert.EqualValues(t, 1, calls.Load(), "fallback must be cached like a live quote")
		})
	}
}

func TestFetchExchangeRates_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestConverter(url)
	snap := c.FetchExchangeRates(context.Background())

	assert.True(t, snap.Fallback)
	assert.Equal(t, 1020.0, c.Convert(1000, SAR))
}

func TestFetchExchangeRates_SingleFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	var once sync.Once

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		once.Do(func() { close(entered) })
		<-release
		_, _ = w.Write([]byte(liveRates))
	}))
	defer srv.Close()

	c := newTestConverter(srv.URL)

	var wg sync.WaitGroup
	results := make([]Snapshot, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.FetchExchangeRates(context.Background())
		}(i)
	}

	<-entered
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, snap := range results {
		assert.False(t, snap.Fallback)
	}
}

func TestFetchExchangeRates_SharedCache(t *testing.T) {
	srv, calls := rateServer(t, http.StatusOK, liveRates)
	shared := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = shared.Close() }()

	a := NewConverter(Options{RatesURL: srv.URL, Cache: shared})
	b := NewConverter(Options{RatesURL: srv.URL, Cache: shared})

	a.FetchExchangeRates(context.Background())
	snap := b.FetchExchangeRates(context.Background())

	assert.EqualValues(t, 1, calls.Load())
	assert.InDelta(t, 1.021, snap.Rates[SAR], 1e-9)
}

func TestConvert_WithoutFetch(t *testing.T) {
	c := newTestConverter("http://127.0.0.1:1")

	assert.Equal(t, 1020.0, c.Convert(1000, "SAR"))
	assert.Equal(t, 1020.0, c.Convert(1000, " sar "))
	assert.Equal(t, 83.0, c.Convert(1000, KWD))
	assert.Equal(t, 1000.0, c.Convert(1000, "USD"), "unknown currency keeps the amount")
	assert.Equal(t, 33.33, c.Convert(33.333, AED))
}

func TestSnapshot(t *testing.T) {
	now := time.Now()
	snap := FallbackSnapshot(AED, now)

	assert.True(t, snap.Fresh(now.Add(59*time.Minute), time.Hour))
	assert.False(t, snap.Fresh(now.Add(time.Hour), time.Hour))
	assert.False(t, Snapshot{}.Fresh(now, time.Hour))

	snap.Rates[SAR] = 99
	assert.Equal(t, 1.02, FallbackSnapshot(AED, now).Rates[SAR], "fallback table must not be shared")

	require.True(t, IsSupported("omr"))
	assert.False(t, IsSupported("USD"))
}

func TestFetchExchangeRates_FallbackRebased(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/SAR", r.URL.Path)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := NewConverter(Options{RatesURL: srv.URL, Base: "sar", Timeout: 2 * time.Second})
	require.Equal(t, SAR, c.Base())

	snap := c.FetchExchangeRates(context.Background())
	assert.True(t, snap.Fallback)
	assert.Equal(t, c.Base(), snap.Base)
	assert.Equal(t, 1.0, snap.Rates[SAR])
	assert.Equal(t, 1000.0, c.Convert(1020, AED))
	assert.Equal(t, 83.0, c.Convert(1020, KWD))
}

func TestNewConverter_UnsupportedBase(t *testing.T) {
	c := NewConverter(Options{RatesURL: "http://127.0.0.1:1", Base: "USD"})

	assert.Equal(t, AED, c.Base())
	assert.Equal(t, c.Base(), c.Latest().Base)
	assert.Equal(t, 1020.0, c.Convert(1000, SAR))
}

func TestFallbackSnapshot_Base(t *testing.T) {
	snap := FallbackSnapshot("omr", time.Time{})
	assert.Equal(t, OMR, snap.Base)
	assert.Equal(t, 1.0, snap.Rates[OMR])
	assert.InDelta(t, 1/0.105, snap.Rates[AED], 1e-9)

	unknown := FallbackSnapshot("USD", time.Time{})
	assert.Equal(t, AED, unknown.Base)
	assert.Equal(t, 1.02, unknown.Rates[SAR])
}
