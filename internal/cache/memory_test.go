// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/smerptek/smerp-site/internal/metrics"
)

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	if err := cache.Set(ctx, "currency:rates:AED", []byte(`{"SAR":1.02}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "currency:rates:AED")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != `{"SAR":1.02}` {
		t.Errorf("Get = %s, want the stored value", val)
	}

	if err := cache.Delete(ctx, "currency:rates:AED"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "currency:rates:AED"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }

	if err := cache.Set(ctx, "short", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Set(ctx, "default", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired entry error = %v, want ErrCacheMiss", err)
	}
	if _, err := cache.Get(ctx, "default"); err != nil {
		t.Errorf("entry with default TTL should still exist: %v", err)
	}

	now = now.Add(time.Hour)
	cache.removeExpired()
	if cache.Len() != 0 {
		t.Error("removeExpired should drop entries past their TTL")
	}
}

func TestMemoryCache_ValueCopy(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	original := []byte("value")
	_ = cache.Set(ctx, "k", original, 0)
	original[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "value" {
		t.Errorf("stored value was mutated through the caller's slice: %s", got)
	}
	got[0] = 'Y'

	again, _ := cache.Get(ctx, "k")
	if string(again) != "value" {
		t.Errorf("stored value was mutated through a returned slice: %s", again)
	}
}

func TestMemoryCache_Metrics(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	count := func(result string) float64 {
		return testutil.ToFloat64(metrics.CacheOperationsTotal.WithLabelValues(BackendMemory, result))
	}
	hits, misses, sets := count(metrics.CacheHit), count(metrics.CacheMiss), count(metrics.CacheSet)

	_ = cache.Set(ctx, "k", []byte("v"), 0)
	_, _ = cache.Get(ctx, "k")
	_, _ = cache.Get(ctx, "k")
	_, _ = cache.Get(ctx, "missing")

	if got := count(metrics.CacheHit) - hits; got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := count(metrics.CacheMiss) - misses; got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := count(metrics.CacheSet) - sets; got != 1 {
		t.Errorf("sets = %v, want 1", got)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, CleanupInterval: time.Millisecond})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%5)
			for j := 0; j < 100; j++ {
				_ = cache.Set(ctx, key, []byte("v"), 0)
				_, _ = cache.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, CleanupInterval: time.Minute})
	ctx := context.Background()

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if err := cache.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close error = %v, want ErrCacheClosed", err)
	}
	if _, err := cache.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close error = %v, want ErrCacheClosed", err)
	}
}
