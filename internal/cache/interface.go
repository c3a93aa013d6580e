// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the byte-oriented cache backends shared by
// services: an in-process memory cache and a Redis cache for deployments
// running several instances.
package cache

import (
	"context"
	"time"

	"github.com/smerptek/smerp-site/internal/metrics"
)

// Backend names reported by Result and the cache metrics.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Cache stores opaque byte values under string keys.
// All implementations must be safe for concurrent use.
type Cache interface {
	// Get returns ErrCacheMiss if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A zero TTL uses the backend's default TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// Error is a sentinel cache error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found in cache or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)

func observe(backend, result string) {
	metrics.CacheOperationsTotal.WithLabelValues(backend, result).Inc()
}
