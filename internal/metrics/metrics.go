// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Label values
const (
	OutcomePersisted  = "persisted"
	OutcomeLoggedOnly = "logged_only"

	RatesLive     = "live"
	RatesFallback = "fallback"

	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginBlocked = "blocked"

	CacheHit  = "hit"
	CacheMiss = "miss"
	CacheSet  = "set"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smerp_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smerp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ContactSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smerp_contact_submissions_total",
			Help: "Accepted contact submissions by storage outcome",
		},
		[]string{"outcome"},
	)

	ExchangeRateFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smerp_exchange_rate_fetches_total",
			Help: "Exchange rate refreshes by source of the cached snapshot",
		},
		[]string{"source"},
	)

	ExchangeRateFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "smerp_exchange_rate_fetch_duration_seconds",
			Help:    "Duration of outbound exchange rate requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	CacheOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smerp_cache_operations_total",
			Help: "Cache lookups and writes by backend and result",
		},
		[]string{"backend", "result"},
	)

	AdminLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smerp_admin_logins_total",
			Help: "Admin login attempts by result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. It is safe
// to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			ContactSubmissionsTotal,
			ExchangeRateFetchesTotal,
			ExchangeRateFetchDuration,
			CacheOperationsTotal,
			AdminLoginsTotal,
		)
	})
}
