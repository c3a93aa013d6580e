// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package currency converts and formats prices in the GCC currencies using
// exchange rates fetched from an external quote API.
package currency

import (
	"strings"
	"time"
)

// Supported currencies
const (
	AED = "AED"
	SAR = "SAR"
	QAR = "QAR"
	KWD = "KWD"
	OMR = "OMR"
	BHD = "BHD"
)

// DefaultBase is the currency plan prices are stored in.
const DefaultBase = AED

// Targets lists the currencies kept from a rate quote.
var Targets = []string{AED, SAR, QAR, KWD, OMR, BHD}

// fallbackRates are used when the quote API is unreachable. They are
// multipliers relative to AED.
var fallbackRates = map[string]float64{
	AED: 1,
	SAR: 1.02,
	QAR: 0.99,
	KWD: 0.083,
	OMR: 0.105,
	BHD: 0.102,
}

// Snapshot is a set of rates relative to Base.
type Snapshot struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetchedAt"`
	Fallback  bool               `json:"fallback"`
}

// FallbackSnapshot returns the hardcoded rate table expressed relative to
// base and stamped with at. An unsupported base gets the AED table.
func FallbackSnapshot(base string, at time.Time) Snapshot {
	base = strings.ToUpper(strings.TrimSpace(base))
	divisor, ok := fallbackRates[base]
	if !ok {
		base, divisor = DefaultBase, 1
	}
	rates := make(map[string]float64, len(fallbackRates))
	for k, v := range fallbackRates {
		rates[k] = v / divisor
	}
	rates[base] = 1
	return Snapshot{Base: base, Rates: rates, FetchedAt: at, Fallback: true}
}

// Rate returns the multiplier for currency, or 1 when it is unknown.
func (s Snapshot) Rate(currency string) float64 {
	if rate, ok := s.Rates[strings.ToUpper(strings.TrimSpace(currency))]; ok && rate > 0 {
		return rate
	}
	return 1
}

// Fresh reports whether the snapshot is younger than ttl at now.
func (s Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return !s.FetchedAt.IsZero() && now.Sub(s.FetchedAt) < ttl
}

// IsSupported reports whether currency is one of Targets.
func IsSupported(currency string) bool {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	for _, c := range Targets {
		if c == currency {
			return true
		}
	}
	return false
}
