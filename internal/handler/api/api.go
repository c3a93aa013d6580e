// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the read-only public content API consumed by the
// marketing site.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smerptek/smerp-site/internal/currency"
	"github.com/smerptek/smerp-site/internal/handler"
	"github.com/smerptek/smerp-site/internal/store"
)

// Error messages of the public API.
const (
	MsgNotFound            = "Not found"
	MsgUnsupportedCurrency = "Unsupported currency"
)

// RateSource supplies exchange rates for price conversion.
type RateSource interface {
	FetchExchangeRates(ctx context.Context) currency.Snapshot
	Convert(amount float64, cur string) float64
	Base() string
}

// Handler holds shared dependencies for all public API handlers.
type Handler struct {
	repos *store.Repositories
	rates RateSource
}

// NewHandler creates a new API handler. repos may be nil, in which case
// only the exchange rate endpoint is served and the rest answer 503.
func NewHandler(repos *store.Repositories, rates RateSource) *Handler {
	return &Handler{
		repos: repos,
		rates: rates,
	}
}

// Routes returns the router for /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/exchange-rates", h.ExchangeRates)

	if h.repos == nil {
		r.NotFound(handler.NoDatabase)
		return r
	}

	r.Get("/products", h.Products)
	r.Get("/services", h.Services)
	r.Get("/pricing", h.Pricing)
	r.Get("/blog", h.BlogPosts)
	r.Get("/blog/{slug}", h.BlogPost)
	r.Get("/pages/{slug}", h.Page)
	r.Get("/testimonials", h.Testimonials)
	r.Get("/faqs", h.FAQs)
	r.Get("/settings", h.Settings)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, http.StatusNotFound, MsgNotFound)
	})
	return r
}

// writeList writes records or logs err and answers 500 with message.
func writeList[T any](w http.ResponseWriter, records []T, err error, message string) {
	if err != nil {
		slog.Error(message, "error", err)
		handler.WriteError(w, http.StatusInternalServerError, message)
		return
	}
	handler.WriteJSON(w, http.StatusOK, records)
}

// writeLookupError answers 404 for missing records and 500 otherwise.
func writeLookupError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, store.ErrNotFound) {
		handler.WriteError(w, http.StatusNotFound, MsgNotFound)
		return
	}
	slog.Error(message, "error", err)
	handler.WriteError(w, http.StatusInternalServerError, message)
}
