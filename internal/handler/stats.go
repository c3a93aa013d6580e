// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/smerptek/smerp-site/internal/service"
)

// StatsProvider computes the dashboard aggregate.
type StatsProvider interface {
	GetStats(ctx context.Context) (*service.Stats, error)
}

// StatsHandler handles GET /admin/stats.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Get returns content counts and recent form submissions.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GetStats(r.Context())
	if err != nil {
		slog.Error("failed to compute stats", "error", err)
		WriteError(w, http.StatusInternalServerError, MsgFetchStatsFailed)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
