// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smerptek/smerp-site/internal/service"
)

type stubStats struct {
	stats *service.Stats
	err   error
}

func (s stubStats) GetStats(context.Context) (*service.Stats, error) {
	return s.stats, s.err
}

func TestStatsHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stats := &service.Stats{Overview: service.Overview{TotalProducts: 4, UnreadForms: 2}}
		rr := do(t, http.HandlerFunc(NewStatsHandler(stubStats{stats: stats}).Get), http.MethodGet, "/admin/stats", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var body map[string]map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.EqualValues(t, 4, body["overview"]["totalProducts"])
		assert.EqualValues(t, 2, body["overview"]["unreadForms"])
	})

	t.Run("failure", func(t *testing.T) {
		rr := do(t, http.HandlerFunc(NewStatsHandler(stubStats{err: errors.New("db down")}).Get), http.MethodGet, "/admin/stats", "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch stats"}`, rr.Body.String())
	})
}
