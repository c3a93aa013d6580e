// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/smerptek/smerp-site/internal/service"
)

// ContactSubmitter accepts contact form submissions.
type ContactSubmitter interface {
	Submit(ctx context.Context, req service.ContactRequest) (service.Outcome, error)
}

// ContactHandler handles POST /contact.
type ContactHandler struct {
	contact ContactSubmitter
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contact ContactSubmitter) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit validates the form and records it. Storage failures still answer
// success; only validation errors reach the client.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req service.ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, MsgInvalidRequest)
		return
	}

	outcome, err := h.contact.Submit(r.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			WriteError(w, http.StatusBadRequest, verr.Message)
			return
		}
		slog.Error("contact submission failed", "error", err)
		WriteError(w, http.StatusInternalServerError, MsgContactFailed)
		return
	}

	slog.Debug("contact submission accepted", "outcome", outcome.String())
	writeSuccess(w, map[string]any{"message": service.ContactSuccessMessage})
}
