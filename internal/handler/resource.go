// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smerptek/smerp-site/internal/middleware"
	"github.com/smerptek/smerp-site/internal/model"
	"github.com/smerptek/smerp-site/internal/store"
)

// ResourceStore is the repository surface used by ResourceHandler.
type ResourceStore[T any, P store.Record[T]] interface {
	List(ctx context.Context, f store.Filter) ([]T, error)
	Get(ctx context.Context, id string) (P, error)
	Create(ctx context.Context, rec P) error
	Update(ctx context.Context, id string, patch []byte) (P, error)
	Delete(ctx context.Context, id string) error
}

// ResourceMessages are the client-facing error messages of one resource.
type ResourceMessages struct {
	IDRequired    string
	KeyRequired   string
	KeyTaken      string
	NotFound      string
	SlugTaken     string
	SlugRequired  string
	InvalidFilter string
	InvalidRecord string
	FetchFailed   string
	CreateFailed  string
	UpdateFailed  string
	DeleteFailed  string
}

// MessagesFor builds the message table for a resource, e.g.
// MessagesFor("Product", "product", "products").
func MessagesFor(title, singular, plural string) ResourceMessages {
	return ResourceMessages{
		IDRequired:    title + " ID required",
		KeyRequired:   title + " key required",
		KeyTaken:      title + " key already exists",
		NotFound:      title + " not found",
		SlugTaken:     title + " slug already exists",
		SlugRequired:  title + " slug required",
		InvalidFilter: "Invalid " + singular + " filter",
		InvalidRecord: "Invalid " + singular,
		FetchFailed:   "Failed to fetch " + plural,
		CreateFailed:  "Failed to create " + singular,
		UpdateFailed:  "Failed to update " + singular,
		DeleteFailed:  "Failed to delete " + singular,
	}
}

// ResourceHandler serves GET/POST/PUT/DELETE for one admin resource.
// Authentication is applied by the router, not here.
type ResourceHandler[T any, P store.Record[T]] struct {
	store     ResourceStore[T, P]
	msgs      ResourceMessages
	newRecord func() P

	// create replaces the default insert; createStatus is its success code.
	create       func(ctx context.Context, rec P) (P, error)
	createStatus int
	noCreate     bool
}

// ResourceOption customizes a ResourceHandler.
type ResourceOption[T any, P store.Record[T]] func(*ResourceHandler[T, P])

// WithoutCreate makes POST answer 405.
func WithoutCreate[T any, P store.Record[T]]() ResourceOption[T, P] {
	return func(h *ResourceHandler[T, P]) {
		h.noCreate = true
	}
}

// WithUpsert makes POST call fn and answer 200 with its result.
func WithUpsert[T any, P store.Record[T]](fn func(ctx context.Context, rec P) (P, error)) ResourceOption[T, P] {
	return func(h *ResourceHandler[T, P]) {
		h.create = fn
		h.createStatus = http.StatusOK
	}
}

// NewResourceHandler creates a handler. newRecord returns a record with
// creation defaults applied; the request body is decoded over it.
func NewResourceHandler[T any, P store.Record[T]](s ResourceStore[T, P], msgs ResourceMessages, newRecord func() P, opts ...ResourceOption[T, P]) *ResourceHandler[T, P] {
	h := &ResourceHandler[T, P]{
		store:        s,
		msgs:         msgs,
		newRecord:    newRecord,
		createStatus: http.StatusCreated,
	}
	h.create = func(ctx context.Context, rec P) (P, error) {
		if err := s.Create(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Mount registers the handler's verbs on pattern.
func (h *ResourceHandler[T, P]) Mount(r chi.Router, pattern string) {
	r.Get(pattern, h.Get)
	r.Post(pattern, h.Post)
	r.Put(pattern, h.Put)
	r.Delete(pattern, h.Delete)
}

// Get lists records filtered by query parameters, or returns the record
// named by ?id=.
func (h *ResourceHandler[T, P]) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if id := query.Get("id"); id != "" {
		rec, err := h.store.Get(r.Context(), id)
		if err != nil {
			h.fail(w, r, err, h.msgs.FetchFailed, "id", id)
			return
		}
		WriteJSON(w, http.StatusOK, rec)
		return
	}

	filter := make(store.Filter, len(query))
	for key := range query {
		filter[key] = query.Get(key)
	}

	records, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err, h.msgs.FetchFailed)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

// Post creates a record from the request body.
func (h *ResourceHandler[T, P]) Post(w http.ResponseWriter, r *http.Request) {
	if h.noCreate {
		w.Header().Set("Allow", "GET, PUT, DELETE")
		WriteError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	rec := h.newRecord()
	if err := decodeJSON(w, r, rec); err != nil {
		h.fail(w, r, err, h.msgs.CreateFailed)
		return
	}

	created, err := h.create(r.Context(), rec)
	if err != nil {
		h.fail(w, r, err, h.msgs.CreateFailed)
		return
	}
	slog.Info("record created", "table", created.TableName(), "id", created.Meta().ID, "admin", adminEmail(r))
	WriteJSON(w, h.createStatus, created)
}

// Put merges the request body onto the record named by its "id" field.
func (h *ResourceHandler[T, P]) Put(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err, h.msgs.UpdateFailed)
		return
	}

	var target struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &target); err != nil {
		h.fail(w, r, err, h.msgs.UpdateFailed)
		return
	}
	if target.ID == "" {
		WriteError(w, http.StatusBadRequest, h.msgs.IDRequired)
		return
	}

	updated, err := h.store.Update(r.Context(), target.ID, body)
	if err != nil {
		h.fail(w, r, err, h.msgs.UpdateFailed, "id", target.ID)
		return
	}
	slog.Info("record updated", "table", updated.TableName(), "id", target.ID, "admin", adminEmail(r))
	WriteJSON(w, http.StatusOK, updated)
}

// Delete removes the record named by ?id=.
func (h *ResourceHandler[T, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, h.msgs.IDRequired)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, h.msgs.DeleteFailed, "id", id)
		return
	}
	slog.Info("record deleted", "table", P(new(T)).TableName(), "id", id, "admin", adminEmail(r))
	writeSuccess(w, nil)
}

// fail maps repository errors to responses. Anything unexpected is logged
// and answered with the generic message.
func (h *ResourceHandler[T, P]) fail(w http.ResponseWriter, r *http.Request, err error, generic string, args ...any) {
	var fieldErr *model.FieldError
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, http.StatusNotFound, h.msgs.NotFound)
	case errors.Is(err, store.ErrSlugTaken):
		WriteError(w, http.StatusBadRequest, h.msgs.SlugTaken)
	case errors.Is(err, store.ErrKeyTaken):
		WriteError(w, http.StatusBadRequest, h.msgs.KeyTaken)
	case errors.As(err, &fieldErr):
		WriteError(w, http.StatusBadRequest, h.msgs.InvalidRecord+": "+fieldErr.Error())
	case errors.Is(err, store.ErrSlugRequired):
		WriteError(w, http.StatusBadRequest, h.msgs.SlugRequired)
	case errors.Is(err, store.ErrSettingKeyRequired):
		WriteError(w, http.StatusBadRequest, h.msgs.KeyRequired)
	case errors.Is(err, store.ErrInvalidFilter):
		WriteError(w, http.StatusBadRequest, h.msgs.InvalidFilter)
	default:
		slog.Error(generic, append(args, "admin", adminEmail(r), "error", err)...)
		WriteError(w, http.StatusInternalServerError, generic)
	}
}

// adminEmail returns the authenticated admin for log lines, or "" when the
// handler runs without RequireAdmin.
func adminEmail(r *http.Request) string {
	if claims := middleware.GetClaims(r); claims != nil {
		return claims.Email
	}
	return ""
}
