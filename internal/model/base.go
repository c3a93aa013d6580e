// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model contains the content records managed through the admin API.
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base holds the identity and timestamps shared by every content record.
// All three fields are server-assigned.
type Base struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the record has no ID yet.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// ErrInvalidField is matched by every *FieldError.
var ErrInvalidField = errors.New("invalid field")

// FieldError is a record field rejected by a save hook. Message is safe to
// show to the client.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Is reports whether target is ErrInvalidField.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// Meta exposes the shared fields for generic repository code.
func (b *Base) Meta() *Base {
	return b
}

// FilterField maps a list query parameter to a column.
type FilterField struct {
	Column string
	Bool   bool // parse the query value as a boolean
}

// Resource is implemented by every content record.
type Resource interface {
	TableName() string
	// DefaultOrder is the ORDER BY clause used when listing.
	DefaultOrder() string
	// Filters lists the query parameters accepted as equality filters.
	Filters() map[string]FilterField
}

// Sluggable records carry a URL-safe slug derived from a name or title.
type Sluggable interface {
	SlugSource() string
	GetSlug() string
	SetSlug(string)
}

// Restricted records only allow some columns to change on update.
type Restricted interface {
	MutableColumns() []string
}

// Order clauses shared by several tables.
const (
	orderBySortThenNewest = "sort_order ASC, created_at DESC"
	orderByNewest         = "created_at DESC"
)

var activeFilter = map[string]FilterField{
	"active": {Column: "active", Bool: true},
}

// normalizeList makes sure list columns are stored as [] rather than null.
func normalizeList(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
