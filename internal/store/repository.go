// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smerptek/smerp-site/internal/model"
	"github.com/smerptek/smerp-site/internal/util"
)

// Repository errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrSlugTaken     = errors.New("slug already exists")
	ErrKeyTaken      = errors.New("key already exists")
	ErrSlugRequired  = errors.New("slug is required")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidPatch  = errors.New("invalid patch")
)

// Filter holds equality filters keyed by query parameter name. Parameters a
// resource does not allow are ignored.
type Filter map[string]string

// Record is the constraint satisfied by pointers to content models.
type Record[T any] interface {
	*T
	model.Resource
	Meta() *model.Base
}

// Repository provides CRUD access to one content table.
// Writes are last-write-wins; there is no optimistic concurrency control.
type Repository[T any, P Record[T]] struct {
	db *gorm.DB
}

// NewRepository creates a repository for the model type T.
func NewRepository[T any, P Record[T]](db *gorm.DB) *Repository[T, P] {
	return &Repository[T, P]{db: db}
}

func (r *Repository[T, P]) resource() P {
	return P(new(T))
}

// query applies the allow-listed filters to a query on the table.
func (r *Repository[T, P]) query(ctx context.Context, f Filter) (*gorm.DB, error) {
	res := r.resource()
	q := r.db.WithContext(ctx).Model(res)
	allowed := res.Filters()

	for param, raw := range f {
		field, ok := allowed[param]
		if !ok {
			continue
		}
		var value any = raw
		if field.Bool {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, param, raw)
			}
			value = b
		}
		q = q.Where(clause.Eq{Column: clause.Column{Name: field.Column}, Value: value})
	}
	return q, nil
}

// List returns the records matching f in the table's default order.
func (r *Repository[T, P]) List(ctx context.Context, f Filter) ([]T, error) {
	q, err := r.query(ctx, f)
	if err != nil {
		return nil, err
	}

	items := []T{}
	if err := q.Order(r.resource().DefaultOrder()).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.resource().TableName(), err)
	}
	return items, nil
}

// Count returns the number of records matching f.
func (r *Repository[T, P]) Count(ctx context.Context, f Filter) (int64, error) {
	q, err := r.query(ctx, f)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting %s: %w", r.resource().TableName(), err)
	}
	return n, nil
}

// Recent returns the n newest records. When columns are given only those
// are loaded; the remaining fields keep their zero values.
func (r *Repository[T, P]) Recent(ctx context.Context, n int, columns ...string) ([]T, error) {
	q := r.db.WithContext(ctx).Model(r.resource())
	if len(columns) > 0 {
		q = q.Select(columns)
	}

	items := []T{}
	if err := q.Order("created_at DESC").Limit(n).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("loading recent %s: %w", r.resource().TableName(), err)
	}
	return items, nil
}

// Get returns the record with the given id.
func (r *Repository[T, P]) Get(ctx context.Context, id string) (P, error) {
	return r.first(ctx, "id = ?", id)
}

// GetBySlug returns the record with the given slug.
func (r *Repository[T, P]) GetBySlug(ctx context.Context, slug string) (P, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *Repository[T, P]) first(ctx context.Context, cond string, arg string) (P, error) {
	rec := r.resource()
	err := r.db.WithContext(ctx).Where(cond, arg).Take(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", rec.TableName(), err)
	}
	return rec, nil
}

// Create inserts rec. The id and timestamps are always assigned here, and a
// slug is derived for sluggable records.
func (r *Repository[T, P]) Create(ctx context.Context, rec P) error {
	*rec.Meta() = model.Base{}

	if err := r.prepareSlug(ctx, rec, ""); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return duplicateError(rec)
		}
		return fmt.Errorf("creating %s: %w", rec.TableName(), err)
	}
	return nil
}

// Update merges a JSON patch onto the stored record. Fields absent from the
// patch keep their values; id and createdAt cannot be changed. Records that
// implement model.Restricted only persist their mutable columns.
func (r *Repository[T, P]) Update(ctx context.Context, id string, patch []byte) (P, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	base := *rec.Meta()
	if err := json.Unmarshal(patch, rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}
	meta := rec.Meta()
	meta.ID = base.ID
	meta.CreatedAt = base.CreatedAt

	q := r.db.WithContext(ctx)
	if restricted, ok := any(rec).(model.Restricted); ok {
		q = q.Select(append(restricted.MutableColumns(), "updated_at"))
	} else {
		if err := r.prepareSlug(ctx, rec, base.ID); err != nil {
			return nil, err
		}
		q = q.Select("*").Omit("id", "created_at")
	}

	if err := q.Save(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateError(rec)
		}
		return nil, fmt.Errorf("updating %s: %w", rec.TableName(), err)
	}

	return r.Get(ctx, id)
}

// Delete removes the record with the given id.
func (r *Repository[T, P]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(r.resource())
	if res.Error != nil {
		return fmt.Errorf("deleting from %s: %w", r.resource().TableName(), res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// prepareSlug normalizes the slug of a sluggable record, deriving it from
// the name or title when empty, and checks it is unused by other records.
func (r *Repository[T, P]) prepareSlug(ctx context.Context, rec P, excludeID string) error {
	s, ok := any(rec).(model.Sluggable)
	if !ok {
		return nil
	}

	slug := util.Slugify(s.GetSlug())
	if slug == "" {
		slug = util.Slugify(s.SlugSource())
	}
	if slug == "" {
		return ErrSlugRequired
	}
	s.SetSlug(slug)

	q := r.db.WithContext(ctx).Model(r.resource()).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("checking slug: %w", err)
	}
	if n > 0 {
		return ErrSlugTaken
	}
	return nil
}

// duplicateError names the unique column a record collided on: the slug
// for sluggable records, otherwise its key.
func duplicateError(rec any) error {
	if _, ok := rec.(model.Sluggable); ok {
		return ErrSlugTaken
	}
	return ErrKeyTaken
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
