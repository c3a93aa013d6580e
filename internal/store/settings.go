// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smerptek/smerp-site/internal/model"
)

// ErrSettingKeyRequired is returned when a setting has no key.
var ErrSettingKeyRequired = model.ErrSettingKeyRequired

// SettingsRepository is the site_settings repository with key-based access.
type SettingsRepository struct {
	*Repository[model.SiteSetting, *model.SiteSetting]
}

// NewSettingsRepository creates a settings repository.
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{Repository: NewRepository[model.SiteSetting](db)}
}

// GetByKey returns the setting stored under key.
func (r *SettingsRepository) GetByKey(ctx context.Context, key string) (*model.SiteSetting, error) {
	s := &model.SiteSetting{}
	err := r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).Take(s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading setting %q: %w", key, err)
	}
	return s, nil
}

// Upsert inserts the setting or, when its key exists, replaces the value and
// description. The stored row is returned.
func (r *SettingsRepository) Upsert(ctx context.Context, s *model.SiteSetting) (*model.SiteSetting, error) {
	s.Key = strings.TrimSpace(s.Key)
	if s.Key == "" {
		return nil, ErrSettingKeyRequired
	}
	*s.Meta() = model.Base{}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(s).Error
	if err != nil {
		return nil, fmt.Errorf("upserting setting %q: %w", s.Key, err)
	}

	return r.GetByKey(ctx, s.Key)
}

// Map returns all settings as key/value pairs.
func (r *SettingsRepository) Map(ctx context.Context) (map[string]string, error) {
	settings, err := r.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string, len(settings))
	for _, s := range settings {
		m[s.Key] = s.Value
	}
	return m, nil
}
