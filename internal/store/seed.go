// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smerptek/smerp-site/internal/model"
)

// DefaultSettings are created by Seed when missing.
var DefaultSettings = []model.SiteSetting{
	{Key: model.SettingSiteName, Value: "SMERP TEK", Description: "Site name shown in titles"},
	{Key: model.SettingContactEmail, Value: "info@smerptek.com", Description: "Public contact email"},
	{Key: model.SettingContactPhone, Value: "", Description: "Public contact phone"},
	{Key: model.SettingDefaultCurrency, Value: model.DefaultPlanCurrency, Description: "Currency prices are shown in by default"},
}

// Seed creates the default site settings. Existing keys are left untouched,
// so running it again is harmless.
func Seed(ctx context.Context, settings *SettingsRepository) error {
	created := 0
	for _, def := range DefaultSettings {
		_, err := settings.GetByKey(ctx, def.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("checking setting %q: %w", def.Key, err)
		}

		s := def
		if _, err := settings.Upsert(ctx, &s); err != nil {
			return fmt.Errorf("creating setting %q: %w", def.Key, err)
		}
		created++
	}

	if created == 0 {
		slog.Info("default settings already exist, skipping seed")
		return nil
	}
	slog.Info("created default settings", "count", created)
	return nil
}
