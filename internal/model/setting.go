// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrSettingKeyRequired is returned when a setting is saved without a key.
var ErrSettingKeyRequired = errors.New("setting key is required")

// Well-known setting keys
const (
	SettingSiteName        = "site_name"
	SettingContactEmail    = "contact_email"
	SettingContactPhone    = "contact_phone"
	SettingDefaultCurrency = "default_currency"
)

// SiteSetting is a key/value configuration entry editable from the dashboard.
type SiteSetting struct {
	Base
	Key         string `gorm:"uniqueIndex" json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

func (SiteSetting) TableName() string    { return "site_settings" }
func (SiteSetting) DefaultOrder() string { return `"key" ASC` }

func (SiteSetting) Filters() map[string]FilterField {
	return map[string]FilterField{
		"key": {Column: "key"},
	}
}

// BeforeSave trims the key and rejects an empty one.
func (s *SiteSetting) BeforeSave(*gorm.DB) error {
	s.Key = strings.TrimSpace(s.Key)
	if s.Key == "" {
		return ErrSettingKeyRequired
	}
	return nil
}
