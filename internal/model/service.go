// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is a professional service offering (implementation, training, support).
type Service struct {
	Base
	Name            string                      `json:"name"`
	Slug            string                      `gorm:"uniqueIndex" json:"slug"`
	Description     string                      `json:"description"`
	LongDescription string                      `json:"longDescription"`
	Icon            string                      `json:"icon"`
	Features        datatypes.JSONSlice[string] `json:"features"`
	Active          bool                        `json:"active"`
	Order           int                         `gorm:"column:sort_order" json:"order"`
}

// NewService returns a service with creation defaults applied.
func NewService() *Service {
	return &Service{Active: true}
}

func (Service) TableName() string                { return "services" }
func (Service) DefaultOrder() string             { return orderBySortThenNewest }
func (Service) Filters() map[string]FilterField { return activeFilter }

func (s *Service) SlugSource() string { return s.Name }
func (s *Service) GetSlug() string    { return s.Slug }
func (s *Service) SetSlug(v string)   { s.Slug = v }

func (s *Service) BeforeSave(*gorm.DB) error {
	s.Features = normalizeList(s.Features)
	return nil
}
