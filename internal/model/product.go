// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is an ERP product line shown on the products pages.
type Product struct {
	Base
	Name            string                      `json:"name"`
	Slug            string                      `gorm:"uniqueIndex" json:"slug"`
	Description     string                      `json:"description"`
	LongDescription string                      `json:"longDescription"`
	Icon            string                      `json:"icon"`
	Image           string                      `json:"image"`
	Category        string                      `json:"category"`
	Features        datatypes.JSONSlice[string] `json:"features"`
	Active          bool                        `json:"active"`
	Order           int                         `gorm:"column:sort_order" json:"order"`
}

// NewProduct returns a product with creation defaults applied.
func NewProduct() *Product {
	return &Product{Active: true}
}

func (Product) TableName() string    { return "products" }
func (Product) DefaultOrder() string { return orderBySortThenNewest }

func (Product) Filters() map[string]FilterField {
	return map[string]FilterField{
		"active":   {Column: "active", Bool: true},
		"category": {Column: "category"},
	}
}

func (p *Product) SlugSource() string { return p.Name }
func (p *Product) GetSlug() string    { return p.Slug }
func (p *Product) SetSlug(s string)   { p.Slug = s }

func (p *Product) BeforeSave(*gorm.DB) error {
	p.Features = normalizeList(p.Features)
	return nil
}
