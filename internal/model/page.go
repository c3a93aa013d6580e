// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"gorm.io/gorm"

	"github.com/smerptek/smerp-site/internal/content"
)

// Page is a free-form HTML page (legal, about, landing pages).
type Page struct {
	Base
	Title           string `json:"title"`
	Slug            string `gorm:"uniqueIndex" json:"slug"`
	Content         string `json:"content"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	Published       bool   `json:"published"`
}

// NewPage returns a page with creation defaults applied.
func NewPage() *Page {
	return &Page{}
}

func (Page) TableName() string    { return "pages" }
func (Page) DefaultOrder() string { return orderByNewest }

func (Page) Filters() map[string]FilterField {
	return map[string]FilterField{
		"published": {Column: "published", Bool: true},
	}
}

func (p *Page) SlugSource() string { return p.Title }
func (p *Page) GetSlug() string    { return p.Slug }
func (p *Page) SetSlug(s string)   { p.Slug = s }

// BeforeSave sanitizes the HTML body and strips markup from the meta fields.
func (p *Page) BeforeSave(*gorm.DB) error {
	p.Content = content.SanitizeHTML(p.Content)
	p.MetaTitle = content.StripTags(p.MetaTitle)
	p.MetaDescription = content.StripTags(p.MetaDescription)
	return nil
}
