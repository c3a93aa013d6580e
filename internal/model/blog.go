// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smerptek/smerp-site/internal/content"
)

// BlogPost is a Markdown article.
type BlogPost struct {
	Base
	Title       string                      `json:"title"`
	Slug        string                      `gorm:"uniqueIndex" json:"slug"`
	Excerpt     string                      `json:"excerpt"`
	Content     string                      `json:"content"`
	CoverImage  string                      `json:"coverImage"`
	Author      string                      `json:"author"`
	Category    string                      `json:"category"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Published   bool                        `json:"published"`
	PublishedAt *time.Time                  `json:"publishedAt"`
}

// NewBlogPost returns a post with creation defaults applied.
func NewBlogPost() *BlogPost {
	return &BlogPost{}
}

func (BlogPost) TableName() string    { return "blog_posts" }
func (BlogPost) DefaultOrder() string { return orderByNewest }

func (BlogPost) Filters() map[string]FilterField {
	return map[string]FilterField{
		"published": {Column: "published", Bool: true},
		"category":  {Column: "category"},
		"author":    {Column: "author"},
	}
}

func (p *BlogPost) SlugSource() string { return p.Title }
func (p *BlogPost) GetSlug() string    { return p.Slug }
func (p *BlogPost) SetSlug(s string)   { p.Slug = s }

// BeforeSave stamps PublishedAt the first time a post is published. The
// excerpt is plain text.
func (p *BlogPost) BeforeSave(tx *gorm.DB) error {
	p.Tags = normalizeList(p.Tags)
	p.Excerpt = content.StripTags(p.Excerpt)
	if p.Published && p.PublishedAt == nil {
		now := tx.NowFunc()
		p.PublishedAt = &now
	}
	return nil
}
