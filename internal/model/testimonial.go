// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Testimonial is a customer quote.
type Testimonial struct {
	Base
	Name    string `json:"name"`
	Role    string `json:"role"`
	Company string `json:"company"`
	Content string `json:"content"`
	Avatar  string `json:"avatar"`
	Rating  int    `json:"rating"`
	Active  bool   `json:"active"`
	Order   int    `gorm:"column:sort_order" json:"order"`
}

// NewTestimonial returns a testimonial with creation defaults applied.
func NewTestimonial() *Testimonial {
	return &Testimonial{Active: true, Rating: 5}
}

func (Testimonial) TableName() string                { return "testimonials" }
func (Testimonial) DefaultOrder() string             { return orderBySortThenNewest }
func (Testimonial) Filters() map[string]FilterField { return activeFilter }

func (t *Testimonial) BeforeSave(*gorm.DB) error {
	if t.Rating < 1 || t.Rating > 5 {
		return &FieldError{Field: "rating", Message: fmt.Sprintf("must be between 1 and 5, got %d", t.Rating)}
	}
	return nil
}
