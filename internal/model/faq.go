// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// FAQ is a question/answer pair.
type FAQ struct {
	Base
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	Active   bool   `json:"active"`
	Order    int    `gorm:"column:sort_order" json:"order"`
}

// NewFAQ returns a FAQ with creation defaults applied.
func NewFAQ() *FAQ {
	return &FAQ{Active: true}
}

func (FAQ) TableName() string    { return "faqs" }
func (FAQ) DefaultOrder() string { return orderBySortThenNewest }

func (FAQ) Filters() map[string]FilterField {
	return map[string]FilterField{
		"active":   {Column: "active", Bool: true},
		"category": {Column: "category"},
	}
}
