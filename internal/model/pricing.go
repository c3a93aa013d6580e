// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Billing periods
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
	BillingOneTime = "one-time"
)

// DefaultPlanCurrency is the currency plan prices are entered in.
const DefaultPlanCurrency = "AED"

// Price is a monetary amount. It decodes from a JSON number or a numeric
// string ("1499.00") and is rounded to two decimals.
type Price float64

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*p = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decoding price: %w", err)
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*p = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid price %q", raw)
	}
	*p = Price(math.Round(f*100) / 100)
	return nil
}

// Float64 returns the price as a float64.
func (p Price) Float64() float64 {
	return float64(p)
}

// PricingPlan is a subscription tier on the pricing page.
type PricingPlan struct {
	Base
	Name          string                      `json:"name"`
	Slug          string                      `gorm:"uniqueIndex" json:"slug"`
	Description   string                      `json:"description"`
	Price         Price                       `json:"price"`
	Currency      string                      `json:"currency"`
	BillingPeriod string                      `json:"billingPeriod"`
	Features      datatypes.JSONSlice[string] `json:"features"`
	Highlighted   bool                        `json:"highlighted"`
	CTAText       string                      `gorm:"column:cta_text" json:"ctaText"`
	Active        bool                        `json:"active"`
	Order         int                         `gorm:"column:sort_order" json:"order"`
}

// NewPricingPlan returns a plan with creation defaults applied.
func NewPricingPlan() *PricingPlan {
	return &PricingPlan{
		Active:        true,
		Currency:      DefaultPlanCurrency,
		BillingPeriod: BillingMonthly,
	}
}

func (PricingPlan) TableName() string    { return "pricing_plans" }
func (PricingPlan) DefaultOrder() string { return orderBySortThenNewest }

func (PricingPlan) Filters() map[string]FilterField {
	return map[string]FilterField{
		"active":        {Column: "active", Bool: true},
		"billingPeriod": {Column: "billing_period"},
	}
}

func (p *PricingPlan) SlugSource() string { return p.Name }
func (p *PricingPlan) GetSlug() string    { return p.Slug }
func (p *PricingPlan) SetSlug(s string)   { p.Slug = s }

func (p *PricingPlan) BeforeSave(*gorm.DB) error {
	p.Features = normalizeList(p.Features)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = DefaultPlanCurrency
	}
	if p.Price < 0 {
		return &FieldError{Field: "price", Message: "must not be negative"}
	}
	return nil
}
