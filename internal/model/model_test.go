// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    Price
		wantErr bool
	}{
		{`1499`, 1499, false},
		{`1499.996`, 1500, false},
		{`"249.50"`, 249.5, false},
		{`" 99 "`, 99, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"abc"`, 0, true},
		{`"12,5"`, 0, true},
		{`true`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var p Price
			err := json.Unmarshal([]byte(tt.input), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, float64(tt.want), p.Float64(), 0.0001)
		})
	}
}

func TestPricingPlan_DecodeStringPrice(t *testing.T) {
	plan := NewPricingPlan()
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Growth","price":"2499.00"}`), plan))
	assert.Equal(t, Price(2499), plan.Price)
	assert.Equal(t, "AED", plan.Currency)
	assert.True(t, plan.Active)
}

func TestIsValidInterest(t *testing.T) {
	for _, i := range ValidInterests() {
		assert.True(t, IsValidInterest(i), i)
	}
	assert.False(t, IsValidInterest(""))
	assert.False(t, IsValidInterest("ERP"))
	assert.False(t, IsValidInterest("crypto"))
}

func TestBase_BeforeCreate(t *testing.T) {
	var b Base
	require.NoError(t, b.BeforeCreate(nil))
	assert.Len(t, b.ID, 36)

	b2 := Base{ID: "fixed"}
	require.NoError(t, b2.BeforeCreate(nil))
	assert.Equal(t, "fixed", b2.ID)
}

func TestSluggable(t *testing.T) {
	var _ Sluggable = NewProduct()
	var _ Sluggable = NewPricingPlan()
	var _ Sluggable = NewService()
	var _ Sluggable = NewBlogPost()
	var _ Sluggable = NewPage()

	p := NewProduct()
	p.Name = "Cloud ERP"
	p.SetSlug("cloud-erp")
	assert.Equal(t, "Cloud ERP", p.SlugSource())
	assert.Equal(t, "cloud-erp", p.GetSlug())
}

func TestSaveHooks_FieldErrors(t *testing.T) {
	err := (&Testimonial{Rating: 6}).BeforeSave(nil)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "rating", fieldErr.Field)
	assert.ErrorIs(t, err, ErrInvalidField)

	assert.NoError(t, (&Testimonial{Rating: 1}).BeforeSave(nil))
	assert.ErrorIs(t, (&PricingPlan{Price: -1}).BeforeSave(nil), ErrInvalidField)

	setting := &SiteSetting{Key: "  site_name "}
	require.NoError(t, setting.BeforeSave(nil))
	assert.Equal(t, "site_name", setting.Key)
	assert.ErrorIs(t, (&SiteSetting{Key: " "}).BeforeSave(nil), ErrSettingKeyRequired)
}
