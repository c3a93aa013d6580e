// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"gorm.io/gorm"

	"github.com/smerptek/smerp-site/internal/model"
)

// Repositories bundles the repository of every content table.
type Repositories struct {
	Products     *Repository[model.Product, *model.Product]
	Pricing      *Repository[model.PricingPlan, *model.PricingPlan]
	Services     *Repository[model.Service, *model.Service]
	Blog         *Repository[model.BlogPost, *model.BlogPost]
	Pages        *Repository[model.Page, *model.Page]
	Testimonials *Repository[model.Testimonial, *model.Testimonial]
	FAQs         *Repository[model.FAQ, *model.FAQ]
	Forms        *Repository[model.FormSubmission, *model.FormSubmission]
	Settings     *SettingsRepository
}

// NewRepositories creates all repositories over db.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Products:     NewRepository[model.Product](db),
		Pricing:      NewRepository[model.PricingPlan](db),
		Services:     NewRepository[model.Service](db),
		Blog:         NewRepository[model.BlogPost](db),
		Pages:        NewRepository[model.Page](db),
		Testimonials: NewRepository[model.Testimonial](db),
		FAQs:         NewRepository[model.FAQ](db),
		Forms:        NewRepository[model.FormSubmission](db),
		Settings:     NewSettingsRepository(db),
	}
}
