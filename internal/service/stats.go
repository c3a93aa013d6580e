// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the business logic behind the dashboard statistics
// and the public contact form.
package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/smerptek/smerp-site/internal/model"
	"github.com/smerptek/smerp-site/internal/store"
)

// RecentFormsLimit is the number of submissions shown in recent activity.
const RecentFormsLimit = 5

// Stats is the dashboard summary.
type Stats struct {
	Overview       Overview       `json:"overview"`
	RecentActivity RecentActivity `json:"recentActivity"`
}

// Overview holds the per-table counts.
type Overview struct {
	TotalProducts      int64 `json:"totalProducts"`
	ActiveProducts     int64 `json:"activeProducts"`
	TotalPricingPlans  int64 `json:"totalPricingPlans"`
	TotalServices      int64 `json:"totalServices"`
	TotalBlogPosts     int64 `json:"totalBlogPosts"`
	PublishedBlogPosts int64 `json:"publishedBlogPosts"`
	TotalPages         int64 `json:"totalPages"`
	TotalTestimonials  int64 `json:"totalTestimonials"`
	TotalFAQs          int64 `json:"totalFaqs"`
	TotalForms         int64 `json:"totalForms"`
	UnreadForms        int64 `json:"unreadForms"`
	TotalSettings      int64 `json:"totalSettings"`
}

// RecentActivity lists the newest submissions.
type RecentActivity struct {
	Forms []RecentForm `json:"forms"`
}

// RecentForm is the field subset of a submission exposed on the dashboard.
type RecentForm struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Email     string         `json:"email"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"createdAt"`
	Data      datatypes.JSON `json:"data"`
}

type counter interface {
	Count(ctx context.Context, f store.Filter) (int64, error)
}

// StatsService aggregates dashboard statistics.
type StatsService struct {
	repos *store.Repositories
}

// NewStatsService creates a stats service.
func NewStatsService(repos *store.Repositories) *StatsService {
	return &StatsService{repos: repos}
}

// GetStats runs all counts concurrently. Any failing query fails the whole
// summary.
func (s *StatsService) GetStats(ctx context.Context) (*Stats, error) {
	var (
		ov     Overview
		recent []model.FormSubmission
	)

	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int64, repo counter, f store.Filter) {
		g.Go(func() error {
			n, err := repo.Count(ctx, f)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&ov.TotalProducts, s.repos.Products, nil)
	count(&ov.ActiveProducts, s.repos.Products, store.Filter{"active": "true"})
	count(&ov.TotalPricingPlans, s.repos.Pricing, nil)
	count(&ov.TotalServices, s.repos.Services, nil)
	count(&ov.TotalBlogPosts, s.repos.Blog, nil)
	count(&ov.PublishedBlogPosts, s.repos.Blog, store.Filter{"published": "true"})
	count(&ov.TotalPages, s.repos.Pages, nil)
	count(&ov.TotalTestimonials, s.repos.Testimonials, nil)
	count(&ov.TotalFAQs, s.repos.FAQs, nil)
	count(&ov.TotalForms, s.repos.Forms, nil)
	count(&ov.UnreadForms, s.repos.Forms, store.Filter{"read": "false"})
	count(&ov.TotalSettings, s.repos.Settings, nil)

	g.Go(func() error {
		var err error
		recent, err = s.repos.Forms.Recent(ctx, RecentFormsLimit, model.RecentSubmissionColumns...)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregating stats: %w", err)
	}

	forms := make([]RecentForm, 0, len(recent))
	for _, f := range recent {
		forms = append(forms, RecentForm{
			ID:        f.ID,
			Type:      f.Type,
			Email:     f.Email,
			Read:      f.Read,
			CreatedAt: f.CreatedAt,
			Data:      f.Data,
		})
	}

	return &Stats{
		Overview:       ov,
		RecentActivity: RecentActivity{Forms: forms},
	}, nil
}
