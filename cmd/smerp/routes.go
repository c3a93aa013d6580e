// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smerptek/smerp-site/internal/auth"
	"github.com/smerptek/smerp-site/internal/currency"
	"github.com/smerptek/smerp-site/internal/handler"
	"github.com/smerptek/smerp-site/internal/handler/api"
	"github.com/smerptek/smerp-site/internal/middleware"
	"github.com/smerptek/smerp-site/internal/model"
	"github.com/smerptek/smerp-site/internal/service"
	"github.com/smerptek/smerp-site/internal/store"
	"github.com/smerptek/smerp-site/internal/version"
)

const requestTimeout = 30 * time.Second

// contact form: one submission every 30 seconds per IP, bursts of 3
const (
	contactRateLimit = 1.0 / 30
	contactBurst     = 3
)

// app holds the dependencies routes are built from. db and repos are nil
// when no database is configured.
type app struct {
	isDev           bool
	db              *sql.DB
	repos           *store.Repositories
	tokens          *auth.TokenService
	credentials     auth.CredentialVerifier
	rates           *currency.Converter
	loginProtection *middleware.LoginProtection
	contactLimiter  *middleware.RateLimiter
	version         version.Info
}

// registerResource mounts the admin CRUD routes of one resource.
func registerResource[T any, P store.Record[T]](r chi.Router, route string, s handler.ResourceStore[T, P], msgs handler.ResourceMessages, newRecord func() P, opts ...handler.ResourceOption[T, P]) {
	handler.NewResourceHandler(s, msgs, newRecord, opts...).Mount(r, route)
}

func registerResources(r chi.Router, repos *store.Repositories) {
	registerResource(r, handler.RouteProducts, repos.Products,
		handler.MessagesFor("Product", "product", "products"), model.NewProduct)
	registerResource(r, handler.RoutePricing, repos.Pricing,
		handler.MessagesFor("Pricing plan", "pricing plan", "pricing plans"), model.NewPricingPlan)
	registerResource(r, handler.RouteServices, repos.Services,
		handler.MessagesFor("Service", "service", "services"), model.NewService)
	registerResource(r, handler.RouteBlog, repos.Blog,
		handler.MessagesFor("Blog post", "blog post", "blog posts"), model.NewBlogPost)
	registerResource(r, handler.RoutePages, repos.Pages,
		handler.MessagesFor("Page", "page", "pages"), model.NewPage)
	registerResource(r, handler.RouteTestimonials, repos.Testimonials,
		handler.MessagesFor("Testimonial", "testimonial", "testimonials"), model.NewTestimonial)
	registerResource(r, handler.RouteFAQs, repos.FAQs,
		handler.MessagesFor("FAQ", "FAQ", "FAQs"), model.NewFAQ)
	registerResource(r, handler.RouteForms, repos.Forms,
		handler.MessagesFor("Form", "form", "forms"),
		func() *model.FormSubmission { return new(model.FormSubmission) },
		handler.WithoutCreate[model.FormSubmission]())
	registerResource(r, handler.RouteSettings, repos.Settings,
		handler.MessagesFor("Setting", "setting", "settings"),
		func() *model.SiteSetting { return new(model.SiteSetting) },
		handler.WithUpsert[model.SiteSetting](repos.Settings.Upsert))
}

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.Timeout(requestTimeout))

	securityConfig := middleware.DefaultSecurityHeadersConfig(a.isDev)
	securityConfig.ExcludePaths = []string{"/metrics"}
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, http.StatusNotFound, handler.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, http.StatusMethodNotAllowed, handler.MsgMethodNotAllowed)
	})

	var pinger handler.Pinger
	if a.db != nil {
		pinger = a.db
	}
	healthHandler := handler.NewHealthHandler(pinger, a.version.Short())
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Handle("/metrics", promhttp.Handler())

	var forms service.SubmissionCreator
	if a.repos != nil {
		forms = a.repos.Forms
	}
	contactHandler := handler.NewContactHandler(service.NewContactService(forms, nil))
	r.With(a.contactLimiter.Middleware).Post("/contact", contactHandler.Submit)

	r.Mount("/api", api.NewHandler(a.repos, a.rates).Routes())

	authHandler := handler.NewAuthHandler(a.credentials, a.tokens, a.loginProtection)
	r.Route("/admin", func(r chi.Router) {
		r.With(a.loginProtection.Middleware).Post(handler.RouteAuth, authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(a.tokens))

			if a.repos == nil {
				r.HandleFunc("/*", handler.NoDatabase)
				return
			}

			registerResources(r, a.repos)
			r.Get(handler.RouteStats, handler.NewStatsHandler(service.NewStatsService(a.repos)).Get)
		})
	})

	return r
}
