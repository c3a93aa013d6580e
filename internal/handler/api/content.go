// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smerptek/smerp-site/internal/content"
	"github.com/smerptek/smerp-site/internal/currency"
	"github.com/smerptek/smerp-site/internal/handler"
	"github.com/smerptek/smerp-site/internal/model"
	"github.com/smerptek/smerp-site/internal/store"
)

var activeOnly = store.Filter{"active": "true"}

// Products handles GET /api/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.repos.Products.List(r.Context(), activeOnly)
	writeList(w, products, err, "Failed to fetch products")
}

// Services handles GET /api/services.
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	services, err := h.repos.Services.List(r.Context(), activeOnly)
	writeList(w, services, err, "Failed to fetch services")
}

// Testimonials handles GET /api/testimonials.
func (h *Handler) Testimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.repos.Testimonials.List(r.Context(), activeOnly)
	writeList(w, testimonials, err, "Failed to fetch testimonials")
}

// FAQs handles GET /api/faqs. ?category= narrows the list.
func (h *Handler) FAQs(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{"active": "true"}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	faqs, err := h.repos.FAQs.List(r.Context(), filter)
	writeList(w, faqs, err, "Failed to fetch faqs")
}

// PricingPlanResponse is a plan with its price in the requested currency.
type PricingPlanResponse struct {
	model.PricingPlan
	DisplayCurrency string  `json:"displayCurrency"`
	ConvertedPrice  float64 `json:"convertedPrice"`
	FormattedPrice  string  `json:"formattedPrice"`
}

// Pricing handles GET /api/pricing?currency=SAR. Plans stored in another
// currency than the base keep their own price.
func (h *Handler) Pricing(w http.ResponseWriter, r *http.Request) {
	target := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
	if target == "" {
		target = h.rates.Base()
	}
	if !currency.IsSupported(target) {
		handler.WriteError(w, http.StatusBadRequest, MsgUnsupportedCurrency)
		return
	}

	plans, err := h.repos.Pricing.List(r.Context(), activeOnly)
	if err != nil {
		slog.Error("failed to list pricing plans", "error", err)
		handler.WriteError(w, http.StatusInternalServerError, "Failed to fetch pricing")
		return
	}

	h.rates.FetchExchangeRates(r.Context())

	resp := make([]PricingPlanResponse, 0, len(plans))
	for _, plan := range plans {
		item := PricingPlanResponse{
			PricingPlan:     plan,
			DisplayCurrency: target,
			ConvertedPrice:  plan.Price.Float64(),
		}
		if plan.Currency == h.rates.Base() {
			item.ConvertedPrice = h.rates.Convert(plan.Price.Float64(), target)
		} else {
			item.DisplayCurrency = plan.Currency
		}
		item.FormattedPrice = currency.Format(item.ConvertedPrice, item.DisplayCurrency)
		resp = append(resp, item)
	}
	handler.WriteJSON(w, http.StatusOK, resp)
}

// BlogPostSummary is a published post without its body.
type BlogPostSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	CoverImage  string     `json:"coverImage"`
	Author      string     `json:"author"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// BlogPosts handles GET /api/blog. ?category= narrows the list.
func (h *Handler) BlogPosts(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{"published": "true"}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	posts, err := h.repos.Blog.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list blog posts", "error", err)
		handler.WriteError(w, http.StatusInternalServerError, "Failed to fetch blog posts")
		return
	}

	summaries := make([]BlogPostSummary, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, BlogPostSummary{
			ID:          p.ID,
			Title:       p.Title,
			Slug:        p.Slug,
			Excerpt:     p.Excerpt,
			CoverImage:  p.CoverImage,
			Author:      p.Author,
			Category:    p.Category,
			Tags:        p.Tags,
			PublishedAt: p.PublishedAt,
		})
	}
	handler.WriteJSON(w, http.StatusOK, summaries)
}

// BlogPostResponse is a post with its Markdown rendered to safe HTML.
type BlogPostResponse struct {
	*model.BlogPost
	ContentHTML string `json:"contentHtml"`
}

// BlogPost handles GET /api/blog/{slug}.
func (h *Handler) BlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.repos.Blog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeLookupError(w, err, "Failed to fetch blog post")
		return
	}
	if !post.Published {
		handler.WriteError(w, http.StatusNotFound, MsgNotFound)
		return
	}

	html, err := content.RenderMarkdown(post.Content)
	if err != nil {
		slog.Error("failed to render blog post", "slug", post.Slug, "error", err)
		handler.WriteError(w, http.StatusInternalServerError, "Failed to fetch blog post")
		return
	}
	handler.WriteJSON(w, http.StatusOK, BlogPostResponse{BlogPost: post, ContentHTML: html})
}

// Page handles GET /api/pages/{slug}.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	page, err := h.repos.Pages.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeLookupError(w, err, "Failed to fetch page")
		return
	}
	if !page.Published {
		handler.WriteError(w, http.StatusNotFound, MsgNotFound)
		return
	}
	handler.WriteJSON(w, http.StatusOK, page)
}

// Settings handles GET /api/settings.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repos.Settings.Map(r.Context())
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		handler.WriteError(w, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	handler.WriteJSON(w, http.StatusOK, settings)
}

// ExchangeRates handles GET /api/exchange-rates.
func (h *Handler) ExchangeRates(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, http.StatusOK, h.rates.FetchExchangeRates(r.Context()))
}
