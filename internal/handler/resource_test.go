// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smerptek/smerp-site/internal/auth"
	"github.com/smerptek/smerp-site/internal/middleware"
	"github.com/smerptek/smerp-site/internal/model"
	"github.com/smerptek/smerp-site/internal/store"
	tu "github.com/smerptek/smerp-site/internal/testutil"
)

func newResourceRouter(t *testing.T) (chi.Router, *store.Repositories) {
	t.Helper()
	repos := store.NewRepositories(tu.TestORM(t))

	r := chi.NewRouter()
	NewResourceHandler(repos.Products, MessagesFor("Product", "product", "products"), model.NewProduct).
		Mount(r, RouteProducts)
	NewResourceHandler(repos.Testimonials, MessagesFor("Testimonial", "testimonial", "testimonials"), model.NewTestimonial).
		Mount(r, RouteTestimonials)
	NewResourceHandler(repos.Pricing, MessagesFor("Pricing plan", "pricing plan", "pricing plans"), model.NewPricingPlan).
		Mount(r, RoutePricing)
	NewResourceHandler(repos.Forms, MessagesFor("Form", "form", "forms"),
		func() *model.FormSubmission { return new(model.FormSubmission) },
		WithoutCreate[model.FormSubmission]()).
		Mount(r, RouteForms)
	NewResourceHandler(repos.Settings, MessagesFor("Setting", "setting", "settings"),
		func() *model.SiteSetting { return new(model.SiteSetting) },
		WithUpsert[model.SiteSetting](repos.Settings.Upsert)).
		Mount(r, RouteSettings)
	return r, repos
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body["error"]
}

func TestResourceHandler_ProductLifecycle(t *testing.T) {
	r, _ := newResourceRouter(t)

	rr := do(t, r, http.MethodPost, "/products",
		`{"name":"Cloud ERP","description":"All-in-one","features":["Finance","Inventory"],"category":"erp"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created model.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "cloud-erp", created.Slug)
	assert.True(t, created.Active, "active defaults to true")
	assert.False(t, created.CreatedAt.IsZero())

	rr = do(t, r, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []model.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rr = do(t, r, http.MethodGet, "/products?id="+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, r, http.MethodPut, "/products", `{"id":"`+created.ID+`","name":"Cloud ERP Pro"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated model.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Cloud ERP Pro", updated.Name)
	assert.Equal(t, "All-in-one", updated.Description, "absent fields keep their value")
	assert.Equal(t, []string{"Finance", "Inventory"}, []string(updated.Features))
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	rr = do(t, r, http.MethodDelete, "/products?id="+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())

	rr = do(t, r, http.MethodGet, "/products?id="+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResourceHandler_DeleteTwice(t *testing.T) {
	r, _ := newResourceRouter(t)

	rr := do(t, r, http.MethodPost, "/products", `{"name":"HRMS"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created model.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = do(t, r, http.MethodDelete, "/products?id="+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	for range 2 {
		rr = do(t, r, http.MethodDelete, "/products?id="+created.ID, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Product not found", errorBody(t, rr))
	}
}

func TestResourceHandler_Errors(t *testing.T) {
	r, _ := newResourceRouter(t)

	rr := do(t, r, http.MethodPost, "/products", `{"name":"CRM"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantError  string
	}{
		{"put without id", http.MethodPut, "/products", `{"name":"x"}`, http.StatusBadRequest, "Product ID required"},
		{"delete without id", http.MethodDelete, "/products", "", http.StatusBadRequest, "Product ID required"},
		{"put unknown id", http.MethodPut, "/products", `{"id":"missing","name":"x"}`, http.StatusNotFound, "Product not found"},
		{"duplicate slug", http.MethodPost, "/products", `{"name":"CRM"}`, http.StatusBadRequest, "Product slug already exists"},
		{"malformed create", http.MethodPost, "/products", `{"name":`, http.StatusInternalServerError, "Failed to create product"},
		{"malformed update", http.MethodPut, "/products", `not json`, http.StatusInternalServerError, "Failed to update product"},
		{"bad filter", http.MethodGet, "/products?active=maybe", "", http.StatusBadRequest, "Invalid product filter"},
		{"forms create", http.MethodPost, "/forms", `{"type":"contact"}`, http.StatusMethodNotAllowed, "Method not allowed"},
		{"setting without key", http.MethodPost, "/settings", `{"value":"x"}`, http.StatusBadRequest, "Setting key required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, r, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, tt.wantError, errorBody(t, rr))
		})
	}
}

func TestResourceHandler_Filters(t *testing.T) {
	r, _ := newResourceRouter(t)

	do(t, r, http.MethodPost, "/products", `{"name":"Active ERP","category":"erp"}`)
	do(t, r, http.MethodPost, "/products", `{"name":"Hidden ERP","category":"erp","active":false}`)
	do(t, r, http.MethodPost, "/products", `{"name":"CRM","category":"crm"}`)

	count := func(target string) int {
		rr := do(t, r, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var list []model.Product
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		return len(list)
	}

	assert.Equal(t, 3, count("/products"))
	assert.Equal(t, 2, count("/products?active=true"))
	assert.Equal(t, 2, count("/products?category=erp"))
	assert.Equal(t, 1, count("/products?category=erp&active=true"))
	assert.Equal(t, 3, count("/products?unknown=1"), "unknown parameters are ignored")
}

func TestResourceHandler_SettingsUpsert(t *testing.T) {
	r, repos := newResourceRouter(t)

	rr := do(t, r, http.MethodPost, "/settings", `{"key":"site_name","value":"SMERP"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var first model.SiteSetting
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))

	rr = do(t, r, http.MethodPost, "/settings", `{"key":"site_name","value":"SMERP TEK"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var second model.SiteSetting
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "SMERP TEK", second.Value)

	all, err := repos.Settings.Map(t.Context())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"site_name": "SMERP TEK"}, all)
}

func TestResourceHandler_FormsOnlyReadChanges(t *testing.T) {
	r, repos := newResourceRouter(t)

	sub := &model.FormSubmission{Type: model.SubmissionTypeContact, Email: "lead@example.com"}
	require.NoError(t, repos.Forms.Create(t.Context(), sub))

	rr := do(t, r, http.MethodPut, "/forms",
		`{"id":"`+sub.ID+`","read":true,"email":"changed@example.com"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var updated model.FormSubmission
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.True(t, updated.Read)
	assert.Equal(t, "lead@example.com", updated.Email)
}

func TestResourceHandler_SettingKeyRules(t *testing.T) {
	r, repos := newResourceRouter(t)

	rr := do(t, r, http.MethodPost, "/settings", `{"key":"site_name","value":"SMERP"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var setting model.SiteSetting
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &setting))

	rr = do(t, r, http.MethodPost, "/settings", `{"key":"contact_email","value":"info@smerptek.com"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"empty key", `{"id":"` + setting.ID + `","key":""}`, http.StatusBadRequest, "Setting key required"},
		{"blank key", `{"id":"` + setting.ID + `","key":"   "}`, http.StatusBadRequest, "Setting key required"},
		{"key of another setting", `{"id":"` + setting.ID + `","key":"contact_email"}`, http.StatusBadRequest, "Setting key already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, r, http.MethodPut, "/settings", tt.body)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.message, errorBody(t, rr))
		})
	}

	stored, err := repos.Settings.Get(t.Context(), setting.ID)
	require.NoError(t, err)
	assert.Equal(t, "site_name", stored.Key, "rejected updates must not change the key")

	rr = do(t, r, http.MethodPut, "/settings", `{"id":"`+setting.ID+`","key":" site_title "}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var renamed model.SiteSetting
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &renamed))
	assert.Equal(t, "site_title", renamed.Key)
}

func TestResourceHandler_InvalidFields(t *testing.T) {
	r, _ := newResourceRouter(t)

	rr := do(t, r, http.MethodPost, "/testimonials", `{"name":"Omar","content":"Great team","rating":6}`)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.True(t, strings.HasPrefix(errorBody(t, rr), "Invalid testimonial: rating"), errorBody(t, rr))

	rr = do(t, r, http.MethodPost, "/testimonials", `{"name":"Omar","content":"Great team","rating":4}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created model.Testimonial
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = do(t, r, http.MethodPut, "/testimonials", `{"id":"`+created.ID+`","rating":0}`)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.True(t, strings.HasPrefix(errorBody(t, rr), "Invalid testimonial: rating"), errorBody(t, rr))

	rr = do(t, r, http.MethodPost, "/pricing", `{"name":"Starter","price":-5}`)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.Equal(t, "Invalid pricing plan: price: must not be negative", errorBody(t, rr))
}

func TestAdminEmail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	assert.Empty(t, adminEmail(req))

	claims := &auth.Claims{Email: "admin@smerptek.com", Role: auth.RoleAdmin}
	req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyClaims, claims))
	assert.Equal(t, "admin@smerptek.com", adminEmail(req))
}
