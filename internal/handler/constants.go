// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Error messages shared by handlers.
const (
	MsgInvalidCredentials    = "Invalid credentials"
	MsgCredentialsRequired   = "Email and password required"
	MsgInvalidRequest        = "Invalid request body"
	MsgNotFound              = "Not found"
	MsgMethodNotAllowed      = "Method not allowed"
	MsgDatabaseNotConfigured = "Database not configured"
	MsgTooManyAttempts       = "Too many login attempts, try again later"
	MsgFetchStatsFailed      = "Failed to fetch stats"
	MsgContactFailed         = "Failed to submit contact form"
)

// Admin resource routes.
const (
	RouteProducts     = "/products"
	RoutePricing      = "/pricing"
	RouteServices     = "/services"
	RouteBlog         = "/blog"
	RoutePages        = "/pages"
	RouteTestimonials = "/testimonials"
	RouteFAQs         = "/faqs"
	RouteForms        = "/forms"
	RouteSettings     = "/settings"
	RouteStats        = "/stats"
	RouteAuth         = "/auth"
)
