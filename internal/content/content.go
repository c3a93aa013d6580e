// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content renders and sanitizes editor-supplied text for the public API.
package content

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlSanitizer allows the safe subset of HTML used in page bodies and blog posts.
var htmlSanitizer = bluemonday.UGCPolicy()

// textSanitizer strips all markup.
var textSanitizer = bluemonday.StrictPolicy()

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// SanitizeHTML removes scripts, event handlers and other unsafe markup.
func SanitizeHTML(s string) string {
	return htmlSanitizer.Sanitize(s)
}

// StripTags removes all HTML from s and returns plain, unescaped text.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	return html.UnescapeString(textSanitizer.Sanitize(s))
}

// RenderMarkdown converts Markdown to sanitized HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}
