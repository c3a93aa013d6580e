// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package currency

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Format renders amount as "{code} {amount}" with thousands separators
// and at most two fraction digits, e.g. "SAR 1,529.49". The prefix is the
// upper-cased ISO code.
func Format(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	return code + " " + printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
