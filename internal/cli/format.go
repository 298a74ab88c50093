// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tally/internal/model"
)

// CurrencySymbol prefixes every formatted amount. It is set once at startup
// from the config.
var CurrencySymbol = "$"

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats an amount with the currency symbol, thousands
// separators and two decimals.
// e.g., 1234.5 -> "$1,234.50", -3 -> "-$3.00"
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	d = d.Round(2)
	whole := d.IntPart()
	cents := d.Sub(decimal.NewFromInt(whole)).Mul(hundred).IntPart()
	return fmt.Sprintf("%s%s%s.%02d", sign, CurrencySymbol, humanize.Comma(whole), cents)
}

// FormatAmount formats an amount without a currency symbol, as entered in forms.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDate renders an ISO date as "Jan 2, 2006". Unparseable input is
// returned unchanged.
func FormatDate(iso string) string {
	t, err := model.ParseDate(iso)
	if err != nil {
		return iso
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateLong renders an ISO date as "Monday, January 2, 2006".
func FormatDateLong(iso string) string {
	t, err := model.ParseDate(iso)
	if err != nil {
		return iso
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatMonth renders the month of an ISO date as "January 2006".
func FormatMonth(iso string) string {
	t, err := model.ParseDate(iso)
	if err != nil {
		return iso
	}
	return t.Format("January 2006")
}

// FormatPercent formats a whole-number percentage.
func FormatPercent(pct int) string {
	return fmt.Sprintf("%d%%", pct)
}

// FormatShare formats a 0-100 float share with one decimal.
func FormatShare(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}

// FormatAgo renders a timestamp relative to now, e.g. "3 minutes ago".
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatDayOfWeek returns a 3-letter day abbreviation for an ISO date.
func FormatDayOfWeek(iso string) string {
	t, err := model.ParseDate(iso)
	if err != nil {
		return "???"
	}
	return t.Weekday().String()[:3]
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
