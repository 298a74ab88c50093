package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the zero-padded ISO layout every stored date uses. Range
// filtering compares dates as strings, which only works with this layout.
const DateLayout = "2006-01-02"

var (
	ErrAmountRequired   = errors.New("amount is required")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrCategoryRequired = errors.New("category is required")
	ErrDateRequired     = errors.New("date is required")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
	ErrNameRequired     = errors.New("name is required")
	ErrInvalidColor     = errors.New("color must be a hex value like #10B981")
	ErrInvalidPeriod    = errors.New("period must be monthly or yearly")
)

// ParseAmount parses user input into a positive decimal amount. A comma is
// read as the decimal separator only when it is the sole separator and is
// followed by one or two digits, so "12,50" is accepted and "1,234" is not.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrAmountRequired
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		frac := len(s) - i - 1
		if strings.Count(s, ",") > 1 || strings.Contains(s, ".") || frac < 1 || frac > 2 {
			return decimal.Zero, ErrInvalidAmount
		}
		s = s[:i] + "." + s[i+1:]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseDate validates a YYYY-MM-DD string and returns it as a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrDateRequired
	}
	if len(s) != len(DateLayout) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParsePeriod accepts "monthly"/"yearly" in any case.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrInvalidPeriod
	}
	return p, nil
}

// FormatDate renders t in the stored date layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
