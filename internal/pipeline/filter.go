package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/model"
)

// DateRange is an inclusive pair of YYYY-MM-DD dates.
type DateRange struct {
	Start string
	End   string
}

// Contains reports whether date falls within the range.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

// CurrentMonthRange returns the first and last day of now's calendar month, in
// now's location.
func CurrentMonthRange(now time.Time) DateRange {
	return MonthRange(now.Year(), now.Month(), now.Location())
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year int, month time.Month, loc *time.Location) DateRange {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	// Day 0 of the next month is the last day of this one.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	return DateRange{Start: model.FormatDate(first), End: model.FormatDate(last)}
}

// ParseMonth parses a YYYY-MM string into that month's range.
func ParseMonth(s string) (DateRange, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return DateRange{}, fmt.Errorf("month must be YYYY-MM: %q", s)
	}
	return MonthRange(t.Year(), t.Month(), time.UTC), nil
}

// FilterByDateRange keeps expenses whose date is within [start, end]. Dates are
// compared as strings, so every date must use the zero-padded ISO layout.
func FilterByDateRange(expenses []model.Expense, start, end string) []model.Expense {
	rng := DateRange{Start: start, End: end}
	result := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if rng.Contains(e.Date) {
			result = append(result, e)
		}
	}
	return result
}

// FilterByCategory keeps expenses in the given category id. An empty id keeps
// everything.
func FilterByCategory(expenses []model.Expense, categoryID string) []model.Expense {
	if categoryID == "" {
		return expenses
	}
	var result []model.Expense
	for _, e := range expenses {
		if e.Category == categoryID {
			result = append(result, e)
		}
	}
	return result
}

// SearchExpenses keeps expenses whose description contains query, ignoring
// case.
func SearchExpenses(expenses []model.Expense, query string) []model.Expense {
	if query == "" {
		return expenses
	}
	var result []model.Expense
	for _, e := range expenses {
		if containsIgnoreCase(e.Description, query) {
			result = append(result, e)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
