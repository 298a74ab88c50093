package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tally/internal/model"
)

func TestFilterByDateRangeInclusive(t *testing.T) {
	var es []model.Expense
	for _, d := range []string{"2025-01-05", "2025-01-10", "2025-01-15", "2025-01-20", "2025-01-25"} {
		es = append(es, exp(d, 1, "1", d))
	}
	got := FilterByDateRange(es, "2025-01-10", "2025-01-20")
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Date != "2025-01-10" || got[2].Date != "2025-01-20" {
		t.Fatalf("bounds not inclusive: %+v", got)
	}
}

func TestCurrentMonthRange(t *testing.T) {
	cases := []struct {
		now        time.Time
		start, end string
	}{
		{time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC), "2025-01-01", "2025-01-31"},
		{time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC), "2024-02-01", "2024-02-29"},
		{time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), "2025-02-01", "2025-02-28"},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), "2025-12-01", "2025-12-31"},
	}
	for _, tc := range cases {
		r := CurrentMonthRange(tc.now)
		if r.Start != tc.start || r.End != tc.end {
			t.Fatalf("CurrentMonthRange(%s) = %+v, want %s..%s", tc.now, r, tc.start, tc.end)
		}
	}
}

func TestCurrentMonthRangeUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2025-03-31 20:00 UTC is already April 1st in Tokyo.
	now := time.Date(2025, time.March, 31, 20, 0, 0, 0, time.UTC).In(tokyo)
	if r := CurrentMonthRange(now); r.Start != "2025-04-01" {
		t.Fatalf("range = %+v, want April", r)
	}
}

func TestParseMonth(t *testing.T) {
	r, err := ParseMonth("2025-02")
	if err != nil || r.Start != "2025-02-01" || r.End != "2025-02-28" {
		t.Fatalf("ParseMonth = %+v, %v", r, err)
	}
	if _, err := ParseMonth("Feb 2025"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFilterByCategoryAndSearch(t *testing.T) {
	es := []model.Expense{
		{ID: "a", Amount: decimal.NewFromInt(1), Category: "1", Description: "Coffee beans"},
		{ID: "b", Amount: decimal.NewFromInt(1), Category: "2", Description: "Bus ticket"},
		{ID: "c", Amount: decimal.NewFromInt(1), Category: "1", Description: "Lunch"},
	}
	if got := FilterByCategory(es, "1"); len(got) != 2 {
		t.Fatalf("FilterByCategory = %d", len(got))
	}
	if got := FilterByCategory(es, ""); len(got) != 3 {
		t.Fatalf("empty category filter = %d", len(got))
	}
	got := SearchExpenses(es, "COFFEE")
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("SearchExpenses = %+v", got)
	}
}
