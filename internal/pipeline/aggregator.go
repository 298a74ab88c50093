// Package pipeline derives summaries, groupings and budget progress from
// snapshots of the state store. Every function is pure.
package pipeline

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tally/internal/model"
)

// Summarize computes the total and per-category sums. Categories with no
// expenses are absent from ByCategory.
func Summarize(expenses []model.Expense) model.ExpensesSummary {
	summary := model.ExpensesSummary{
		Total:      decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
	}
	for _, e := range expenses {
		summary.Total = summary.Total.Add(e.Amount)
		summary.ByCategory[e.Category] = summary.ByCategory[e.Category].Add(e.Amount)
	}
	return summary
}

// GroupByDate buckets expenses by their date string. Within a bucket the
// input order is preserved.
func GroupByDate(expenses []model.Expense) map[string][]model.Expense {
	grouped := make(map[string][]model.Expense)
	for _, e := range expenses {
		grouped[e.Date] = append(grouped[e.Date], e)
	}
	return grouped
}

// SortDatesDescending returns a new slice of dates, latest first.
func SortDatesDescending(dates []string) []string {
	out := append([]string(nil), dates...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i] > out[j]
	})
	return out
}

// DateGroup is one day of expenses.
type DateGroup struct {
	Date     string
	Expenses []model.Expense
	Total    decimal.Decimal
}

// GroupedByDateDescending groups expenses by date and orders the groups latest
// first, which is how transaction lists are displayed.
func GroupedByDateDescending(expenses []model.Expense) []DateGroup {
	grouped := GroupByDate(expenses)
	dates := make([]string, 0, len(grouped))
	for d := range grouped {
		dates = append(dates, d)
	}

	groups := make([]DateGroup, 0, len(dates))
	for _, d := range SortDatesDescending(dates) {
		g := DateGroup{Date: d, Expenses: grouped[d], Total: decimal.Zero}
		for _, e := range g.Expenses {
			g.Total = g.Total.Add(e.Amount)
		}
		groups = append(groups, g)
	}
	return groups
}

// CategoryTotal is one category's spending within a summary.
type CategoryTotal struct {
	Category model.Category
	Amount   decimal.Decimal
	Share    float64 // percent of the summary total
}

// TopCategories returns the n categories with the highest spending, largest
// first. Ids with no matching category resolve to the Uncategorized fallback.
// n <= 0 returns all of them.
func TopCategories(summary model.ExpensesSummary, categories []model.Category, n int) []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(summary.ByCategory))
	for id, amount := range summary.ByCategory {
		ct := CategoryTotal{
			Category: model.ResolveCategory(categories, id),
			Amount:   amount,
		}
		if summary.Total.IsPositive() {
			ct.Share, _ = amount.Div(summary.Total).Mul(decimal.NewFromInt(100)).Float64()
		}
		totals = append(totals, ct)
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Amount.Cmp(totals[j].Amount); c != 0 {
			return c > 0
		}
		return totals[i].Category.ID < totals[j].Category.ID
	})
	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// RecentExpenses returns up to n expenses, latest date first. Expenses on the
// same date keep their input order.
func RecentExpenses(expenses []model.Expense, n int) []model.Expense {
	out := append([]model.Expense(nil), expenses...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DailyTotal is the spending on one calendar day.
type DailyTotal struct {
	Date  string
	Total decimal.Decimal
	Count int
}

// DailyTotals returns one entry per day of rng in chronological order. Days
// without expenses are included with a zero total so charts show the gaps.
func DailyTotals(expenses []model.Expense, rng DateRange) []DailyTotal {
	start, err := model.ParseDate(rng.Start)
	if err != nil {
		return nil
	}
	end, err := model.ParseDate(rng.End)
	if err != nil || end.Before(start) {
		return nil
	}

	dayMap := make(map[string]*DailyTotal)
	var days []DailyTotal
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, DailyTotal{Date: model.FormatDate(day), Total: decimal.Zero})
	}
	for i := range days {
		dayMap[days[i].Date] = &days[i]
	}

	for _, e := range expenses {
		dt, ok := dayMap[e.Date]
		if !ok {
			continue
		}
		dt.Total = dt.Total.Add(e.Amount)
		dt.Count++
	}
	return days
}
