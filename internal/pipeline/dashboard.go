package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tally/internal/model"
)

// Dashboard numbers shown by `tally summary` and the TUI dashboard tab.
const (
	DefaultTopCategories = 3
	DefaultRecentCount   = 5
)

// Dashboard is everything the summary views derive from one snapshot.
type Dashboard struct {
	Range          DateRange
	MonthExpenses  []model.Expense
	Summary        model.ExpensesSummary
	TotalBudget    decimal.Decimal
	BudgetProgress int
	BudgetLevel    Level
	TopCategories  []CategoryTotal
	Recent         []model.Expense
	Daily          []DailyTotal
	Budgets        []BudgetStatus
}

// BuildDashboard derives the current-month view at now. Recent transactions
// are drawn from all expenses, not just this month's.
func BuildDashboard(expenses []model.Expense, categories []model.Category, budgets []model.Budget, now time.Time, recent int) Dashboard {
	rng := CurrentMonthRange(now)
	month := FilterByDateRange(expenses, rng.Start, rng.End)
	summary := Summarize(month)
	total := TotalBudget(budgets)
	progress := BudgetProgress(summary.Total, total)

	return Dashboard{
		Range:          rng,
		MonthExpenses:  month,
		Summary:        summary,
		TotalBudget:    total,
		BudgetProgress: progress,
		BudgetLevel:    LevelFor(progress),
		TopCategories:  TopCategories(summary, categories, DefaultTopCategories),
		Recent:         RecentExpenses(expenses, recent),
		Daily:          DailyTotals(month, rng),
		Budgets:        BudgetStatuses(budgets, categories, month),
	}
}
