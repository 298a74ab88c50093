package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tally/internal/model"
)

// Level classifies how much of a budget has been used.
type Level int

const (
	LevelOK Level = iota
	LevelWarning
	LevelOver
)

// Budget thresholds, in percent.
const (
	WarningPercent = 80
	OverPercent    = 100
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelOver:
		return "over"
	default:
		return "ok"
	}
}

// LevelFor maps a usage percentage to a Level.
func LevelFor(percent int) Level {
	switch {
	case percent >= OverPercent:
		return LevelOver
	case percent >= WarningPercent:
		return LevelWarning
	default:
		return LevelOK
	}
}

// TotalBudget sums every budget amount regardless of period.
func TotalBudget(budgets []model.Budget) decimal.Decimal {
	total := decimal.Zero
	for _, b := range budgets {
		total = total.Add(b.Amount)
	}
	return total
}

// BudgetProgress returns spent as a rounded percentage of limit, capped at
// 100. A zero or negative limit yields 0.
func BudgetProgress(spent, limit decimal.Decimal) int {
	if !limit.IsPositive() {
		return 0
	}
	pct := spent.Div(limit).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}

// BudgetStatus is a budget together with what has been spent against it.
type BudgetStatus struct {
	Budget    model.Budget
	Category  model.Category
	Spent     decimal.Decimal
	Remaining decimal.Decimal // negative when over budget
	Percent   int
	Level     Level
}

// BudgetStatuses computes spending against each budget, in budget order.
// periodExpenses should already be filtered to the period being reported on,
// normally the current month.
func BudgetStatuses(budgets []model.Budget, categories []model.Category, periodExpenses []model.Expense) []BudgetStatus {
	summary := Summarize(periodExpenses)
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := summary.ByCategory[b.Category]
		pct := BudgetProgress(spent, b.Amount)
		out = append(out, BudgetStatus{
			Budget:    b,
			Category:  model.ResolveCategory(categories, b.Category),
			Spent:     spent,
			Remaining: b.Amount.Sub(spent),
			Percent:   pct,
			Level:     LevelFor(pct),
		})
	}
	return out
}
