package model

import "github.com/shopspring/decimal"

// Period is the window a budget ceiling applies to.
type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// Periods lists the accepted budget periods in display order.
var Periods = []Period{Monthly, Yearly}

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	return p == Monthly || p == Yearly
}

// Label returns the capitalized period name, e.g. "Monthly".
func (p Period) Label() string {
	switch p {
	case Monthly:
		return "Monthly"
	case Yearly:
		return "Yearly"
	default:
		return string(p)
	}
}

// Budget is a spending ceiling for one category. At most one budget exists per
// category when budgets are created through the state store's SetBudget path.
type Budget struct {
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Period   Period          `json:"period"`
}

// BudgetInput carries the fields of a budget that has no id yet.
type BudgetInput struct {
	Category string
	Amount   decimal.Decimal
	Period   Period
}

// WithID builds a Budget from the input using the given id.
func (in BudgetInput) WithID(id string) Budget {
	return Budget{ID: id, Category: in.Category, Amount: in.Amount, Period: in.Period}
}

// Validate checks the fields a budget form requires.
func (in BudgetInput) Validate() error {
	if in.Category == "" {
		return ErrCategoryRequired
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !in.Period.Valid() {
		return ErrInvalidPeriod
	}
	return nil
}
