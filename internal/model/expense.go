// Package model defines domain types for tally expenses, categories and budgets.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Expense is a single dated spending record. Category holds a Category.ID but
// is not enforced; dangling ids resolve to the Uncategorized fallback.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"` // YYYY-MM-DD
}

// ExpenseInput carries the fields of an expense that has no id yet.
type ExpenseInput struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        string
}

// WithID builds an Expense from the input using the given id.
func (in ExpenseInput) WithID(id string) Expense {
	return Expense{
		ID:          id,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
	}
}

// Validate checks the fields the expense form requires.
func (in ExpenseInput) Validate() error {
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrCategoryRequired
	}
	if in.Date == "" {
		return ErrDateRequired
	}
	if _, err := ParseDate(in.Date); err != nil {
		return err
	}
	return nil
}

// Input strips the id so an existing expense can be edited as input.
func (e Expense) Input() ExpenseInput {
	return ExpenseInput{
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
	}
}

// ExpensesSummary is the derived total and per-category sum over a set of
// expenses. It is recomputed on demand and never persisted.
type ExpensesSummary struct {
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
}
