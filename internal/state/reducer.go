// Package state holds tally's single in-memory source of truth and keeps the
// durable copy in sync with it.
package state

import "github.com/theirongolddev/tally/internal/model"

// State is the full set of domain collections plus the loading flag.
type State struct {
	Expenses   []model.Expense
	Categories []model.Category
	Budgets    []model.Budget
	IsLoading  bool
}

// Initial returns the state before any stored data has been loaded.
func Initial() State {
	return State{
		Expenses:   []model.Expense{},
		Categories: model.DefaultCategories(),
		Budgets:    []model.Budget{},
		IsLoading:  true,
	}
}

// Clone returns a copy that shares no slice storage with s.
func (s State) Clone() State {
	return State{
		Expenses:   append([]model.Expense(nil), s.Expenses...),
		Categories: append([]model.Category(nil), s.Categories...),
		Budgets:    append([]model.Budget(nil), s.Budgets...),
		IsLoading:  s.IsLoading,
	}
}

// Action is a state transition understood by Reduce.
type Action interface {
	action()
}

type (
	AddExpense    struct{ Expense model.Expense }
	UpdateExpense struct{ Expense model.Expense }
	DeleteExpense struct{ ID string }

	AddCategory    struct{ Category model.Category }
	UpdateCategory struct{ Category model.Category }
	DeleteCategory struct{ ID string }

	// SetBudget upserts by category. Budget.ID is only used when no budget
	// for the category exists yet.
	SetBudget    struct{ Budget model.Budget }
	UpdateBudget struct{ Budget model.Budget }
	DeleteBudget struct{ ID string }

	// SetInitialData replaces the collections that are non-nil and clears
	// IsLoading. A nil collection keeps its current value.
	SetInitialData struct {
		Expenses   []model.Expense
		Categories []model.Category
		Budgets    []model.Budget
	}
)

func (AddExpense) action()     {}
func (UpdateExpense) action()  {}
func (DeleteExpense) action()  {}
func (AddCategory) action()    {}
func (UpdateCategory) action() {}
func (DeleteCategory) action() {}
func (SetBudget) action()      {}
func (UpdateBudget) action()   {}
func (DeleteBudget) action()   {}
func (SetInitialData) action() {}

// Reduce computes the next state. It never modifies the slices of s; every
// changed collection is a newly allocated slice.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddExpense:
		s.Expenses = appendCopy(s.Expenses, a.Expense)
	case UpdateExpense:
		s.Expenses = replaceByID(s.Expenses, a.Expense, func(e model.Expense) string { return e.ID })
	case DeleteExpense:
		s.Expenses = removeByID(s.Expenses, a.ID, func(e model.Expense) string { return e.ID })

	case AddCategory:
		s.Categories = appendCopy(s.Categories, a.Category)
	case UpdateCategory:
		s.Categories = replaceByID(s.Categories, a.Category, func(c model.Category) string { return c.ID })
	case DeleteCategory:
		s.Categories = removeByID(s.Categories, a.ID, func(c model.Category) string { return c.ID })

	case SetBudget:
		s.Budgets = upsertBudget(s.Budgets, a.Budget)
	case UpdateBudget:
		s.Budgets = replaceByID(s.Budgets, a.Budget, func(b model.Budget) string { return b.ID })
	case DeleteBudget:
		s.Budgets = removeByID(s.Budgets, a.ID, func(b model.Budget) string { return b.ID })

	case SetInitialData:
		if a.Expenses != nil {
			s.Expenses = append([]model.Expense(nil), a.Expenses...)
		}
		if a.Categories != nil {
			s.Categories = append([]model.Category(nil), a.Categories...)
		}
		if a.Budgets != nil {
			s.Budgets = append([]model.Budget(nil), a.Budgets...)
		}
		s.IsLoading = false
	}
	return s
}

func upsertBudget(budgets []model.Budget, b model.Budget) []model.Budget {
	for i := range budgets {
		if budgets[i].Category != b.Category {
			continue
		}
		out := append([]model.Budget(nil), budgets...)
		out[i].Category = b.Category
		out[i].Amount = b.Amount
		out[i].Period = b.Period
		return out
	}
	return appendCopy(budgets, b)
}

func appendCopy[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

func replaceByID[T any](items []T, item T, id func(T) string) []T {
	out := make([]T, len(items))
	want := id(item)
	for i, it := range items {
		if id(it) == want {
			out[i] = item
		} else {
			out[i] = it
		}
	}
	return out
}

func removeByID[T any](items []T, target string, id func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if id(it) != target {
			out = append(out, it)
		}
	}
	return out
}
