package state

import (
	"strings"

	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/store"
)

// ImportResult counts what Import changed.
type ImportResult struct {
	CategoriesAdded  int
	CategoriesMapped int
	ExpensesAdded    int
	BudgetsSet       int
	Skipped          int
}

// Import merges an exported document into the store through the normal
// operations. Categories that match an existing one by name (ignoring case)
// are reused; the rest are added. Expense and budget category references are
// rewritten to the resulting ids. References to categories missing from the
// document are kept as-is and resolve to Uncategorized. Records that fail
// validation are skipped and counted in Skipped.
func Import(s *Store, doc store.Document) ImportResult {
	s.must()
	var res ImportResult

	existing := s.Snapshot().Categories
	byName := make(map[string]string, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	idMap := make(map[string]string, len(doc.Categories))
	for _, c := range doc.Categories {
		in := model.CategoryInput{Name: c.Name, Color: c.Color, Icon: c.Icon}.Normalize()
		if err := in.Validate(); err != nil {
			s.skipImport(&res, "category", c.ID, err)
			continue
		}
		key := strings.ToLower(in.Name)
		if id, ok := byName[key]; ok {
			idMap[c.ID] = id
			res.CategoriesMapped++
			continue
		}
		added := s.AddCategory(in)
		if added.ID == "" {
			continue
		}
		idMap[c.ID] = added.ID
		byName[key] = added.ID
		res.CategoriesAdded++
	}

	remap := func(id string) string {
		if mapped, ok := idMap[id]; ok {
			return mapped
		}
		return id
	}

	for _, e := range doc.Expenses {
		in := e.Input()
		in.Category = remap(in.Category)
		in.Description = strings.TrimSpace(in.Description)
		if err := in.Validate(); err != nil {
			s.skipImport(&res, "expense", e.ID, err)
			continue
		}
		if s.AddExpense(in).ID != "" {
			res.ExpensesAdded++
		}
	}
	for _, b := range doc.Budgets {
		in := model.BudgetInput{Category: remap(b.Category), Amount: b.Amount, Period: b.Period}
		if err := in.Validate(); err != nil {
			s.skipImport(&res, "budget", b.ID, err)
			continue
		}
		if s.SetBudget(in).ID != "" {
			res.BudgetsSet++
		}
	}

	s.log.Info("import finished", log.FieldOperation, log.OpImport,
		"categories_added", res.CategoriesAdded,
		"categories_mapped", res.CategoriesMapped,
		"expenses_added", res.ExpensesAdded,
		"budgets_set", res.BudgetsSet,
		"skipped", res.Skipped)
	return res
}

func (s *Store) skipImport(res *ImportResult, kind, id string, err error) {
	res.Skipped++
	s.log.Warn("skipping invalid "+kind, log.FieldOperation, log.OpImport, log.FieldID, id, log.FieldError, err)
}
