package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/icon"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/tui/theme"
)

const formWidth = 60

// maxRecentCount bounds the setup form's recent-transactions answer.
const maxRecentCount = 50

// activeForm is the huh form currently shown over the dashboard. submit runs
// once the form completes and returns the status line to show.
type activeForm struct {
	title  string
	form   *huh.Form
	submit func() (string, error)
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithTheme(huh.ThemeCharm()).
		WithWidth(formWidth).
		WithShowHelp(true)
}

// ─── Expenses ───────────────────────────────────────────────────

type expenseValues struct {
	Amount      string
	Category    string
	Description string
	Date        string
}

func expenseValuesFrom(e model.Expense) expenseValues {
	return expenseValues{
		Amount:      e.Amount.StringFixed(2),
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
	}
}

func (v expenseValues) input() (model.ExpenseInput, error) {
	amount, err := model.ParseAmount(v.Amount)
	if err != nil {
		return model.ExpenseInput{}, err
	}
	in := model.ExpenseInput{
		Amount:      amount,
		Category:    v.Category,
		Description: strings.TrimSpace(v.Description),
		Date:        strings.TrimSpace(v.Date),
	}
	return in, in.Validate()
}

func validateAmount(s string) error {
	_, err := model.ParseAmount(s)
	return err
}

func validateDate(s string) error {
	_, err := model.ParseDate(strings.TrimSpace(s))
	return err
}

// categoryOptions lists categories as select options. A current id that no
// longer resolves is kept as an Uncategorized option so editing does not
// silently reassign the expense.
func categoryOptions(categories []model.Category, current string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(categories)+1)
	found := current == ""
	for _, c := range categories {
		opts = append(opts, huh.NewOption(icon.Glyph(c.Icon)+" "+c.Name, c.ID))
		if c.ID == current {
			found = true
		}
	}
	if !found {
		fb := model.ResolveCategory(categories, current)
		opts = append(opts, huh.NewOption(icon.Glyph(fb.Icon)+" "+fb.Name, current))
	}
	return opts
}

func expenseForm(title string, v *expenseValues, categories []model.Category) *huh.Form {
	return newForm(huh.NewGroup(
		huh.NewNote().Title(title),
		huh.NewInput().
			Title("Amount").
			Placeholder("0.00").
			Value(&v.Amount).
			Validate(validateAmount),
		huh.NewSelect[string]().
			Title("Category").
			Options(categoryOptions(categories, v.Category)...).
			Value(&v.Category),
		huh.NewInput().
			Title("Date").
			Description("YYYY-MM-DD").
			Value(&v.Date).
			Validate(validateDate),
		huh.NewInput().
			Title("Description").
			Placeholder("optional").
			Value(&v.Description),
	))
}

func (a App) addExpenseForm() (*activeForm, error) {
	cats := a.snap.Categories
	if len(cats) == 0 {
		return nil, errors.New("add a category first")
	}
	v := &expenseValues{Category: cats[0].ID, Date: today()}
	return &activeForm{
		title: "Add expense",
		form:  expenseForm("Add expense", v, cats),
		submit: func() (string, error) {
			in, err := v.input()
			if err != nil {
				return "", err
			}
			e := a.store.AddExpense(in)
			return "Added " + describeExpense(e, cats), nil
		},
	}, nil
}

func (a App) editExpenseForm(e model.Expense) *activeForm {
	cats := a.snap.Categories
	v := new(expenseValues)
	*v = expenseValuesFrom(e)
	return &activeForm{
		title: "Edit expense",
		form:  expenseForm("Edit expense", v, cats),
		submit: func() (string, error) {
			in, err := v.input()
			if err != nil {
				return "", err
			}
			updated := in.WithID(e.ID)
			a.store.UpdateExpense(updated)
			return "Updated " + describeExpense(updated, cats), nil
		},
	}
}

// ─── Categories ─────────────────────────────────────────────────

type categoryValues struct {
	Name  string
	Color string
	Icon  string
}

func (v categoryValues) input() (model.CategoryInput, error) {
	in := model.CategoryInput{Name: v.Name, Color: v.Color, Icon: v.Icon}.Normalize()
	return in, in.Validate()
}

func colorOptions(current string) []huh.Option[string] {
	palette := model.ColorPalette
	if current != "" && !slices.Contains(palette, current) {
		palette = append([]string{current}, palette...)
	}
	opts := make([]huh.Option[string], 0, len(palette))
	for _, c := range palette {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("██")
		opts = append(opts, huh.NewOption(swatch+" "+c, c))
	}
	return opts
}

func iconOptions(current string) []huh.Option[string] {
	names := icon.Names()
	if current != "" && !icon.Known(current) {
		names = append([]string{current}, names...)
	}
	opts := make([]huh.Option[string], 0, len(names))
	for _, n := range names {
		opts = append(opts, huh.NewOption(icon.Glyph(n)+"  "+n, n))
	}
	return opts
}

func validateCategoryName(s string) error {
	if strings.TrimSpace(s) == "" {
		return model.ErrNameRequired
	}
	return nil
}

func categoryForm(title string, v *categoryValues) *huh.Form {
	return newForm(huh.NewGroup(
		huh.NewNote().Title(title),
		huh.NewInput().
			Title("Name").
			Value(&v.Name).
			Validate(validateCategoryName),
		huh.NewSelect[string]().
			Title("Colour").
			Options(colorOptions(v.Color)...).
			Value(&v.Color).
			Height(6),
		huh.NewSelect[string]().
			Title("Icon").
			Options(iconOptions(v.Icon)...).
			Value(&v.Icon).
			Height(6),
	))
}

func (a App) addCategoryForm() *activeForm {
	v := &categoryValues{Color: model.ColorPalette[0], Icon: model.DefaultIcon}
	return &activeForm{
		title: "Add category",
		form:  categoryForm("Add category", v),
		submit: func() (string, error) {
			in, err := v.input()
			if err != nil {
				return "", err
			}
			c := a.store.AddCategory(in)
			return "Added category " + c.Name, nil
		},
	}
}

func (a App) editCategoryForm(c model.Category) *activeForm {
	v := &categoryValues{Name: c.Name, Color: c.Color, Icon: c.Icon}
	return &activeForm{
		title: "Edit category",
		form:  categoryForm("Edit category", v),
		submit: func() (string, error) {
			in, err := v.input()
			if err != nil {
				return "", err
			}
			a.store.UpdateCategory(in.WithID(c.ID))
			return "Updated category " + in.Name, nil
		},
	}
}

// ─── Budgets ────────────────────────────────────────────────────

type budgetValues struct {
	Category string
	Amount   string
	Period   model.Period
}

func (v budgetValues) input() (model.BudgetInput, error) {
	amount, err := model.ParseAmount(v.Amount)
	if err != nil {
		return model.BudgetInput{}, err
	}
	in := model.BudgetInput{Category: v.Category, Amount: amount, Period: v.Period}
	return in, in.Validate()
}

func periodOptions() []huh.Option[model.Period] {
	opts := make([]huh.Option[model.Period], 0, len(model.Periods))
	for _, p := range model.Periods {
		opts = append(opts, huh.NewOption(p.Label(), p))
	}
	return opts
}

func (a App) setBudgetForm() (*activeForm, error) {
	cats := a.snap.Categories
	if len(cats) == 0 {
		return nil, errors.New("add a category first")
	}
	v := &budgetValues{Category: cats[0].ID, Period: model.Monthly}
	form := newForm(huh.NewGroup(
		huh.NewNote().
			Title("Set budget").
			Description("Setting a budget for a category that already has one replaces it."),
		huh.NewSelect[string]().
			Title("Category").
			Options(categoryOptions(cats, "")...).
			Value(&v.Category),
		huh.NewInput().
			Title("Amount").
			Placeholder("0.00").
			Value(&v.Amount).
			Validate(validateAmount),
		huh.NewSelect[model.Period]().
			Title("Period").
			Options(periodOptions()...).
			Value(&v.Period),
	))
	return &activeForm{
		title: "Set budget",
		form:  form,
		submit: func() (string, error) {
			in, err := v.input()
			if err != nil {
				return "", err
			}
			b := a.store.SetBudget(in)
			cat := model.ResolveCategory(cats, b.Category)
			return fmt.Sprintf("Budget for %s set to %s", cat.Name, formatMoney(b.Amount)), nil
		},
	}, nil
}

func (a App) editBudgetForm(b model.Budget) *activeForm {
	cat := model.ResolveCategory(a.snap.Categories, b.Category)
	v := &budgetValues{Category: b.Category, Amount: b.Amount.StringFixed(2), Period: b.Period}
	if !v.Period.Valid() {
		v.Period = model.Monthly
	}
	form := newForm(huh.NewGroup(
		huh.NewNote().
			Title("Edit budget").
			Description(icon.Glyph(cat.Icon)+" "+cat.Name),
		huh.NewInput().
			Title("Amount").
			Value(&v.Amount).
			Validate(validateAmount),
		huh.NewSelect[model.Period]().
			Title("Period").
			Options(periodOptions()...).
			Value(&v.Period),
	))
	return &activeForm{
		title: "Edit budget",
		form:  form,
		submit: func() (string, error) {
			in, err := v.input()
			if err != nil {
				return "", err
			}
			a.store.UpdateBudget(in.WithID(b.ID))
			return "Updated budget for " + cat.Name, nil
		},
	}
}

// ─── Delete confirmation ────────────────────────────────────────

// confirmDeleteForm asks before running del. what names the record in the
// prompt and status line.
func confirmDeleteForm(what string, del func()) *activeForm {
	confirmed := new(bool)
	form := newForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Delete " + what + "?").
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Keep").
			Value(confirmed),
	))
	return &activeForm{
		title: "Delete",
		form:  form,
		submit: func() (string, error) {
			if !*confirmed {
				return "Kept " + what, nil
			}
			del()
			return "Deleted " + what, nil
		},
	}
}

func (a App) deleteExpenseForm(e model.Expense) *activeForm {
	return confirmDeleteForm(describeExpense(e, a.snap.Categories), func() {
		a.store.DeleteExpense(e.ID)
	})
}

func (a App) deleteCategoryForm(c model.Category) *activeForm {
	what := "category " + c.Name
	if n := countExpenses(a.snap.Expenses, c.ID); n > 0 {
		what += fmt.Sprintf(" (%d expenses become Uncategorized)", n)
	}
	return confirmDeleteForm(what, func() {
		a.store.DeleteCategory(c.ID)
	})
}

func (a App) deleteBudgetForm(b model.Budget) *activeForm {
	cat := model.ResolveCategory(a.snap.Categories, b.Category)
	return confirmDeleteForm("budget for "+cat.Name, func() {
		a.store.DeleteBudget(b.ID)
	})
}

// ─── First-run setup ────────────────────────────────────────────

// SetupValues holds the answers of the setup form as edited strings.
type SetupValues struct {
	CurrencySymbol string
	RecentCount    string
	Backend        string
	Theme          string
}

// SetupValuesFrom pre-fills the setup form from cfg.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		CurrencySymbol: cfg.General.CurrencySymbol,
		RecentCount:    strconv.Itoa(cfg.General.RecentCount),
		Backend:        cfg.Storage.Backend,
		Theme:          theme.ByName(cfg.Appearance.Theme).Name,
	}
}

func validateRecentCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > maxRecentCount {
		return fmt.Errorf("enter a number from 1 to %d", maxRecentCount)
	}
	return nil
}

func validateCurrencySymbol(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("currency symbol is required")
	}
	return nil
}

// NewSetupForm builds the first-run configuration form bound to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := huh.NewOptions(theme.Names()...)
	return newForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to tally").
				Description("A few settings before you start. Run `tally setup` anytime to change them."),
			huh.NewInput().
				Title("Currency symbol").
				Value(&v.CurrencySymbol).
				Validate(validateCurrencySymbol),
			huh.NewInput().
				Title("Recent transactions on the dashboard").
				Value(&v.RecentCount).
				Validate(validateRecentCount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Storage").
				Options(
					huh.NewOption("SQLite file (kept between runs)", config.BackendSQLite),
					huh.NewOption("In memory (discarded on exit)", config.BackendMemory),
				).
				Value(&v.Backend),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
	)
}

// Apply copies the answers into cfg and validates the result.
func (v *SetupValues) Apply(cfg *config.Config) error {
	if err := validateCurrencySymbol(v.CurrencySymbol); err != nil {
		return err
	}
	if err := validateRecentCount(v.RecentCount); err != nil {
		return err
	}
	n, _ := strconv.Atoi(strings.TrimSpace(v.RecentCount))

	cfg.General.CurrencySymbol = strings.TrimSpace(v.CurrencySymbol)
	cfg.General.RecentCount = n
	if v.Backend != "" {
		cfg.Storage.Backend = v.Backend
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	return cfg.Validate()
}

// setupForm wraps NewSetupForm for the dashboard's first run. The answers are
// saved over the config file alone so environment overrides stay out of it.
func (a App) setupForm() *activeForm {
	v := new(SetupValues)
	*v = SetupValuesFrom(a.cfg)
	return &activeForm{
		title: "Setup",
		form:  NewSetupForm(v),
		submit: func() (string, error) {
			fileCfg, err := config.ReadFile(config.ConfigPath())
			if err != nil {
				return "", err
			}
			if err := v.Apply(&fileCfg); err != nil {
				return "", err
			}
			if err := config.Save(fileCfg); err != nil {
				return "", fmt.Errorf("saving config: %w", err)
			}
			theme.SetActive(fileCfg.Appearance.Theme)
			setCurrency(fileCfg.General.CurrencySymbol)
			*a.recent = fileCfg.General.RecentCount
			msg := "Saved " + config.ConfigPath()
			if fileCfg.Storage.Backend != a.cfg.Storage.Backend {
				msg += " (storage change applies on next start)"
			}
			return msg, nil
		},
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func countExpenses(expenses []model.Expense, categoryID string) int {
	n := 0
	for _, e := range expenses {
		if e.Category == categoryID {
			n++
		}
	}
	return n
}

func describeExpense(e model.Expense, categories []model.Category) string {
	cat := model.ResolveCategory(categories, e.Category)
	label := e.Description
	if label == "" {
		label = cat.Name
	}
	return fmt.Sprintf("%s %s", formatMoney(e.Amount), label)
}
