package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/state"
	"github.com/theirongolddev/tally/internal/store"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// fixedNow pins the clock to 2024-03-15 for the duration of the test.
func fixedNow(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local) }
	t.Cleanup(func() { now = orig })
}

func newTestStore(t *testing.T, kv store.KV) *state.Store {
	t.Helper()
	st, err := state.New(kv)
	if err != nil {
		t.Fatalf("state.New: %v", err)
	}
	return st
}

// loadedApp returns an App that has received its LoadedMsg and a window size.
func loadedApp(t *testing.T, st *state.Store) App {
	t.Helper()
	a := NewApp(st, Options{RecentCount: 5})
	a = update(t, a, tea.WindowSizeMsg{Width: 140, Height: 45})
	a = update(t, a, loadCmd(st)())
	if !a.loaded {
		t.Fatalf("app not loaded: %v", a.loadErr)
	}
	return a
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadPopulatesDefaults(t *testing.T) {
	fixedNow(t)
	a := loadedApp(t, newTestStore(t, store.NewMemory()))

	if got := len(a.snap.Categories); got != len(model.DefaultCategories()) {
		t.Fatalf("categories = %d, want defaults", got)
	}
	if a.snap.IsLoading {
		t.Fatal("snapshot still loading after LoadedMsg")
	}
	if a.status == "" || a.statusErr {
		t.Fatalf("status = %q (err=%v), want load summary", a.status, a.statusErr)
	}
}

func TestStoreChangesReachApp(t *testing.T) {
	fixedNow(t)
	st := newTestStore(t, store.NewMemory())
	a := loadedApp(t, st)

	st.AddExpense(model.ExpenseInput{Amount: decimal.NewFromInt(12), Category: "1", Date: "2024-03-10"})
	st.AddExpense(model.ExpenseInput{Amount: decimal.NewFromInt(8), Category: "2", Date: "2024-03-11"})

	// Only the newest snapshot is kept for the UI.
	a = update(t, a, waitForState(a.updates)())

	if got := len(a.snap.Expenses); got != 2 {
		t.Fatalf("expenses = %d, want 2", got)
	}
	if !a.dash.Summary.Total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("month total = %s, want 20", a.dash.Summary.Total)
	}
	if got := len(a.txState.rows); got != 2 || a.txState.rows[0].Date != "2024-03-11" {
		t.Fatalf("transaction rows not latest-first: %+v", a.txState.rows)
	}
}

func TestForwardLatestKeepsNewest(t *testing.T) {
	ch := make(chan state.State, 1)
	fn := forwardLatest(ch)
	for i := 1; i <= 3; i++ {
		s := state.Initial()
		s.Expenses = make([]model.Expense, i)
		fn(s)
	}
	got := <-ch
	if len(got.Expenses) != 3 {
		t.Fatalf("forwarded snapshot has %d expenses, want the newest (3)", len(got.Expenses))
	}
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra snapshot %+v", extra)
	default:
	}
}

func TestLoadErrorIsShown(t *testing.T) {
	kv := store.NewMemory()
	if err := kv.Set(store.KeyExpenses, "{not json"); err != nil {
		t.Fatal(err)
	}
	st := newTestStore(t, kv)
	a := NewApp(st, Options{})
	a = update(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
	a = update(t, a, loadCmd(st)())

	if a.loaded {
		t.Fatal("app loaded despite corrupt data")
	}
	if !errors.Is(a.loadErr, store.ErrCorrupt) {
		t.Fatalf("loadErr = %v, want ErrCorrupt", a.loadErr)
	}
	if view := a.View(); !strings.Contains(view, "Could not load") {
		t.Fatalf("view does not report the load error:\n%s", view)
	}

	_, cmd := a.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q on the error screen should quit")
	}
}

func TestKeysSwitchTabs(t *testing.T) {
	fixedNow(t)
	a := loadedApp(t, newTestStore(t, store.NewMemory()))

	a = update(t, a, runes("3"))
	if a.activeTab != tabCategories {
		t.Fatalf("activeTab = %d after '3', want categories", a.activeTab)
	}
	a = update(t, a, tea.KeyMsg{Type: tea.KeyRight})
	if a.activeTab != tabBudgets {
		t.Fatalf("activeTab = %d after right, want budgets", a.activeTab)
	}
	a = update(t, a, tea.KeyMsg{Type: tea.KeyRight})
	if a.activeTab != tabDashboard {
		t.Fatalf("activeTab = %d after right on last tab, want wrap to dashboard", a.activeTab)
	}
}

func TestListCursorStaysInRange(t *testing.T) {
	fixedNow(t)
	a := loadedApp(t, newTestStore(t, store.NewMemory()))
	a = update(t, a, runes("3"))

	for i := 0; i < 20; i++ {
		a = update(t, a, runes("j"))
	}
	if want := len(a.snap.Categories) - 1; a.catState.cursor != want {
		t.Fatalf("cursor = %d, want last row %d", a.catState.cursor, want)
	}
	a = update(t, a, runes("g"))
	if a.catState.cursor != 0 {
		t.Fatalf("cursor = %d after g, want 0", a.catState.cursor)
	}
}

func TestEditOpensFormAndEscCancels(t *testing.T) {
	fixedNow(t)
	a := loadedApp(t, newTestStore(t, store.NewMemory()))
	a = update(t, a, runes("3"))
	a = update(t, a, runes("e"))
	if a.form == nil {
		t.Fatal("edit on categories did not open a form")
	}
	if a.form.title != "Edit category" {
		t.Fatalf("form title = %q, want Edit category", a.form.title)
	}
	a = update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.form != nil {
		t.Fatal("esc did not close the form")
	}
	if a.status != "Cancelled" {
		t.Fatalf("status = %q, want Cancelled", a.status)
	}
}

func TestAddExpenseWithoutCategoriesFails(t *testing.T) {
	fixedNow(t)
	st := newTestStore(t, store.NewMemory())
	a := loadedApp(t, st)
	for _, c := range a.snap.Categories {
		st.DeleteCategory(c.ID)
	}
	a = update(t, a, waitForState(a.updates)())

	a = update(t, a, runes("a"))
	if a.form != nil {
		t.Fatal("add expense opened a form with no categories")
	}
	if !a.statusErr {
		t.Fatalf("status = %q, want an error", a.status)
	}
}

func TestTransactionFilters(t *testing.T) {
	fixedNow(t)
	st := newTestStore(t, store.NewMemory())
	a := loadedApp(t, st)
	st.AddExpense(model.ExpenseInput{Amount: decimal.NewFromInt(5), Category: "1", Description: "Coffee", Date: "2024-03-02"})
	st.AddExpense(model.ExpenseInput{Amount: decimal.NewFromInt(40), Category: "2", Description: "Train", Date: "2024-02-20"})
	st.AddExpense(model.ExpenseInput{Amount: decimal.NewFromInt(3), Category: "1", Description: "coffee beans", Date: "2024-02-21"})
	a = update(t, a, waitForState(a.updates)())
	a = update(t, a, runes("2"))

	a = update(t, a, runes("["))
	if got := len(a.txState.rows); got != 2 {
		t.Fatalf("February rows = %d, want 2", got)
	}

	a = update(t, a, runes("/"))
	for _, r := range "coffee" {
		a = update(t, a, runes(string(r)))
	}
	a = update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if got := len(a.txState.rows); got != 1 || a.txState.rows[0].Description != "coffee beans" {
		t.Fatalf("February coffee rows = %+v", a.txState.rows)
	}

	a = update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if got := len(a.txState.rows); got != 3 {
		t.Fatalf("rows after clearing filters = %d, want 3", got)
	}
}

func TestViewsRenderEveryTab(t *testing.T) {
	fixedNow(t)
	st := newTestStore(t, store.NewMemory())
	a := loadedApp(t, st)
	st.AddExpense(model.ExpenseInput{Amount: decimal.NewFromInt(30), Category: "1", Description: "Lunch", Date: "2024-03-14"})
	st.SetBudget(model.BudgetInput{Category: "1", Amount: decimal.NewFromInt(100), Period: model.Monthly})
	a = update(t, a, waitForState(a.updates)())

	wants := []string{"Spent in March 2024", "Lunch", "Food & Dining", "Budgets"}
	for tab, want := range wants {
		a.activeTab = tab
		view := a.View()
		if got := lipgloss.Height(view); got != a.height {
			t.Fatalf("tab %d view height = %d, want %d", tab, got, a.height)
		}
		if !strings.Contains(view, want) {
			t.Fatalf("tab %d view missing %q", tab, want)
		}
	}
}

func TestTooNarrow(t *testing.T) {
	a := App{width: 60, height: 20}
	if !strings.Contains(a.View(), "too narrow") {
		t.Fatal("narrow terminal should show the too-narrow message")
	}
}

func TestConfirmDeleteRespectsAnswer(t *testing.T) {
	called := false
	f := confirmDeleteForm("thing", func() { called = true })
	text, err := f.submit()
	if err != nil || called || text != "Kept thing" {
		t.Fatalf("unconfirmed delete: text=%q err=%v called=%v", text, err, called)
	}
}

func TestExpenseValuesInput(t *testing.T) {
	v := expenseValues{Amount: "12,50", Category: "1", Date: "2024-03-01", Description: "  Lunch "}
	in, err := v.input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if !in.Amount.Equal(decimal.RequireFromString("12.50")) || in.Description != "Lunch" {
		t.Fatalf("input = %+v", in)
	}

	v.Amount = "-3"
	if _, err := v.input(); !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("negative amount err = %v", err)
	}
	v.Amount, v.Date = "3", "03/01/2024"
	if _, err := v.input(); !errors.Is(err, model.ErrInvalidDate) {
		t.Fatalf("bad date err = %v", err)
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	if v.RecentCount != "5" || v.CurrencySymbol != "$" {
		t.Fatalf("SetupValuesFrom = %+v", v)
	}

	v.CurrencySymbol = " € "
	v.RecentCount = "10"
	v.Theme = "tokyo-night"
	if err := v.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.General.CurrencySymbol != "€" || cfg.General.RecentCount != 10 || cfg.Appearance.Theme != "tokyo-night" {
		t.Fatalf("config after Apply = %+v", cfg)
	}

	v.RecentCount = "0"
	if err := v.Apply(&cfg); err == nil {
		t.Fatal("Apply accepted recent count 0")
	}
}

func TestVisibleWindow(t *testing.T) {
	cases := []struct{ sel, n, visible, start, end int }{
		{0, 5, 10, 0, 5},
		{0, 20, 5, 0, 5},
		{10, 20, 5, 8, 13},
		{19, 20, 5, 15, 20},
	}
	for _, tc := range cases {
		start, end := visibleWindow(tc.sel, tc.n, tc.visible)
		if start != tc.start || end != tc.end {
			t.Fatalf("visibleWindow(%d, %d, %d) = %d,%d want %d,%d",
				tc.sel, tc.n, tc.visible, start, end, tc.start, tc.end)
		}
	}
}
