package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/tui/components"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// transactionsState holds the transactions tab state. rows is the filtered
// list in display order: latest date first, input order within a date.
type transactionsState struct {
	listState
	rows []model.Expense

	month     time.Time // zero shows every month
	query     string
	searching bool
	search    textinput.Model
}

func newTransactionsState() transactionsState {
	return transactionsState{search: newSearchInput()}
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "description..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40
	return ti
}

func (a App) transactionRows() []model.Expense {
	expenses := a.snap.Expenses
	if m := a.txState.month; !m.IsZero() {
		rng := pipeline.MonthRange(m.Year(), m.Month(), m.Location())
		expenses = pipeline.FilterByDateRange(expenses, rng.Start, rng.End)
	}
	if a.txState.query != "" {
		expenses = pipeline.SearchExpenses(expenses, a.txState.query)
	}

	rows := make([]model.Expense, 0, len(expenses))
	for _, g := range pipeline.GroupedByDateDescending(expenses) {
		rows = append(rows, g.Expenses...)
	}
	return rows
}

func (a App) selectedExpense() (model.Expense, bool) {
	rows := a.txState.rows
	if len(rows) == 0 || a.txState.cursor >= len(rows) {
		return model.Expense{}, false
	}
	return rows[a.txState.cursor], true
}

// shiftMonth moves the month filter by delta months, starting from the
// current month when no filter is set.
func (a *App) shiftMonth(delta int) {
	m := a.txState.month
	if m.IsZero() {
		n := now()
		m = time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, n.Location())
	}
	a.txState.month = m.AddDate(0, delta, 0)
	a.txState.cursor = 0
	a.recompute()
}

func (a App) updateTransactionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys
	if a.updateList(&a.txState.listState, len(a.txState.rows), msg) {
		return a, nil
	}

	switch {
	case key.Matches(msg, k.Add):
		return a.openFormOrFail(a.addExpenseForm())
	case key.Matches(msg, k.Edit):
		if e, ok := a.selectedExpense(); ok {
			return a.openForm(a.editExpenseForm(e))
		}
	case key.Matches(msg, k.Delete):
		if e, ok := a.selectedExpense(); ok {
			return a.openForm(a.deleteExpenseForm(e))
		}
	case key.Matches(msg, k.Search):
		a.txState.searching = true
		a.txState.search.SetValue(a.txState.query)
		a.txState.search.CursorEnd()
		return a, a.txState.search.Focus()
	case key.Matches(msg, k.Clear):
		a.txState.query = ""
		a.txState.month = time.Time{}
		a.txState.cursor = 0
		a.recompute()
	case key.Matches(msg, k.PrevMon):
		a.shiftMonth(-1)
	case key.Matches(msg, k.NextMon):
		a.shiftMonth(1)
	case key.Matches(msg, k.ThisMon):
		if a.txState.month.IsZero() {
			a.shiftMonth(0)
		} else {
			a.txState.month = time.Time{}
			a.recompute()
		}
	}
	return a, nil
}

// updateSearch handles key events while the search box has focus. The list
// filters as you type; esc drops the query.
func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.txState.searching = false
		a.txState.search.Blur()
		return a, nil
	case "esc":
		a.txState.searching = false
		a.txState.search.Blur()
		a.txState.search.SetValue("")
		a.txState.query = ""
		a.recompute()
		return a, nil
	}

	var cmd tea.Cmd
	a.txState.search, cmd = a.txState.search.Update(msg)
	if q := strings.TrimSpace(a.txState.search.Value()); q != a.txState.query {
		a.txState.query = q
		a.txState.cursor = 0
		a.recompute()
	}
	return a, cmd
}

func (a App) renderTransactionsTab(cw, h int) string {
	t := theme.Active
	ts := a.txState

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	// Filter line
	scope := "All months"
	if !ts.month.IsZero() {
		scope = ts.month.Format("January 2006")
	}
	filter := accent.Render(scope)
	switch {
	case ts.searching:
		filter += muted.Render("  ") + ts.search.View()
	case ts.query != "":
		filter += muted.Render("  matching ") + accent.Render(fmt.Sprintf("%q", ts.query))
	}

	total := pipeline.Summarize(ts.rows).Total
	title := fmt.Sprintf("Transactions · %d · %s", len(ts.rows), formatMoney(total))

	if len(ts.rows) == 0 {
		empty := "No transactions. Press a to add one."
		if ts.query != "" || !ts.month.IsZero() {
			empty = "Nothing matches. Press esc to clear filters."
		}
		return components.ContentCard(title, filter+"\n\n"+muted.Render(empty), cw)
	}

	innerW := components.CardInnerWidth(cw)
	amountW := 12
	catW := min(22, innerW/4)
	descW := max(innerW-amountW-catW-4, 10)

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	dateStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	// Date headers interleave with rows; track which line holds the cursor.
	var lines []string
	selLine := 0
	prevDate := ""
	for i, e := range ts.rows {
		if e.Date != prevDate {
			if prevDate != "" {
				lines = append(lines, "")
			}
			lines = append(lines, dateStyle.Render(cli.FormatDateLong(e.Date)))
			prevDate = e.Date
		}
		cat := model.ResolveCategory(a.snap.Categories, e.Category)
		desc := e.Description
		if desc == "" {
			desc = "—"
		}
		text := "  " + padRight(cli.Truncate(desc, descW-2), descW-2) + " " +
			padRight(cli.Truncate(cat.Name, catW), catW) + " " +
			fmt.Sprintf("%*s", amountW, formatMoney(e.Amount))

		style := rowStyle
		marker := " "
		if i == ts.cursor {
			style = selStyle
			marker = "▸"
			selLine = len(lines)
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color)).Background(t.Surface).Render("●")
		lines = append(lines, accent.Render(marker)+swatch+style.Render(text))
	}

	// card border (2) + title (1) + filter line (2)
	visible := max(h-5, 3)
	start, end := visibleWindow(selLine, len(lines), visible)

	body := filter + "\n\n" + strings.Join(lines[start:end], "\n")
	return components.ContentCard(title, body, cw)
}
