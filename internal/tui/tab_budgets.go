package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/tui/components"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a App) selectedBudget() (pipeline.BudgetStatus, bool) {
	statuses := a.dash.Budgets
	if len(statuses) == 0 || a.budState.cursor >= len(statuses) {
		return pipeline.BudgetStatus{}, false
	}
	return statuses[a.budState.cursor], true
}

func (a App) updateBudgetsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys
	if a.updateList(&a.budState, len(a.dash.Budgets), msg) {
		return a, nil
	}

	switch {
	case key.Matches(msg, k.Add):
		return a.openFormOrFail(a.setBudgetForm())
	case key.Matches(msg, k.Edit):
		if bs, ok := a.selectedBudget(); ok {
			return a.openForm(a.editBudgetForm(bs.Budget))
		}
	case key.Matches(msg, k.Delete):
		if bs, ok := a.selectedBudget(); ok {
			return a.openForm(a.deleteBudgetForm(bs.Budget))
		}
	}
	return a, nil
}

// levelText names a budget level in the status column.
func levelText(l pipeline.Level) string {
	switch l {
	case pipeline.LevelOver:
		return "over"
	case pipeline.LevelWarning:
		return "close"
	default:
		return "ok"
	}
}

func (a App) renderBudgetsTab(cw, h int) string {
	t := theme.Active
	d := a.dash
	title := "Budgets · " + cli.FormatMonth(d.Range.Start)

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(d.Budgets) == 0 {
		return components.ContentCard(title, muted.Render("No budgets. Press a to set one."), cw)
	}

	var b strings.Builder

	// Overall progress against the summed budgets.
	summary := fmt.Sprintf("Spent %s of %s", formatMoney(d.Summary.Total), formatMoney(d.TotalBudget))
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true).Render(summary))
	b.WriteString("\n")
	b.WriteString(components.BudgetBar(d.BudgetProgress, d.BudgetLevel, max(components.CardInnerWidth(cw)-6, 10)))
	b.WriteString("\n\n")

	innerW := components.CardInnerWidth(cw)
	nameW := min(24, innerW/4)
	periodW := 8
	moneyW := 12
	statusW := 6
	barW := max(innerW-nameW-periodW-3*moneyW-statusW-14, 8)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	header := "  " + padRight("Category", nameW) + " " +
		padRight("Period", periodW) + " " +
		fmt.Sprintf("%*s %*s %*s", moneyW, "Budget", moneyW, "Spent", moneyW, "Left") + "  " +
		padRight("Progress", barW+5) + " " +
		"Status"
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	lines := make([]string, 0, len(d.Budgets))
	for i, bs := range d.Budgets {
		text := " " + padRight(bs.Budget.Period.Label(), periodW) + " " +
			fmt.Sprintf("%*s %*s %*s", moneyW, formatMoney(bs.Budget.Amount),
				moneyW, formatMoney(bs.Spent), moneyW, formatMoney(bs.Remaining)) + "  "

		marker := " "
		style := rowStyle
		if i == a.budState.cursor {
			marker = "▸"
			style = selStyle
		}
		status := lipgloss.NewStyle().Foreground(components.LevelColor(bs.Level)).Background(t.Surface).Bold(true).
			Render(" " + levelText(bs.Level))
		lines = append(lines, accent.Render(marker)+
			categoryLabel(bs.Category, nameW+1)+
			style.Render(text)+
			components.BudgetBar(bs.Percent, bs.Level, barW)+
			status)
	}

	// card border (2) + title (1) + overview (3) + header (1)
	visible := max(h-7, 3)
	start, end := visibleWindow(a.budState.cursor, len(lines), visible)
	b.WriteString(strings.Join(lines[start:end], "\n"))

	return components.ContentCard(title, b.String(), cw)
}
