package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/icon"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/tui/components"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	d := a.dash
	var b strings.Builder

	// Row 1: headline numbers for the month
	budgetValue := "not set"
	budgetDelta := "press 4 to add one"
	remainingValue := "—"
	var remainingColor lipgloss.Color
	if d.TotalBudget.IsPositive() {
		budgetValue = formatMoney(d.TotalBudget)
		budgetDelta = cli.FormatPercent(d.BudgetProgress) + " used"
		remaining := d.TotalBudget.Sub(d.Summary.Total)
		remainingValue = formatMoney(remaining)
		remainingColor = components.LevelColor(d.BudgetLevel)
	}

	cards := []components.Metric{
		{Label: "Spent in " + cli.FormatMonth(d.Range.Start), Value: formatMoney(d.Summary.Total), Color: t.AccentBright},
		{Label: "Budget", Value: budgetValue, Delta: budgetDelta},
		{Label: "Remaining", Value: remainingValue, Color: remainingColor},
		{Label: "Transactions", Value: strconv.Itoa(len(d.MonthExpenses)), Delta: fmt.Sprintf("%d all time", len(a.snap.Expenses))},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: budget progress
	if d.TotalBudget.IsPositive() {
		barW := components.CardInnerWidth(cw) - 6
		body := components.BudgetBar(d.BudgetProgress, d.BudgetLevel, barW)
		b.WriteString(components.ContentCard("Monthly Budget", body, cw))
		b.WriteString("\n")
	}

	// Row 3: daily spending chart
	if len(d.Daily) > 0 {
		b.WriteString(components.ContentCard(
			"Daily Spending",
			a.renderDailyChart(components.CardInnerWidth(cw)),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 4: top categories + recent transactions
	if a.isCompactLayout() {
		b.WriteString(a.renderTopCategoriesCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderRecentCard(cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			a.renderTopCategoriesCard(halves[0]),
			a.renderRecentCard(halves[1]),
		}))
	}

	return b.String()
}

func (a App) renderDailyChart(innerW int) string {
	t := theme.Active
	daily := a.dash.Daily

	// Future days of the month stay off the chart.
	todayISO := today()
	values := make([]float64, 0, len(daily))
	labels := make([]string, 0, len(daily))
	for _, day := range daily {
		if day.Date > todayISO {
			break
		}
		v, _ := day.Total.Float64()
		values = append(values, v)
		labels = append(labels, strings.TrimLeft(day.Date[8:], "0"))
	}
	if len(values) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No spending yet this month")
	}
	return components.ColumnChart(values, labels, t.Blue, innerW, 6)
}

func (a App) renderTopCategoriesCard(w int) string {
	t := theme.Active
	top := a.dash.TopCategories
	title := "Top Categories"

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(top) == 0 {
		return components.ContentCard(title, muted.Render("No expenses this month"), w)
	}

	innerW := components.CardInnerWidth(w)
	nameW := min(22, innerW/3)
	amountW := 12
	barW := max(innerW-nameW-amountW-9, 4)
	maxShare := top[0].Share

	var body strings.Builder
	for i, ct := range top {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(categoryLabel(ct.Category, nameW))
		body.WriteString(muted.Render(" "))
		body.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).
			Render(fmt.Sprintf("%*s", amountW, formatMoney(ct.Amount))))
		body.WriteString(muted.Render(" "))
		body.WriteString(components.ShareBar(ct.Share, maxShare, barW, lipgloss.Color(ct.Category.Color)))
		body.WriteString(muted.Render(fmt.Sprintf(" %6s", cli.FormatShare(ct.Share))))
	}
	return components.ContentCard(title, body.String(), w)
}

func (a App) renderRecentCard(w int) string {
	t := theme.Active
	recent := a.dash.Recent
	title := "Recent Transactions"

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(recent) == 0 {
		return components.ContentCard(title, muted.Render("No transactions yet. Press a to add one."), w)
	}

	innerW := components.CardInnerWidth(w)
	dateW := 12
	amountW := 12
	descW := max(innerW-dateW-amountW-4, 8)

	var body strings.Builder
	for i, e := range recent {
		if i > 0 {
			body.WriteString("\n")
		}
		cat := model.ResolveCategory(a.snap.Categories, e.Category)
		body.WriteString(muted.Render(fmt.Sprintf("%-*s", dateW, cli.FormatDate(e.Date))))
		body.WriteString(muted.Render(" "))
		body.WriteString(expenseLabel(e, cat, descW))
		body.WriteString(muted.Render(" "))
		body.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true).
			Render(fmt.Sprintf("%*s", amountW, formatMoney(e.Amount))))
	}
	return components.ContentCard(title, body.String(), w)
}

// categoryLabel renders a colour swatch, icon and name padded to w columns.
func categoryLabel(c model.Category, w int) string {
	t := theme.Active
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Background(t.Surface).Render("●")
	name := cli.Truncate(icon.Glyph(c.Icon)+" "+c.Name, max(w-2, 1))
	return swatch + lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).
		Render(" "+padRight(name, max(w-2, 1)))
}

// expenseLabel is the description, or the category name when there is none,
// padded to w columns.
func expenseLabel(e model.Expense, c model.Category, w int) string {
	t := theme.Active
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Background(t.Surface).Render("●")
	text := e.Description
	if text == "" {
		text = c.Name
	}
	text = cli.Truncate(text, max(w-2, 1))
	return swatch + lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).
		Render(" "+padRight(text, max(w-2, 1)))
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

