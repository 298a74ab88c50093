package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/tui/components"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a App) selectedCategory() (model.Category, bool) {
	cats := a.snap.Categories
	if len(cats) == 0 || a.catState.cursor >= len(cats) {
		return model.Category{}, false
	}
	return cats[a.catState.cursor], true
}

func (a App) updateCategoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys
	if a.updateList(&a.catState, len(a.snap.Categories), msg) {
		return a, nil
	}

	switch {
	case key.Matches(msg, k.Add):
		return a.openForm(a.addCategoryForm())
	case key.Matches(msg, k.Edit):
		if c, ok := a.selectedCategory(); ok {
			return a.openForm(a.editCategoryForm(c))
		}
	case key.Matches(msg, k.Delete):
		if c, ok := a.selectedCategory(); ok {
			return a.openForm(a.deleteCategoryForm(c))
		}
	}
	return a, nil
}

func (a App) renderCategoriesTab(cw, h int) string {
	t := theme.Active
	cats := a.snap.Categories
	title := fmt.Sprintf("Categories · %d", len(cats))

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(cats) == 0 {
		return components.ContentCard(title, muted.Render("No categories. Press a to add one."), cw)
	}

	month := a.dash.Summary.ByCategory
	counts := make(map[string]int, len(cats))
	for _, e := range a.snap.Expenses {
		counts[e.Category]++
	}

	innerW := components.CardInnerWidth(cw)
	nameW := min(28, innerW/3)
	colorW := 9
	monthW := 14
	countW := 10

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	header := "  " + padRight("Category", nameW) + " " +
		padRight("Colour", colorW) + " " +
		fmt.Sprintf("%*s", monthW, "This month") + " " +
		fmt.Sprintf("%*s", countW, "Expenses")

	lines := make([]string, 0, len(cats))
	for i, c := range cats {
		spent := formatMoney(month[c.ID])
		text := " " + padRight(c.Color, colorW) + " " +
			fmt.Sprintf("%*s", monthW, spent) + " " +
			fmt.Sprintf("%*d", countW, counts[c.ID])

		marker := " "
		style := rowStyle
		if i == a.catState.cursor {
			marker = "▸"
			style = selStyle
		}
		lines = append(lines, accent.Render(marker)+categoryLabel(c, nameW+1)+style.Render(text))
	}

	// card border (2) + title (1) + header (2)
	visible := max(h-5, 3)
	start, end := visibleWindow(a.catState.cursor, len(lines), visible)

	body := headerStyle.Render(header) + "\n" +
		muted.Render(strings.Repeat("─", min(lipgloss.Width(header), innerW))) + "\n" +
		strings.Join(lines[start:end], "\n")
	return components.ContentCard(title, body, cw)
}
