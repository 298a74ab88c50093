package components

import (
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs, in order.
var Tabs = []Tab{
	{Name: "Dashboard", Key: '1'},
	{Name: "Transactions", Key: '2'},
	{Name: "Categories", Key: '3'},
	{Name: "Budgets", Key: '4'},
}

// tabHPad is the horizontal padding on each side of a tab label.
const tabHPad = 1

func tabLabel(tab Tab, active bool) string {
	if active {
		return tab.Name
	}
	return string(tab.Key) + " " + tab.Name
}

// TabVisualWidth returns the rendered width of a tab. Mouse hit-testing uses
// it, so it must agree with RenderTabBar.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tabLabel(tab, active)) + 2*tabHPad
}

// RenderTabBar renders the single-row tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, tabHPad)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, tabHPad)

	sepStyle := lipgloss.NewStyle().
		Foreground(t.Border).
		Background(t.Surface)

	var row string
	for i, tab := range Tabs {
		if i > 0 {
			row += sepStyle.Render("│")
		}
		if i == activeIdx {
			row += activeStyle.Render(tabLabel(tab, true))
		} else {
			row += inactiveStyle.Render(tabLabel(tab, false))
		}
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
