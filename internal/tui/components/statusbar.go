package components

import (
	"strings"

	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left, the
// last status message on the right. isErr colours the message red.
func RenderStatusBar(width int, hints, message string, isErr bool) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	msgStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	if isErr {
		msgStyle = msgStyle.Foreground(t.Red).Bold(true)
	}

	left := base.Render(" " + hints)
	right := ""
	if message != "" {
		right = msgStyle.Render(message + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		// Hints yield to the message on narrow terminals.
		left = base.Render(" [?]help  [q]uit")
		padding = max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	}

	return left + base.Render(strings.Repeat(" ", padding)) + right
}
