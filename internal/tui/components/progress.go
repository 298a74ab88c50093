package components

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// LevelColor returns green/yellow/red for a budget level.
func LevelColor(l pipeline.Level) lipgloss.Color {
	t := theme.Active
	switch l {
	case pipeline.LevelOver:
		return t.Red
	case pipeline.LevelWarning:
		return t.Yellow
	default:
		return t.Green
	}
}

// BudgetBar renders a solid bar for pct (0..100) coloured by level, followed
// by the percentage.
func BudgetBar(pct int, level pipeline.Level, width int) string {
	t := theme.Active

	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if width < 4 {
		width = 4
	}

	color := LevelColor(level)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(float64(pct)/100) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3d%%", pct))
}

// ShareBar renders a horizontal bar proportional to value/maxValue.
func ShareBar(value, maxValue float64, width int, color lipgloss.Color) string {
	t := theme.Active
	if width < 1 || maxValue <= 0 || value <= 0 {
		return ""
	}
	frac := value / maxValue
	if frac > 1 {
		frac = 1
	}
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.Full = '█'
	bar.Empty = ' '
	bar.EmptyColor = string(t.Surface)
	return bar.ViewAs(frac)
}
