package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}

	return style.Render(buf.String())
}

// ColumnChart renders one column per value, height rows tall, with a y-axis
// showing the peak and an x-axis row of labels. labels may be nil; a label
// wider than its column is dropped. When there are more values than fit,
// it falls back to a sparkline.
func ColumnChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	top := ChartLabel(peak)
	axisW := max(len(top), 1) + 1

	n := len(values)
	colW := (width - axisW - 1) / n
	if colW < 1 || height < 3 {
		return Sparkline(values, color)
	}
	colW = min(colW, 4)
	barW := max(colW-1, 1)

	if peak == 0 {
		peak = 1
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	eighths := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		label := ""
		if row == height {
			label = top
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", axisW, label)))
		for _, v := range values {
			filled := v / peak * float64(height)
			var cell string
			switch {
			case filled >= float64(row):
				cell = barStyle.Render(strings.Repeat("█", barW))
			case filled > float64(row-1):
				idx := int((filled - float64(row-1)) * 8)
				idx = max(1, min(idx, 8))
				cell = barStyle.Render(strings.Repeat(string(eighths[idx]), barW))
			default:
				cell = blank.Render(strings.Repeat(" ", barW))
			}
			b.WriteString(cell)
			b.WriteString(blank.Render(strings.Repeat(" ", colW-barW)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", n*colW))))

	if len(labels) == n {
		// Space labels so they never collide.
		step := 1
		for _, l := range labels {
			step = max(step, (len(l)+colW)/colW)
		}
		row := []byte(strings.Repeat(" ", n*colW+len(labels[n-1])))
		for i := 0; i < n; i += step {
			copy(row[i*colW:], labels[i])
		}
		b.WriteString("\n")
		b.WriteString(axisStyle.Render(strings.Repeat(" ", axisW+1) + strings.TrimRight(string(row), " ")))
	}

	return b.String()
}

// ChartLabel compacts an axis value: 950, 1.2k, 3M.
func ChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 1 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
