package tui

// listState is the selection on a list tab.
type listState struct {
	cursor int
}

func (l *listState) move(delta, n int) {
	l.cursor += delta
	l.clamp(n)
}

// clamp keeps the cursor on a valid row after the list shrinks.
func (l *listState) clamp(n int) {
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// visibleWindow returns the [start, end) slice of n lines to draw so that
// line sel stays on screen, keeping it roughly centred.
func visibleWindow(sel, n, visible int) (int, int) {
	if visible <= 0 || n <= visible {
		return 0, n
	}
	start := sel - visible/2
	start = max(0, min(start, n-visible))
	return start, start + visible
}
