// Package tui provides the interactive Bubble Tea dashboard for tally.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/state"
	"github.com/theirongolddev/tally/internal/tui/components"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// LoadedMsg is sent when the store's initial load finishes.
type LoadedMsg struct {
	Err      error
	LoadTime time.Duration
}

// StateChangedMsg carries a snapshot the store published after a change.
type StateChangedMsg struct {
	State state.State
}

// Options configures NewApp.
type Options struct {
	RecentCount int
	NeedSetup   bool
	Config      config.Config
	Logger      *log.Logger
}

// App is the root Bubble Tea model.
type App struct {
	store  *state.Store
	log    *log.Logger
	cfg    config.Config
	recent *int

	// Data
	snap     state.State
	dash     pipeline.Dashboard
	loaded   bool
	loadErr  error
	loadTime time.Duration
	updates  chan state.State

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	keys      keyMap

	// Per-tab state
	txState  transactionsState
	catState listState
	budState listState

	// Form overlay; first-run setup is opened once loading finishes.
	form      *activeForm
	needSetup bool

	status    string
	statusErr bool

	spinner spinner.Model
}

const (
	tabDashboard = iota
	tabTransactions
	tabCategories
	tabBudgets
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5
)

// now is swapped in tests.
var now = time.Now

func today() string {
	return model.FormatDate(now())
}

func formatMoney(d decimal.Decimal) string {
	return cli.FormatCurrency(d)
}

func setCurrency(symbol string) {
	cli.CurrencySymbol = symbol
}

// NewApp creates the dashboard model over st. The store must not have been
// loaded yet; Init loads it.
func NewApp(st *state.Store, opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	recent := opts.RecentCount
	if recent <= 0 {
		recent = pipeline.DefaultRecentCount
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	updates := make(chan state.State, 1)
	st.Subscribe(forwardLatest(updates))

	return App{
		store:     st,
		log:       logger,
		cfg:       opts.Config,
		recent:    &recent,
		snap:      state.Initial(),
		updates:   updates,
		keys:      defaultKeyMap(),
		txState:   newTransactionsState(),
		needSetup: opts.NeedSetup,
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadCmd(a.store),
		a.spinner.Tick,
		waitForState(a.updates),
	)
}

// loadCmd runs the store's initial load off the UI goroutine.
func loadCmd(st *state.Store) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := st.LoadInitial()
		return LoadedMsg{Err: err, LoadTime: time.Since(start)}
	}
}

// forwardLatest returns a store listener that keeps only the newest snapshot
// in ch. Listeners run on the mutating goroutine, usually Update itself, so it
// never blocks.
func forwardLatest(ch chan state.State) func(state.State) {
	return func(s state.State) {
		for {
			select {
			case ch <- s:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}

// waitForState blocks until the store publishes the next snapshot.
func waitForState(ch chan state.State) tea.Cmd {
	return func() tea.Msg {
		return StateChangedMsg{State: <-ch}
	}
}

// apply replaces the snapshot and recomputes everything derived from it.
func (a *App) apply(s state.State) {
	a.snap = s
	a.recompute()
}

func (a *App) recompute() {
	a.dash = pipeline.BuildDashboard(a.snap.Expenses, a.snap.Categories, a.snap.Budgets, now(), *a.recent)
	a.txState.rows = a.transactionRows()
	a.txState.clamp(len(a.txState.rows))
	a.catState.clamp(len(a.snap.Categories))
	a.budState.clamp(len(a.dash.Budgets))
}

func (a *App) setStatus(text string, err error) {
	if err != nil {
		a.status = err.Error()
		a.statusErr = true
		a.log.Warn("action failed", log.FieldError, err)
		return
	}
	a.status = text
	a.statusErr = false
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.form != nil || a.showHelp {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case LoadedMsg:
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			a.log.Error("initial load failed", log.FieldOperation, log.OpLoad, log.FieldError, msg.Err)
			return a, nil
		}
		a.loaded = true
		a.apply(a.store.Snapshot())
		a.setStatus(fmt.Sprintf("Loaded %d expenses in %s", len(a.snap.Expenses), msg.LoadTime.Round(time.Millisecond)), nil)
		a.log.Info("dashboard ready",
			log.FieldOperation, log.OpLoad,
			log.FieldCount, len(a.snap.Expenses),
			"elapsed", msg.LoadTime)

		if a.needSetup {
			a.needSetup = false
			return a.openForm(a.setupForm())
		}
		return a, nil

	case StateChangedMsg:
		if !msg.State.IsLoading {
			a.apply(msg.State)
		}
		return a, waitForState(a.updates)

	case spinner.TickMsg:
		if !a.loaded && a.loadErr == nil {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward everything else (cursor blinks etc.) to whatever has focus.
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.txState.searching {
		var cmd tea.Cmd
		a.txState.search, cmd = a.txState.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys

	if key.Matches(msg, k.ForceOut) {
		return a, tea.Quit
	}

	if !a.loaded {
		if a.loadErr != nil && (key.Matches(msg, k.Quit) || key.Matches(msg, k.Clear)) {
			return a, tea.Quit
		}
		return a, nil
	}

	// Forms intercept all keys; esc closes them without saving.
	if a.form != nil {
		if key.Matches(msg, k.Clear) {
			a.form = nil
			a.setStatus("Cancelled", nil)
			return a, nil
		}
		return a.updateForm(msg)
	}

	if a.activeTab == tabTransactions && a.txState.searching {
		return a.updateSearch(msg)
	}

	if key.Matches(msg, k.Help) {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch {
	case key.Matches(msg, k.Quit):
		return a, tea.Quit
	case key.Matches(msg, k.NextTab):
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case key.Matches(msg, k.PrevTab):
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case tabDashboard:
		if key.Matches(msg, k.Add) {
			return a.openFormOrFail(a.addExpenseForm())
		}
	case tabTransactions:
		return a.updateTransactionsKey(msg)
	case tabCategories:
		return a.updateCategoriesKey(msg)
	case tabBudgets:
		return a.updateBudgetsKey(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// moveCursor moves the selection on the active list tab.
func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabTransactions:
		a.txState.move(delta, len(a.txState.rows))
	case tabCategories:
		a.catState.move(delta, len(a.snap.Categories))
	case tabBudgets:
		a.budState.move(delta, len(a.dash.Budgets))
	}
}

// updateList applies the navigation keys shared by every list tab. It reports
// whether msg was one of them.
func (a App) updateList(l *listState, n int, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, a.keys.Up):
		l.move(-1, n)
	case key.Matches(msg, a.keys.Down):
		l.move(1, n)
	case key.Matches(msg, a.keys.Top):
		l.cursor = 0
	case key.Matches(msg, a.keys.Bottom):
		l.cursor = max(n-1, 0)
	default:
		return false
	}
	return true
}

func (a App) openForm(f *activeForm) (tea.Model, tea.Cmd) {
	a.form = f
	a.status = ""
	a.statusErr = false
	return a, f.form.Init()
}

func (a App) openFormOrFail(f *activeForm, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		a.setStatus("", err)
		return a, nil
	}
	return a.openForm(f)
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.form.form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		a.form.form = f
	}

	switch a.form.form.State {
	case huh.StateCompleted:
		done := a.form
		a.form = nil
		text, err := done.submit()
		if err == nil {
			if perr := a.store.PersistErr(); perr != nil {
				err = fmt.Errorf("change kept in memory only: %w", perr)
			}
		}
		a.setStatus(text, err)
		return a, nil
	case huh.StateAborted:
		a.form = nil
		a.setStatus("Cancelled", nil)
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.loadErr != nil {
		return a.viewLoadError()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.form != nil {
		return a.viewForm()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  tally needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

// centerCard renders body in an accent-bordered card centred on the screen.
func (a App) centerCard(body string, padV, padH int) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(padV, padH).
		Render(body)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ tally"))
	b.WriteString(subtitleStyle.Render(" · expenses & budgets"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading your data..."))

	return a.centerCard(b.String(), 2, 4)
}

func (a App) viewLoadError() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(min(a.width-12, 70))
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Could not load your data"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.loadErr.Error()))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Run with --reset-corrupt to start over from defaults."))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Press q to quit"))

	return a.centerCard(b.String(), 1, 3)
}

func (a App) viewForm() string {
	return a.centerCard(a.form.form.View(), 1, 2)
}

func (a App) viewHelp() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Tabs"))
	b.WriteString("\n")
	for _, tab := range components.Tabs {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10c", tab.Key)),
			descStyle.Render(tab.Name))
	}

	for _, sec := range a.keys.helpSections() {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			h := bind.Help()
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", h.Key)),
				descStyle.Render(h.Desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return a.centerCard(b.String(), 1, 3)
}

// tabHints are the status-bar hints for each tab.
var tabHints = [...]string{
	tabDashboard:    "[a]dd expense  [1-4]tabs  [?]help  [q]uit",
	tabTransactions: "[a]dd  [e]dit  [d]elete  [/]search  [ ]month  [?]help",
	tabCategories:   "[a]dd  [e]dit  [d]elete  [?]help  [q]uit",
	tabBudgets:      "[a] set  [e]dit  [d]elete  [?]help  [q]uit",
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, tabHints[a.activeTab], a.status, a.statusErr)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabTransactions:
		content = a.renderTransactionsTab(cw, contentH)
	case tabCategories:
		content = a.renderCategoriesTab(cw, contentH)
	case tabBudgets:
		content = a.renderBudgetsTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
