package cmd

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/state"
	"github.com/theirongolddev/tally/internal/tui"
	"github.com/theirongolddev/tally/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log to a file so records do not tear through the alt screen.
	level, _ := log.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = slog.LevelDebug
	}
	fileLogger, closer, err := log.OpenFile(config.LogPath(), level)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	tuiLogger := fileLogger.WithComponent(log.ComponentTUI)

	kv, err := openKV()
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()

	st, err := state.New(kv,
		state.WithLogger(fileLogger),
		state.WithResetOnCorrupt(cfg.Storage.ResetOnCorrupt),
	)
	if err != nil {
		return err
	}

	app := tui.NewApp(st, tui.Options{
		RecentCount: cfg.General.RecentCount,
		NeedSetup:   !config.Exists(),
		Config:      cfg,
		Logger:      tuiLogger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
