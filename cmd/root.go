// Package cmd implements the tally CLI commands.
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/state"
	"github.com/theirongolddev/tally/internal/store"
)

var (
	flagDB           string
	flagBackend      string
	flagResetCorrupt bool
	flagQuiet        bool
	flagVerbose      bool
	flagYes          bool
)

// cfg and logger are set by the root PersistentPreRunE before any command runs.
var (
	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Personal expense tracker",
	Long:  "Record expenses, organize them into categories, set budgets and see where the money goes.",
	RunE:  runSummary,

	PersistentPreRunE: loadEnvironment,
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database file (overrides config and TALLY_DB)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&flagResetCorrupt, "reset-corrupt", false, "Replace unreadable stored data with defaults")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
}

// loadEnvironment loads .env, the config file and flag overrides, then builds the logger.
func loadEnvironment(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	c, err := config.Load()
	if err != nil {
		return err
	}
	if flagDB != "" {
		c.Storage.Path = flagDB
	}
	if flagBackend != "" {
		c.Storage.Backend = strings.ToLower(flagBackend)
	}
	if flagResetCorrupt {
		c.Storage.ResetOnCorrupt = true
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	cli.CurrencySymbol = cfg.General.CurrencySymbol

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch {
	case flagVerbose:
		level = slog.LevelDebug
	case flagQuiet:
		level = slog.LevelError
	}
	logger = log.New(log.Config{Level: level, Component: log.ComponentCLI, Output: cmd.ErrOrStderr()})
	log.SetDefault(logger)
	return nil
}

// openKV opens the configured storage backend.
func openKV() (store.KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Debug("using in-memory storage", log.FieldBackend, config.BackendMemory)
		return store.NewMemory(), nil
	default:
		path := cfg.DBPath()
		logger.Debug("opening database", log.FieldBackend, config.BackendSQLite, log.FieldPath, path)
		kv, err := store.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
		return kv, nil
	}
}

// openStore is the shared loading path used by all commands. The returned
// close function releases the storage backend.
func openStore() (*state.Store, func(), error) {
	kv, err := openKV()
	if err != nil {
		return nil, nil, err
	}
	closeKV := func() { _ = kv.Close() }

	st, err := state.New(kv,
		state.WithLogger(logger),
		state.WithResetOnCorrupt(cfg.Storage.ResetOnCorrupt),
	)
	if err != nil {
		closeKV()
		return nil, nil, err
	}
	if err := st.LoadInitial(); err != nil {
		closeKV()
		if errors.Is(err, store.ErrCorrupt) {
			return nil, nil, fmt.Errorf("%w (run with --reset-corrupt to replace it with defaults)", err)
		}
		return nil, nil, err
	}
	return st, closeKV, nil
}

// checkPersisted turns a failed durable write into a command error.
func checkPersisted(st *state.Store) error {
	if err := st.PersistErr(); err != nil {
		return fmt.Errorf("change applied but not saved: %w", err)
	}
	return nil
}

// confirm asks a yes/no question on the command's input. --yes skips it.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	if flagYes {
		return true, nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s [y/N] ", prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// resolveCategory accepts a category id or a case-insensitive name.
func resolveCategory(categories []model.Category, arg string) (model.Category, error) {
	c, ok := model.FindCategory(categories, strings.TrimSpace(arg))
	if !ok {
		return model.Category{}, fmt.Errorf("unknown category %q (see `tally category list`)", arg)
	}
	return c, nil
}
