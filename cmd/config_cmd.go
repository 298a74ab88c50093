package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Fprintln(out, "  Status: loaded")
	} else {
		fmt.Fprintln(out, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [General]")
	fmt.Fprintf(out, "    Currency symbol:  %s\n", cfg.General.CurrencySymbol)
	fmt.Fprintf(out, "    Recent count:     %d\n", cfg.General.RecentCount)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Storage]")
	fmt.Fprintf(out, "    Backend:          %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendSQLite {
		path := cfg.DBPath()
		fmt.Fprintf(out, "    Database:         %s\n", path)
		fmt.Fprintf(out, "    Last saved:       %s\n", lastSaved(path))
	} else {
		fmt.Fprintln(out, "    Data is discarded when the command exits.")
	}
	fmt.Fprintf(out, "    Reset on corrupt: %v\n", cfg.Storage.ResetOnCorrupt)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Appearance]")
	fmt.Fprintf(out, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Log]")
	fmt.Fprintf(out, "    Level:    %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "    TUI log:  %s\n", config.LogPath())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Run `tally setup` to reconfigure.")
	return nil
}

// lastSaved reports when the expenses key was last written, without creating
// a database that does not exist yet.
func lastSaved(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "never (no database yet)"
	}
	kv, err := store.Open(path)
	if err != nil {
		return "unknown (" + err.Error() + ")"
	}
	defer func() { _ = kv.Close() }()

	var latest time.Time
	for _, k := range store.Keys {
		t, err := kv.UpdatedAt(k)
		if err == nil && t.After(latest) {
			latest = t
		}
	}
	return cli.FormatAgo(latest)
}
