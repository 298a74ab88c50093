package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tally/internal/state"
	"github.com/theirongolddev/tally/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write all data as one JSON document (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge an exported JSON document into the current data",
	Long: "Import adds every expense and category from an export and sets every budget. " +
		"Categories whose name already exists are reused.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	var w io.Writer = cmd.OutOrStdout()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	snap := st.Snapshot()
	err = store.WriteDocument(w, store.Snapshot{
		Expenses:   snap.Expenses,
		Categories: snap.Categories,
		Budgets:    snap.Budgets,
	}, now())
	if err != nil {
		return err
	}
	if len(args) == 1 && args[0] != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "  Exported %d expenses, %d categories, %d budgets to %s\n",
			len(snap.Expenses), len(snap.Categories), len(snap.Budgets), args[0])
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := store.ReadDocument(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	res := state.Import(st, doc)
	if err := checkPersisted(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Imported %d expenses, %d new categories (%d matched existing), %d budgets\n",
		res.ExpensesAdded, res.CategoriesAdded, res.CategoriesMapped, res.BudgetsSet)
	if res.Skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "  Skipped %d invalid records\n", res.Skipped)
	}
	return nil
}
