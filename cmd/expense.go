package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/pipeline"
)

var (
	flagAmount   string
	flagCategory string
	flagDate     string
	flagDesc     string

	flagListMonth    string
	flagListCategory string
	flagListSearch   string
	flagListLimit    int
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Example: `  tally add --amount 12.50 --category food --desc "Lunch"
  tally add --amount 60 --category 2 --date 2025-01-09`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete an expense",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List expenses grouped by date, latest first",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVarP(&flagAmount, "amount", "a", "", "Amount, e.g. 12.50")
		c.Flags().StringVarP(&flagCategory, "category", "c", "", "Category id or name")
		c.Flags().StringVarP(&flagDate, "date", "d", "", "Date as YYYY-MM-DD (default today)")
		c.Flags().StringVar(&flagDesc, "desc", "", "Description")
	}
	_ = addCmd.MarkFlagRequired("amount")
	_ = addCmd.MarkFlagRequired("category")

	listCmd.Flags().StringVarP(&flagListMonth, "month", "m", "", "Only show this month (YYYY-MM)")
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Only show this category (id or name)")
	listCmd.Flags().StringVarP(&flagListSearch, "search", "s", "", "Only show descriptions containing this text")
	listCmd.Flags().IntVarP(&flagListLimit, "limit", "n", 0, "Show at most this many expenses (0 for all)")

	rootCmd.AddCommand(addCmd, editCmd, rmCmd, listCmd)
}

// now is the clock used for "today" and the current month.
var now = time.Now

func today() string {
	return model.FormatDate(now())
}

func runAdd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	amount, err := model.ParseAmount(flagAmount)
	if err != nil {
		return err
	}
	cat, err := resolveCategory(st.Snapshot().Categories, flagCategory)
	if err != nil {
		return err
	}
	date := flagDate
	if date == "" {
		date = today()
	}

	in := model.ExpenseInput{Amount: amount, Category: cat.ID, Description: flagDesc, Date: date}
	if err := in.Validate(); err != nil {
		return err
	}

	e := st.AddExpense(in)
	if err := checkPersisted(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Added %s  %s  %s on %s\n",
		e.ID, cli.FormatCurrency(e.Amount), cat.Name, cli.FormatDate(e.Date))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := st.Snapshot()
	e, ok := findExpense(snap.Expenses, args[0])
	if !ok {
		return fmt.Errorf("no expense with id %q", args[0])
	}

	in := e.Input()
	flags := cmd.Flags()
	if flags.Changed("amount") {
		if in.Amount, err = model.ParseAmount(flagAmount); err != nil {
			return err
		}
	}
	if flags.Changed("category") {
		cat, err := resolveCategory(snap.Categories, flagCategory)
		if err != nil {
			return err
		}
		in.Category = cat.ID
	}
	if flags.Changed("date") {
		in.Date = flagDate
	}
	if flags.Changed("desc") {
		in.Description = flagDesc
	}
	if err := in.Validate(); err != nil {
		return err
	}

	updated := in.WithID(e.ID)
	st.UpdateExpense(updated)
	if err := checkPersisted(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Updated %s  %s  %s on %s\n",
		updated.ID, cli.FormatCurrency(updated.Amount),
		model.ResolveCategory(snap.Categories, updated.Category).Name, cli.FormatDate(updated.Date))
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := st.Snapshot()
	e, ok := findExpense(snap.Expenses, args[0])
	if !ok {
		return fmt.Errorf("no expense with id %q", args[0])
	}

	prompt := fmt.Sprintf("Delete %s %s on %s (%s)?",
		cli.FormatCurrency(e.Amount),
		model.ResolveCategory(snap.Categories, e.Category).Name,
		cli.FormatDate(e.Date), describe(e))
	ok, err = confirm(cmd, prompt)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "  Cancelled.")
		return nil
	}

	st.DeleteExpense(e.ID)
	if err := checkPersisted(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Deleted %s\n", e.ID)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := st.Snapshot()
	expenses := snap.Expenses
	title := "ALL EXPENSES"

	if flagListMonth != "" {
		rng, err := pipeline.ParseMonth(flagListMonth)
		if err != nil {
			return err
		}
		expenses = pipeline.FilterByDateRange(expenses, rng.Start, rng.End)
		title = "EXPENSES  " + cli.FormatMonth(rng.Start)
	}
	if flagListCategory != "" {
		cat, err := resolveCategory(snap.Categories, flagListCategory)
		if err != nil {
			return err
		}
		expenses = pipeline.FilterByCategory(expenses, cat.ID)
	}
	expenses = pipeline.SearchExpenses(expenses, flagListSearch)
	if flagListLimit > 0 {
		expenses = pipeline.RecentExpenses(expenses, flagListLimit)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle(title))
	fmt.Fprintln(out)

	if len(expenses) == 0 {
		fmt.Fprintln(out, "  No expenses found.")
		return nil
	}

	var rows [][]string
	for i, g := range pipeline.GroupedByDateDescending(expenses) {
		if i > 0 {
			rows = append(rows, []string{"---"})
		}
		for j, e := range g.Expenses {
			date := ""
			if j == 0 {
				date = cli.FormatDate(g.Date)
			}
			rows = append(rows, []string{
				date,
				e.ID,
				categoryLabel(model.ResolveCategory(snap.Categories, e.Category)),
				cli.Truncate(describe(e), 32),
				cli.FormatCurrency(e.Amount),
			})
		}
	}

	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers:  []string{"Date", "ID", "Category", "Description", "Amount"},
		Rows:     rows,
		LeftCols: 4,
	}))
	total := pipeline.Summarize(expenses).Total
	fmt.Fprintf(out, "  %d expenses, %s total\n", len(expenses), cli.FormatCurrency(total))
	return nil
}

func findExpense(expenses []model.Expense, id string) (model.Expense, bool) {
	for _, e := range expenses {
		if e.ID == id {
			return e, true
		}
	}
	return model.Expense{}, false
}
