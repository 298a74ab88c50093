package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/pipeline"
)

var (
	flagBudgetCategory string
	flagBudgetAmount   string
	flagBudgetPeriod   string
)

var budgetCmd = &cobra.Command{
	Use:     "budget",
	Aliases: []string{"budgets"},
	Short:   "Manage budgets",
	RunE:    runBudgetList,
}

var budgetListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show budgets with this month's progress",
	Args:  cobra.NoArgs,
	RunE:  runBudgetList,
}

var budgetSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace the budget for a category",
	Long: "Set the budget for a category. A category has at most one budget; " +
		"setting it again replaces the amount and period.",
	Example: `  tally budget set --category food --amount 400
  tally budget set --category Housing --amount 18000 --period yearly`,
	Args: cobra.NoArgs,
	RunE: runBudgetSet,
}

var budgetEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a budget's amount or period",
	Long: "Change a budget's amount or period. The category stays fixed; " +
		"use `tally budget set` to budget a different category.",
	Args: cobra.ExactArgs(1),
	RunE: runBudgetEdit,
}

var budgetRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a budget",
	Args:    cobra.ExactArgs(1),
	RunE:    runBudgetRm,
}

func init() {
	budgetSetCmd.Flags().StringVarP(&flagBudgetCategory, "category", "c", "", "Category id or name")
	for _, c := range []*cobra.Command{budgetSetCmd, budgetEditCmd} {
		c.Flags().StringVarP(&flagBudgetAmount, "amount", "a", "", "Budget amount")
		c.Flags().StringVarP(&flagBudgetPeriod, "period", "p", string(model.Monthly), "monthly or yearly")
	}
	_ = budgetSetCmd.MarkFlagRequired("category")
	_ = budgetSetCmd.MarkFlagRequired("amount")

	budgetCmd.AddCommand(budgetListCmd, budgetSetCmd, budgetEditCmd, budgetRmCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetList(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := st.Snapshot()
	rng := pipeline.CurrentMonthRange(now())
	month := pipeline.FilterByDateRange(snap.Expenses, rng.Start, rng.End)
	statuses := pipeline.BudgetStatuses(snap.Budgets, snap.Categories, month)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle("BUDGETS  "+cli.FormatMonth(rng.Start)))
	fmt.Fprintln(out)

	if len(statuses) == 0 {
		fmt.Fprintln(out, "  No budgets found. Set one with `tally budget set --category food --amount 400`.")
		return nil
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{
			s.Budget.ID,
			categoryLabel(s.Category),
			s.Budget.Period.Label(),
			cli.FormatCurrency(s.Spent),
			cli.FormatCurrency(s.Budget.Amount),
			cli.RenderProgressBar(s.Percent, s.Level, 12),
		})
	}
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Category", "Period", "Spent", "Budget", "Used"},
		Rows:     rows,
		LeftCols: 3,
	}))
	fmt.Fprintf(out, "  Total budget %s\n", cli.FormatCurrency(pipeline.TotalBudget(snap.Budgets)))
	return nil
}

func runBudgetSet(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	cat, err := resolveCategory(st.Snapshot().Categories, flagBudgetCategory)
	if err != nil {
		return err
	}
	amount, err := model.ParseAmount(flagBudgetAmount)
	if err != nil {
		return err
	}
	period, err := model.ParsePeriod(flagBudgetPeriod)
	if err != nil {
		return err
	}
	in := model.BudgetInput{Category: cat.ID, Amount: amount, Period: period}
	if err := in.Validate(); err != nil {
		return err
	}

	b := st.SetBudget(in)
	if err := checkPersisted(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Budget %s  %s %s for %s\n",
		b.ID, cli.FormatCurrency(b.Amount), period, cat.Name)
	return nil
}

func runBudgetEdit(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := st.Snapshot()
	b, ok := findBudget(snap.Budgets, args[0])
	if !ok {
		return fmt.Errorf("no budget with id %q", args[0])
	}

	in := model.BudgetInput{Category: b.Category, Amount: b.Amount, Period: b.Period}
	flags := cmd.Flags()
	if flags.Changed("amount") {
		if in.Amount, err = model.ParseAmount(flagBudgetAmount); err != nil {
			return err
		}
	}
	if flags.Changed("period") {
		if in.Period, err = model.ParsePeriod(flagBudgetPeriod); err != nil {
			return err
		}
	}
	if err := in.Validate(); err != nil {
		return err
	}

	updated := in.WithID(b.ID)
	st.UpdateBudget(updated)
	if err := checkPersisted(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Updated budget %s  %s %s for %s\n",
		updated.ID, cli.FormatCurrency(updated.Amount), updated.Period,
		model.ResolveCategory(snap.Categories, updated.Category).Name)
	return nil
}

func runBudgetRm(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := st.Snapshot()
	b, ok := findBudget(snap.Budgets, args[0])
	if !ok {
		return fmt.Errorf("no budget with id %q", args[0])
	}

	ok, err = confirm(cmd, fmt.Sprintf("Delete the %s budget of %s for %s?",
		b.Period, cli.FormatCurrency(b.Amount), model.ResolveCategory(snap.Categories, b.Category).Name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "  Cancelled.")
		return nil
	}

	st.DeleteBudget(b.ID)
	if err := checkPersisted(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Deleted budget %s\n", b.ID)
	return nil
}

func findBudget(budgets []model.Budget, id string) (model.Budget, bool) {
	for _, b := range budgets {
		if b.ID == id {
			return b, true
		}
	}
	return model.Budget{}, false
}
