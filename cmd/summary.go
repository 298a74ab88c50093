package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/icon"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "This month's spending, budget progress and recent transactions",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := st.Snapshot()
	d := pipeline.BuildDashboard(snap.Expenses, snap.Categories, snap.Budgets, now(), cfg.General.RecentCount)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle("SPENDING  "+cli.FormatMonth(d.Range.Start)))
	fmt.Fprintln(out)

	if len(snap.Expenses) == 0 {
		fmt.Fprintln(out, "  No expenses recorded yet.")
		fmt.Fprintln(out, "  Add one with `tally add --amount 12.50 --category food`.")
		return nil
	}

	rows := [][]string{
		{"Spent this month", cli.FormatCurrency(d.Summary.Total)},
		{"Transactions", fmt.Sprintf("%d", len(d.MonthExpenses))},
	}
	if d.TotalBudget.IsPositive() {
		rows = append(rows,
			[]string{"---"},
			[]string{"Total budget", cli.FormatCurrency(d.TotalBudget)},
			[]string{"Remaining", cli.FormatCurrency(d.TotalBudget.Sub(d.Summary.Total))},
		)
	}
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if d.TotalBudget.IsPositive() {
		fmt.Fprintf(out, "\n  Budget used  %s\n", cli.RenderProgressBar(d.BudgetProgress, d.BudgetLevel, 30))
	}

	if len(d.TopCategories) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, renderCategoryTotals("Top Categories", d.TopCategories))
	}

	if len(d.Recent) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, renderExpenseTable("Recent Transactions", d.Recent, snap.Categories))
	}
	return nil
}

func renderCategoryTotals(title string, totals []pipeline.CategoryTotal) string {
	rows := make([][]string, 0, len(totals))
	for _, ct := range totals {
		rows = append(rows, []string{
			categoryLabel(ct.Category),
			cli.FormatCurrency(ct.Amount),
			cli.FormatShare(ct.Share),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Category", "Spent", "Share"},
		Rows:    rows,
	})
}

func renderExpenseTable(title string, expenses []model.Expense, categories []model.Category) string {
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			cli.FormatDate(e.Date),
			e.ID,
			categoryLabel(model.ResolveCategory(categories, e.Category)),
			cli.Truncate(describe(e), 32),
			cli.FormatCurrency(e.Amount),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:    title,
		Headers:  []string{"Date", "ID", "Category", "Description", "Amount"},
		Rows:     rows,
		LeftCols: 4,
	})
}

func categoryLabel(c model.Category) string {
	return cli.Swatch(c.Color) + " " + icon.Glyph(c.Icon) + " " + c.Name
}

func describe(e model.Expense) string {
	if d := strings.TrimSpace(e.Description); d != "" {
		return d
	}
	return "-"
}
