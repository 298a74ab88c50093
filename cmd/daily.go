package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/pipeline"
)

var flagDailyMonth string

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily spending table",
	Args:  cobra.NoArgs,
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().StringVarP(&flagDailyMonth, "month", "m", "", "Month to show (YYYY-MM, default current)")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	rng := pipeline.CurrentMonthRange(now())
	if flagDailyMonth != "" {
		if rng, err = pipeline.ParseMonth(flagDailyMonth); err != nil {
			return err
		}
	}
	// Future days of the current month are left off.
	if t := today(); rng.Contains(t) {
		rng.End = t
	}

	snap := st.Snapshot()
	month := pipeline.FilterByDateRange(snap.Expenses, rng.Start, rng.End)
	days := pipeline.DailyTotals(month, rng)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle("DAILY SPENDING  "+cli.FormatMonth(rng.Start)))
	fmt.Fprintln(out)

	if len(month) == 0 {
		fmt.Fprintln(out, "  No data for the selected period.")
		return nil
	}

	values := make([]float64, len(days))
	rows := make([][]string, 0, len(days))
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		values[i], _ = d.Total.Float64()
		rows = append(rows, []string{
			d.Date,
			cli.FormatDayOfWeek(d.Date),
			fmt.Sprintf("%d", d.Count),
			cli.FormatCurrency(d.Total),
		})
	}

	fmt.Fprintf(out, "  %s\n\n", cli.RenderSparkline(values))
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers:  []string{"Date", "Day", "Expenses", "Spent"},
		Rows:     rows,
		LeftCols: 2,
	}))
	fmt.Fprintf(out, "  Total %s\n", cli.FormatCurrency(pipeline.Summarize(month).Total))
	return nil
}
