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

var (
	flagCatName  string
	flagCatColor string
	flagCatIcon  string
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories", "cat"},
	Short:   "Manage categories",
	RunE:    runCategoryList,
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with this month's spending",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var categoryAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Create a category",
	Example: `  tally category add --name Pets --color "#06B6D4" --icon heart`,
	Args:    cobra.NoArgs,
	RunE:    runCategoryAdd,
}

var categoryEditCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Rename or restyle a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryEdit,
}

var categoryRmCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"delete"},
	Short:   "Delete a category (its expenses become Uncategorized)",
	Args:    cobra.ExactArgs(1),
	RunE:    runCategoryRm,
}

func init() {
	for _, c := range []*cobra.Command{categoryAddCmd, categoryEditCmd} {
		c.Flags().StringVar(&flagCatName, "name", "", "Category name")
		c.Flags().StringVar(&flagCatColor, "color", "", "Hex colour, e.g. #10B981")
		c.Flags().StringVar(&flagCatIcon, "icon", "", "Icon name (see `tally category list`)")
	}
	_ = categoryAddCmd.MarkFlagRequired("name")

	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd, categoryEditCmd, categoryRmCmd)
	rootCmd.AddCommand(categoryCmd)
}

func runCategoryList(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := st.Snapshot()
	rng := pipeline.CurrentMonthRange(now())
	summary := pipeline.Summarize(pipeline.FilterByDateRange(snap.Expenses, rng.Start, rng.End))
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle("CATEGORIES"))
	fmt.Fprintln(out)

	if len(snap.Categories) == 0 {
		fmt.Fprintln(out, "  No categories. Add one with `tally category add --name ...`.")
		return nil
	}

	rows := make([][]string, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		rows = append(rows, []string{
			c.ID,
			categoryLabel(c),
			c.Color,
			c.Icon,
			cli.FormatCurrency(summary.ByCategory[c.ID]),
		})
	}
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Name", "Colour", "Icon", "This month"},
		Rows:     rows,
		LeftCols: 4,
	}))
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.Muted("  Icons: "+strings.Join(icon.Names(), ", ")))
	return nil
}

func runCategoryAdd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := st.Snapshot()
	color := flagCatColor
	if color == "" {
		color = model.ColorPalette[len(snap.Categories)%len(model.ColorPalette)]
	}
	in := model.CategoryInput{Name: flagCatName, Color: color, Icon: flagCatIcon}.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}
	if _, exists := model.FindCategory(snap.Categories, in.Name); exists {
		return fmt.Errorf("a category named %q already exists", in.Name)
	}
	warnUnknownIcon(cmd, in.Icon)

	c := st.AddCategory(in)
	if err := checkPersisted(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Added category %s  %s\n", c.ID, categoryLabel(c))
	return nil
}

func runCategoryEdit(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := resolveCategory(st.Snapshot().Categories, args[0])
	if err != nil {
		return err
	}
	in := model.CategoryInput{Name: c.Name, Color: c.Color, Icon: c.Icon}
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = flagCatName
	}
	if flags.Changed("color") {
		in.Color = flagCatColor
	}
	if flags.Changed("icon") {
		in.Icon = flagCatIcon
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}
	warnUnknownIcon(cmd, in.Icon)

	updated := in.WithID(c.ID)
	st.UpdateCategory(updated)
	if err := checkPersisted(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Updated category %s  %s\n", updated.ID, categoryLabel(updated))
	return nil
}

func runCategoryRm(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap := st.Snapshot()
	c, err := resolveCategory(snap.Categories, args[0])
	if err != nil {
		return err
	}

	used := len(pipeline.FilterByCategory(snap.Expenses, c.ID))
	budgets := 0
	for _, b := range snap.Budgets {
		if b.Category == c.ID {
			budgets++
		}
	}
	prompt := fmt.Sprintf("Delete category %q?", c.Name)
	if used > 0 || budgets > 0 {
		prompt = fmt.Sprintf("Delete category %q? %d expenses and %d budgets will show as %s.",
			c.Name, used, budgets, model.UncategorizedName)
	}
	ok, err := confirm(cmd, prompt)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "  Cancelled.")
		return nil
	}

	st.DeleteCategory(c.ID)
	if err := checkPersisted(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Deleted category %s\n", c.Name)
	return nil
}

func warnUnknownIcon(cmd *cobra.Command, name string) {
	if !icon.Known(name) {
		fmt.Fprintf(cmd.ErrOrStderr(), "  Note: icon %q is not known and will show as %s\n", name, icon.Default)
	}
}
