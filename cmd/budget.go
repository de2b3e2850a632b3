package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohdfareed/health-vaults-sub001/internal/cli"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Today's calorie budget",
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	result, _, err := computeResult()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(result)
	}

	est, b := result.Estimate, result.Budget

	fmt.Println()
	fmt.Println(cli.RenderTitle("DAILY BUDGET  " + b.ReferenceDate.Format("Mon Jan 2")))
	fmt.Println()

	rows := [][]string{
		{"Budget", cli.FormatKcal(b.Budget)},
		{"Base", cli.FormatKcal(b.BaseBudget)},
		{"Week credit", cli.FormatSignedKcal(b.Credit)},
		{"Today's adjustment", cli.FormatSignedKcal(b.Delta)},
		{"Days left this week", fmt.Sprintf("%d", b.DaysLeft)},
		{"Logged this week", cli.FormatKcal(b.WeekIntake)},
	}
	if b.Adjustment != 0 {
		rows = append(rows, []string{"Goal adjustment", cli.FormatSignedKcal(b.Adjustment)})
	}
	fmt.Print(cli.RenderTable(cli.Table{Rows: rows}))

	if b.DeltaClamped() {
		fmt.Println(cli.Warn("week credit capped at the daily limit"))
	}
	if b.BudgetClamped() {
		fmt.Println(cli.Warn("budget limited to the sanity bounds"))
	}
	if !est.Valid() {
		fmt.Println(cli.Warn("low data: estimate uses " + est.FallbackSource + " fallback"))
	}
	if est.Suspect() {
		fmt.Println(cli.Warn("maintenance estimate is implausibly low"))
	}

	fmt.Println(cli.Muted(fmt.Sprintf("  maintenance %s · confidence %s",
		cli.FormatKcal(est.Maintenance), cli.FormatPercent(est.Confidence))))
	return nil
}
