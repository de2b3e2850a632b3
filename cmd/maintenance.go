package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohdfareed/health-vaults-sub001/internal/cli"
)

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Maintenance estimate breakdown",
	RunE:  runMaintenance,
}

func init() {
	rootCmd.AddCommand(maintenanceCmd)
}

func runMaintenance(_ *cobra.Command, _ []string) error {
	result, _, err := computeResult()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(result.Estimate)
	}

	est := result.Estimate

	fmt.Println()
	fmt.Println(cli.RenderTitle("MAINTENANCE  " + est.ReferenceDate.Format("Mon Jan 2")))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Rows: [][]string{
			{"Maintenance", cli.FormatKcal(est.Maintenance)},
			{"Smoothed intake", cli.FormatKcal(est.BlendedIntake)},
			{"Weight trend", cli.FormatKgPerWeek(est.WeightSlope)},
			{"Energy density", fmt.Sprintf("%.0f kcal/kg", est.Rho)},
			{"Confidence", cli.FormatConfidence(est.Confidence)},
			{"Weight data", cli.FormatPercent(est.WeightConfidence.Value)},
			{"Intake data", cli.FormatPercent(est.IntakeConfidence.Value)},
			{"Fallback", fmt.Sprintf("%s (%s)", cli.FormatKcal(est.FallbackMaintenance), est.FallbackSource)},
		},
	}))

	if est.SlopeClamped() {
		fmt.Println(cli.Warn(fmt.Sprintf("weight trend clamped from %s", cli.FormatKgPerWeek(est.RawWeightSlope))))
	}
	if est.RhoEstimated() {
		fmt.Println(cli.Muted("  energy density from population default (no body fat logged)"))
	}
	if !est.Valid() {
		fmt.Println(cli.Warn("low data: estimate leans on the fallback chain"))
	}
	if est.Suspect() {
		fmt.Println(cli.Warn("estimate is implausibly low; check your intake logs"))
	}
	return nil
}
