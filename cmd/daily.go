package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohdfareed/health-vaults-sub001/internal/cli"
	"github.com/mohdfareed/health-vaults-sub001/internal/model"
	"github.com/mohdfareed/health-vaults-sub001/internal/pipeline"
)

var flagDailyDays int

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Recent days table with weight sparkline",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().IntVarP(&flagDailyDays, "days", "n", 14, "Days to show")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	ref, err := referenceDate()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ecfg := cfg.EngineConfig()
	in, err := pipeline.LoadInputs(st, ref, ecfg)
	if err != nil {
		return err
	}

	from := model.AddDays(ref, -(flagDailyDays - 1))
	weight := in.Weight.Window(from, ref)
	intake := in.Intake.Window(from, ref)

	if flagJSON {
		return printJSON(map[string]any{
			"weight": weight.Points(),
			"intake": intake.Points(),
		})
	}

	if weight.Empty() && intake.Empty() {
		fmt.Println("\n  No data for the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY LOG  Last %dd", flagDailyDays)))
	fmt.Println()

	intakeByDay := make(map[int64]float64, intake.Len())
	for _, p := range intake.Points() {
		intakeByDay[p.Day.Unix()] = p.Value
	}
	weightByDay := make(map[int64]float64, weight.Len())
	for _, p := range weight.Points() {
		weightByDay[p.Day.Unix()] = p.Value
	}

	var rows [][]string
	for i := 0; i < flagDailyDays; i++ {
		day := model.AddDays(from, i)
		w, hasW := weightByDay[day.Unix()]
		k, hasK := intakeByDay[day.Unix()]
		if !hasW && !hasK {
			continue
		}

		wCell, kCell := "–", "–"
		if hasW {
			wCell = cli.FormatKg(w)
		}
		if hasK {
			kCell = cli.FormatKcal(k)
		}
		rows = append(rows, []string{
			day.Format("2006-01-02"),
			cli.FormatDayOfWeek(int(day.Weekday()) + 1),
			wCell,
			kCell,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Weight", "Intake"},
		Rows:    rows,
	}))

	if weight.Len() > 1 {
		var values []float64
		for _, p := range weight.Points() {
			values = append(values, p.Value)
		}
		fmt.Println(cli.Muted("  weight " + cli.RenderSparkline(values)))
	}
	return nil
}
