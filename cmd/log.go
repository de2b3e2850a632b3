package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mohdfareed/health-vaults-sub001/internal/cli"
	"github.com/mohdfareed/health-vaults-sub001/internal/model"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a sample",
}

var logWeightCmd = &cobra.Command{
	Use:   "weight <kg>",
	Short: "Record a body weight in kg",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return logSample(model.MetricWeight, args[0])
	},
}

var logIntakeCmd = &cobra.Command{
	Use:   "intake <kcal>",
	Short: "Record an intake entry in kcal (entries sum per day)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return logSample(model.MetricIntake, args[0])
	},
}

var logBodyFatCmd = &cobra.Command{
	Use:   "bodyfat <fraction>",
	Short: "Record a body-fat fraction (0-1)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return logSample(model.MetricBodyFat, args[0])
	},
}

func init() {
	logCmd.AddCommand(logWeightCmd)
	logCmd.AddCommand(logIntakeCmd)
	logCmd.AddCommand(logBodyFatCmd)
	rootCmd.AddCommand(logCmd)
}

func logSample(metric model.Metric, raw string) error {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid value %q", raw)
	}

	switch metric {
	case model.MetricWeight:
		if value <= 0 {
			return fmt.Errorf("weight must be positive, got %v", value)
		}
	case model.MetricIntake:
		if value < 0 {
			return fmt.Errorf("intake must be non-negative, got %v", value)
		}
	case model.MetricBodyFat:
		if value <= 0 || value >= 1 {
			return fmt.Errorf("body fat must be a fraction in (0,1), got %v", value)
		}
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	day, err := referenceDate()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.AddSample(model.Sample{Metric: metric, Day: day, Value: value}, "manual"); err != nil {
		return err
	}

	if !flagQuiet {
		var rendered string
		switch metric {
		case model.MetricWeight:
			rendered = cli.FormatKg(value)
		case model.MetricIntake:
			rendered = cli.FormatKcal(value)
		case model.MetricBodyFat:
			rendered = cli.FormatPercent(value)
		}
		fmt.Printf("  Logged %s %s for %s\n", metric, rendered, day.Format("2006-01-02"))
	}
	return nil
}
