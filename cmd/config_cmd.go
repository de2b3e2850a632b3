// Package cmd implements the hvault CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohdfareed/health-vaults-sub001/internal/cli"
	"github.com/mohdfareed/health-vaults-sub001/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current defaults",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(cfg)
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", config.DataDir(cfg))
	fmt.Printf("    First weekday:  %s\n", cli.FormatDayOfWeek(cfg.General.FirstWeekday))
	fmt.Printf("    Adjustment:     %s\n", cli.FormatSignedKcal(cfg.General.Adjustment))
	fmt.Println()

	fmt.Println("  [Engine]")
	ecfg := cfg.EngineConfig()
	fmt.Printf("    Window:         %d days\n", ecfg.WindowDays)
	fmt.Printf("    Smoothing:      %.2f\n", ecfg.SmoothingAlpha)
	fmt.Printf("    Trend decay:    %.2f\n", ecfg.TrendLambda)
	fmt.Printf("    Energy density: %.0f kcal/kg default\n", ecfg.DefaultRho)
	fmt.Printf("    Budget bounds:  %s to %s\n", cli.FormatKcal(ecfg.MinBudget), cli.FormatKcal(ecfg.MaxBudget))
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Schedule: %s\n", cfg.Daemon.Schedule)
	fmt.Println()

	fmt.Println("  Run `hvault config init` to write a config file.")
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if config.Exists() {
		return fmt.Errorf("config already exists at %s", config.ConfigPath())
	}
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", config.ConfigPath())
	return nil
}
