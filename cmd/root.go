package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohdfareed/health-vaults-sub001/internal/config"
	"github.com/mohdfareed/health-vaults-sub001/internal/engine"
	"github.com/mohdfareed/health-vaults-sub001/internal/model"
	"github.com/mohdfareed/health-vaults-sub001/internal/pipeline"
	"github.com/mohdfareed/health-vaults-sub001/internal/store"
)

var (
	flagDate    string
	flagDataDir string
	flagConfig  string
	flagQuiet   bool
	flagJSON    bool
	flagCached  bool
)

var rootCmd = &cobra.Command{
	Use:   "hvault",
	Short: "Maintenance calories and daily budget from your health log",
	Long: "Estimate your calorie maintenance from logged weight and intake,\n" +
		"and turn it into a daily budget with week-aligned credit.",
	RunE: runBudget,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDate, "date", "", "Reference date YYYY-MM-DD (default today)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data", "d", "", "Data directory override")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Emit raw JSON instead of tables")
	rootCmd.PersistentFlags().BoolVar(&flagCached, "cached", false, "Use the stored snapshot instead of recomputing")
}

// loadAppConfig reads the TOML config, honoring --config and --data.
func loadAppConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	return cfg, nil
}

// dbPath returns the sqlite database location for the active config.
func dbPath(cfg config.Config) string {
	return filepath.Join(config.DataDir(cfg), "hvault.db")
}

// openStore opens the database for the active config.
func openStore(cfg config.Config) (*store.Store, error) {
	return store.Open(dbPath(cfg))
}

// referenceDate resolves --date, defaulting to today.
func referenceDate() (time.Time, error) {
	if flagDate == "" {
		return model.DateOf(time.Now()), nil
	}
	d, err := time.ParseInLocation("2006-01-02", flagDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", flagDate)
	}
	return d, nil
}

// computeResult is the shared estimation path used by the display
// commands: load config, open the store, run the pipeline at the
// reference date. With --cached it reuses the stored snapshot instead
// of re-estimating.
func computeResult() (pipeline.Result, engine.Config, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return pipeline.Result{}, engine.Config{}, err
	}
	ref, err := referenceDate()
	if err != nil {
		return pipeline.Result{}, engine.Config{}, err
	}

	st, err := openStore(cfg)
	if err != nil {
		return pipeline.Result{}, engine.Config{}, err
	}
	defer func() { _ = st.Close() }()

	ecfg := cfg.EngineConfig()
	if flagCached {
		result, err := cachedResult(st, ref, cfg.General.Adjustment, ecfg)
		return result, ecfg, err
	}
	result, err := pipeline.Compute(st, ref, cfg.General.Adjustment, ecfg)
	if err != nil {
		return pipeline.Result{}, engine.Config{}, err
	}
	return result, ecfg, nil
}

// cachedResult serves a stored snapshot without re-estimating. The
// budget is still derived fresh, since it depends on the current week's
// logged intake rather than on the snapshot.
func cachedResult(st *store.Store, ref time.Time, adjustment float64, ecfg engine.Config) (pipeline.Result, error) {
	var (
		est   model.MaintenanceEstimate
		found bool
		err   error
	)
	if flagDate != "" {
		est, found, err = st.Snapshot(ref)
	} else {
		est, found, err = st.LatestSnapshot()
	}
	if err != nil {
		return pipeline.Result{}, err
	}
	if !found {
		return pipeline.Result{}, fmt.Errorf("no stored snapshot; run without --cached to compute one")
	}

	day := model.DateOf(est.ReferenceDate)
	intake, err := st.LoadSeries(model.MetricIntake, model.AddDays(day, -7), day)
	if err != nil {
		return pipeline.Result{}, err
	}

	week := engine.WeekIntake(intake, day, ecfg)
	return pipeline.Result{
		Estimate: est,
		Budget:   engine.ComputeBudget(est, adjustment, week, ecfg),
	}, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
