package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mohdfareed/health-vaults-sub001/internal/engine"
)

// Config holds all hvault configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Engine  EngineConfig  `toml:"engine"`
	Daemon  DaemonConfig  `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	// DataDir overrides the default data directory (database, imports).
	DataDir string `toml:"data_dir,omitempty"`
	// FirstWeekday sets the week anchor for budget credit, 1=Sunday
	// through 7=Saturday.
	FirstWeekday int `toml:"first_weekday"`
	// Adjustment is the signed kcal/day goal offset applied to every
	// budget (negative to cut, positive to gain).
	Adjustment float64 `toml:"adjustment"`
}

// EngineConfig holds optional overrides for the estimation constants.
// Unset fields keep the engine defaults.
type EngineConfig struct {
	SmoothingAlpha *float64 `toml:"smoothing_alpha,omitempty"`
	TrendLambda    *float64 `toml:"trend_lambda,omitempty"`
	WindowDays     *int     `toml:"window_days,omitempty"`

	MinSlope *float64 `toml:"min_slope,omitempty"`
	MaxSlope *float64 `toml:"max_slope,omitempty"`

	MinWeightDays *int `toml:"min_weight_days,omitempty"`
	MinIntakeDays *int `toml:"min_intake_days,omitempty"`

	ForbesC    *float64 `toml:"forbes_c,omitempty"`
	FatEnergy  *float64 `toml:"fat_energy,omitempty"`
	LeanEnergy *float64 `toml:"lean_energy,omitempty"`
	DefaultRho *float64 `toml:"default_rho,omitempty"`

	FallbackStages         []int    `toml:"fallback_stages,omitempty"`
	StageMinWeightDays     *int     `toml:"stage_min_weight_days,omitempty"`
	StageMinIntakeDays     *int     `toml:"stage_min_intake_days,omitempty"`
	WeightAnchorMultiplier *float64 `toml:"weight_anchor_multiplier,omitempty"`
	BaselineMaintenance    *float64 `toml:"baseline_maintenance,omitempty"`

	MaxDailyDelta *float64 `toml:"max_daily_delta,omitempty"`
	MinBudget     *float64 `toml:"min_budget,omitempty"`
	MaxBudget     *float64 `toml:"max_budget,omitempty"`
}

// DaemonConfig holds background service settings.
type DaemonConfig struct {
	// Addr is the HTTP listen address for status and event streams.
	Addr string `toml:"addr"`
	// Schedule is a cron expression for periodic recomputation.
	Schedule string `toml:"schedule"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			FirstWeekday: 2, // Monday
		},
		Daemon: DaemonConfig{
			Addr:     "127.0.0.1:7753",
			Schedule: "15 * * * *",
		},
	}
}

// EngineConfig merges the TOML overrides over the engine defaults.
func (c Config) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if c.General.FirstWeekday >= 1 && c.General.FirstWeekday <= 7 {
		cfg.FirstWeekday = c.General.FirstWeekday
	}

	o := c.Engine
	overrideFloat(&cfg.SmoothingAlpha, o.SmoothingAlpha)
	overrideFloat(&cfg.TrendLambda, o.TrendLambda)
	overrideInt(&cfg.WindowDays, o.WindowDays)
	overrideFloat(&cfg.MinSlope, o.MinSlope)
	overrideFloat(&cfg.MaxSlope, o.MaxSlope)
	overrideInt(&cfg.MinWeightDays, o.MinWeightDays)
	overrideInt(&cfg.MinIntakeDays, o.MinIntakeDays)
	overrideFloat(&cfg.ForbesC, o.ForbesC)
	overrideFloat(&cfg.FatEnergy, o.FatEnergy)
	overrideFloat(&cfg.LeanEnergy, o.LeanEnergy)
	overrideFloat(&cfg.DefaultRho, o.DefaultRho)
	overrideInt(&cfg.StageMinWeightDays, o.StageMinWeightDays)
	overrideInt(&cfg.StageMinIntakeDays, o.StageMinIntakeDays)
	overrideFloat(&cfg.WeightAnchorMultiplier, o.WeightAnchorMultiplier)
	overrideFloat(&cfg.BaselineMaintenance, o.BaselineMaintenance)
	overrideFloat(&cfg.MaxDailyDelta, o.MaxDailyDelta)
	overrideFloat(&cfg.MinBudget, o.MinBudget)
	overrideFloat(&cfg.MaxBudget, o.MaxBudget)
	if len(o.FallbackStages) > 0 {
		cfg.FallbackStages = o.FallbackStages
	}
	return cfg
}

func overrideFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func overrideInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hvault")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hvault")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the data directory, honoring the config override and
// XDG_DATA_HOME.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "hvault")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "hvault")
}

// Load reads the config file at path, returning defaults if it doesn't
// exist. An empty path means the default location.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk at the default location.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
