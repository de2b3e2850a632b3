package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.FirstWeekday != 2 {
		t.Fatalf("FirstWeekday = %d, want 2", cfg.General.FirstWeekday)
	}
	if cfg.Daemon.Schedule == "" {
		t.Fatal("default daemon schedule is empty")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[general]
first_weekday = 1
adjustment = -300.0

[engine]
window_days = 21
min_budget = 1200.0

[daemon]
addr = "127.0.0.1:9000"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.FirstWeekday != 1 || cfg.General.Adjustment != -300 {
		t.Fatalf("general = %+v", cfg.General)
	}
	if cfg.Daemon.Addr != "127.0.0.1:9000" {
		t.Fatalf("daemon addr = %q", cfg.Daemon.Addr)
	}

	eng := cfg.EngineConfig()
	if eng.WindowDays != 21 {
		t.Fatalf("WindowDays = %d, want 21", eng.WindowDays)
	}
	if eng.MinBudget != 1200 {
		t.Fatalf("MinBudget = %v, want 1200", eng.MinBudget)
	}
	if eng.FirstWeekday != 1 {
		t.Fatalf("FirstWeekday = %d, want 1", eng.FirstWeekday)
	}
	// Untouched constants keep their defaults.
	if eng.SmoothingAlpha != 0.1 {
		t.Fatalf("SmoothingAlpha = %v, want 0.1", eng.SmoothingAlpha)
	}
}

func TestEngineConfigOverridesEveryConstant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[engine]
baseline_maintenance = 1800.0
min_slope = -2.0
max_slope = 1.5
min_weight_days = 5
min_intake_days = 10
forbes_c = 11.0
fat_energy = 9000.0
lean_energy = 1700.0
stage_min_weight_days = 10
stage_min_intake_days = 20
weight_anchor_multiplier = 25.0
fallback_stages = [90, 180]
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	eng := cfg.EngineConfig()
	if eng.BaselineMaintenance != 1800 {
		t.Fatalf("BaselineMaintenance = %v, want 1800", eng.BaselineMaintenance)
	}
	if eng.MinSlope != -2 || eng.MaxSlope != 1.5 {
		t.Fatalf("slope bounds = %v/%v, want -2/1.5", eng.MinSlope, eng.MaxSlope)
	}
	if eng.MinWeightDays != 5 || eng.MinIntakeDays != 10 {
		t.Fatalf("min days = %d/%d, want 5/10", eng.MinWeightDays, eng.MinIntakeDays)
	}
	if eng.ForbesC != 11 || eng.FatEnergy != 9000 || eng.LeanEnergy != 1700 {
		t.Fatalf("partition constants = %v/%v/%v", eng.ForbesC, eng.FatEnergy, eng.LeanEnergy)
	}
	if eng.StageMinWeightDays != 10 || eng.StageMinIntakeDays != 20 {
		t.Fatalf("stage thresholds = %d/%d, want 10/20", eng.StageMinWeightDays, eng.StageMinIntakeDays)
	}
	if eng.WeightAnchorMultiplier != 25 {
		t.Fatalf("WeightAnchorMultiplier = %v, want 25", eng.WeightAnchorMultiplier)
	}
	if len(eng.FallbackStages) != 2 || eng.FallbackStages[0] != 90 || eng.FallbackStages[1] != 180 {
		t.Fatalf("FallbackStages = %v, want [90 180]", eng.FallbackStages)
	}
	// Constants left out of the file keep their defaults.
	if eng.DefaultRho != 7350 {
		t.Fatalf("DefaultRho = %v, want 7350", eng.DefaultRho)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\nbroken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config accepted")
	}
}

func TestEngineConfigIgnoresBadWeekday(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.FirstWeekday = 12
	if got := cfg.EngineConfig().FirstWeekday; got != 2 {
		t.Fatalf("FirstWeekday = %d, want default 2", got)
	}
}
