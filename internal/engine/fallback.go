package engine

import (
	"fmt"
	"time"

	"github.com/mohdfareed/health-vaults-sub001/internal/model"
)

// ResolveFallback produces the maintenance fallback used when the
// primary window's data is thin. Stages are tried in ascending order as
// a plain loop over the configured list; each stage re-runs the primary
// estimation (smoothing, trend, energy partition) restricted to its
// window and is accepted when it holds enough weight and intake days.
// After the stages: any weight sample at all anchors the fallback to a
// multiple of latest weight, and with no data the population baseline
// applies.
func ResolveFallback(weight, intake, bodyFat model.DailySeries, ref time.Time, cfg Config) (value float64, source string) {
	ref = model.DateOf(ref)

	for _, stageDays := range cfg.FallbackStages {
		w := windowed(weight, ref, stageDays)
		c := windowed(intake, ref, stageDays)
		if w.Len() < cfg.StageMinWeightDays || c.Len() < cfg.StageMinIntakeDays {
			continue
		}
		return stageMaintenance(w, c, weight, bodyFat, ref, stageDays, cfg),
			fmt.Sprintf("%dd personal", stageDays)
	}

	if latest, ok := weight.Latest(); ok {
		return cfg.WeightAnchorMultiplier * latest.Value, "weight-anchored"
	}

	return cfg.BaselineMaintenance, "baseline"
}

// stageMaintenance is the unblended maintenance estimate over one
// historical stage window. It never consults the resolver again, so the
// chain terminates after the fixed stage list.
func stageMaintenance(stageWeight, stageIntake, fullWeight, bodyFat model.DailySeries, ref time.Time, stageDays int, cfg Config) float64 {
	smoothed, ok := Smooth(stageIntake, cfg.SmoothingAlpha)
	if !ok {
		smoothed = 0
	}
	trend := Trend(stageWeight, ref, stageDays, cfg)
	rho := latestEnergyDensity(fullWeight, bodyFat, cfg)
	return smoothed - trend.Slope*rho/7
}

// latestEnergyDensity derives rho from the latest weight and body-fat
// readings, falling back to the population default when either is absent.
func latestEnergyDensity(weight, bodyFat model.DailySeries, cfg Config) float64 {
	w, haveWeight := weight.Latest()
	b, haveBodyFat := bodyFat.Latest()
	rho, _ := EnergyDensity(w.Value, b.Value, haveWeight && haveBodyFat, cfg)
	return rho
}
