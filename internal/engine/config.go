// Package engine computes maintenance calories and daily budgets from
// sparse daily series of weight, intake, and body fat. Every function
// is pure: identical (series, reference date, config) inputs produce
// identical outputs, with no wall-clock reads and no shared state, so
// calls are safe from any goroutine and results are safe to memoize.
package engine

// Config carries every tunable constant in one explicit value so tests
// can run with alternate constants and results stay reproducible.
type Config struct {
	// SmoothingAlpha is the base EWMA rate for daily intake smoothing.
	SmoothingAlpha float64
	// TrendLambda is the per-day recency decay for the weight trend fit.
	TrendLambda float64
	// WindowDays is the primary estimation window.
	WindowDays int

	// MinSlope and MaxSlope bound the weekly weight slope (kg/week).
	MinSlope float64
	MaxSlope float64

	// MinWeightDays and MinIntakeDays are the confidence count
	// thresholds for the primary window.
	MinWeightDays int
	MinIntakeDays int

	// Forbes two-compartment energy partition constants.
	ForbesC    float64 // kg
	FatEnergy  float64 // kcal/kg
	LeanEnergy float64 // kcal/kg
	DefaultRho float64 // kcal/kg when body fat is unknown

	// FallbackStages lists historical lookback windows in ascending
	// order of days; each is tried in turn when recent data is thin.
	FallbackStages []int
	// StageMinWeightDays and StageMinIntakeDays gate stage acceptance.
	StageMinWeightDays int
	StageMinIntakeDays int
	// WeightAnchorMultiplier scales latest weight (kg) into kcal/day
	// when no historical stage qualifies.
	WeightAnchorMultiplier float64
	// BaselineMaintenance is the population fallback of last resort.
	BaselineMaintenance float64

	// MaxDailyDelta bounds the per-day credit redistribution.
	MaxDailyDelta float64
	// MinBudget and MaxBudget bound the final daily budget.
	MinBudget float64
	MaxBudget float64

	// FirstWeekday aligns the credit week: 1=Sunday .. 7=Saturday.
	FirstWeekday int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		SmoothingAlpha: 0.1,
		TrendLambda:    0.9,
		WindowDays:     28,

		MinSlope: -1.0,
		MaxSlope: 0.75,

		MinWeightDays: 7,
		MinIntakeDays: 14,

		ForbesC:    10.4,
		FatEnergy:  9440,
		LeanEnergy: 1816,
		DefaultRho: 7350,

		FallbackStages:         []int{180, 365, 730},
		StageMinWeightDays:     28,
		StageMinIntakeDays:     56,
		WeightAnchorMultiplier: 30,
		BaselineMaintenance:    2200,

		MaxDailyDelta: 500,
		MinBudget:     1000,
		MaxBudget:     6000,

		FirstWeekday: 2, // Monday
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
