package model

import "time"

// suspectMaintenanceFloor marks maintenance estimates implausibly low
// for an adult; such estimates are returned but flagged for callers.
const suspectMaintenanceFloor = 1000

// RegressionResult holds a recency-weighted trend fit over a windowed
// series. Slopes are in series units per week.
type RegressionResult struct {
	Slope     float64 `json:"slope"`     // clamped
	RawSlope  float64 `json:"raw_slope"` // pre-clamp
	Intercept float64 `json:"intercept"` // trend-line value at the reference date
	N         int     `json:"n"`         // distinct sample days in window
	SpanDays  int     `json:"span_days"` // earliest-to-latest span in window
}

// Defined reports whether the fit had enough distinct days to produce
// a slope at all.
func (r RegressionResult) Defined() bool { return r.N >= 2 }

// Clamped reports whether the slope was limited to the configured bounds.
func (r RegressionResult) Clamped() bool { return r.Slope != r.RawSlope }

// ConfidenceScore is a density/coverage confidence in [0,1] for one
// series within a window. It carries the counts and thresholds it was
// scored against so validity predicates survive serialization.
type ConfidenceScore struct {
	Value      float64 `json:"value"`
	N          int     `json:"n"`
	SpanDays   int     `json:"span_days"`
	MinCount   int     `json:"min_count"`
	WindowDays int     `json:"window_days"`
}

// Sufficient reports whether the series met both the count threshold
// and half-window coverage, the validity bar for a primary estimate.
func (c ConfidenceScore) Sufficient() bool {
	return c.N >= c.MinCount && 2*c.SpanDays >= c.WindowDays
}

// MaintenanceEstimate is an immutable snapshot of one maintenance
// estimation. It serializes verbatim and never needs the current clock
// to reinterpret: ReferenceDate travels with it.
type MaintenanceEstimate struct {
	Maintenance    float64 `json:"maintenance"`     // kcal/day, blended
	RawMaintenance float64 `json:"raw_maintenance"` // kcal/day, unblended

	Rho            float64 `json:"rho"` // kcal per kg of weight change
	RhoFromBodyFat bool    `json:"rho_from_body_fat"`

	RawWeightSlope float64 `json:"raw_weight_slope"` // kg/week, pre-clamp
	WeightSlope    float64 `json:"weight_slope"`     // kg/week, clamped
	BlendedIntake  float64 `json:"blended_intake"`   // kcal/day
	BlendedSlope   float64 `json:"blended_slope"`    // kg/week, confidence-faded

	Confidence       float64         `json:"confidence"` // max of the two series scores
	WeightConfidence ConfidenceScore `json:"weight_confidence"`
	IntakeConfidence ConfidenceScore `json:"intake_confidence"`

	FallbackMaintenance float64 `json:"fallback_maintenance"` // kcal/day
	FallbackSource      string  `json:"fallback_source"`      // "<N>d personal", "weight-anchored", "baseline"

	ReferenceDate time.Time `json:"reference_date"`
}

// Valid reports whether either series met the primary data bar. Invalid
// estimates are still computed from the fallback chain, never errors.
func (m MaintenanceEstimate) Valid() bool {
	return m.WeightConfidence.Sufficient() || m.IntakeConfidence.Sufficient()
}

// SlopeClamped reports whether the weight trend hit a physiological bound.
func (m MaintenanceEstimate) SlopeClamped() bool {
	return m.WeightSlope != m.RawWeightSlope
}

// RhoEstimated reports whether rho fell back to the population default
// because no body-fat reading was available.
func (m MaintenanceEstimate) RhoEstimated() bool { return !m.RhoFromBodyFat }

// Suspect reports an implausibly low maintenance value.
func (m MaintenanceEstimate) Suspect() bool {
	return m.Maintenance < suspectMaintenanceFloor
}

// BudgetEstimate is an immutable snapshot of one day's calorie budget
// with week-aligned credit redistribution.
type BudgetEstimate struct {
	BaseBudget  float64 `json:"base_budget"` // maintenance + adjustment
	Adjustment  float64 `json:"adjustment"`  // signed kcal/day goal adjustment
	Credit      float64 `json:"credit"`      // week-to-date surplus/deficit
	Delta       float64 `json:"delta"`       // clamped credit/daysLeft
	Budget      float64 `json:"budget"`      // final, clamped
	DaysElapsed int     `json:"days_elapsed"`
	DaysLeft    int     `json:"days_left"`
	WeekIntake  float64 `json:"week_intake"` // logged kcal, week start through yesterday

	ReferenceDate time.Time `json:"reference_date"`
}

// DeltaClamped reports whether the per-day credit redistribution hit
// the daily delta bound.
func (b BudgetEstimate) DeltaClamped() bool {
	if b.DaysLeft <= 0 {
		return false
	}
	return b.Delta != b.Credit/float64(b.DaysLeft)
}

// BudgetClamped reports whether the final budget hit the sanity bounds.
func (b BudgetEstimate) BudgetClamped() bool {
	return b.Budget != b.BaseBudget+b.Delta
}
