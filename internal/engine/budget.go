package engine

import (
	"time"

	"github.com/mohdfareed/health-vaults-sub001/internal/model"
)

// ComputeBudget converts a maintenance estimate, a signed daily goal
// adjustment, and the current week's logged intake into today's calorie
// budget. The reference date is taken from the estimate so a stored
// snapshot reproduces the same numbers under any later wall clock.
//
// Credit is week-aligned, not rolling: the surplus/deficit accumulates
// from the configured first weekday through yesterday and resets to
// zero on the first weekday itself. A rolling 7-day window would grow
// credit without bound for a consistent dieter.
func ComputeBudget(est model.MaintenanceEstimate, adjustment float64, weekIntake map[time.Time]float64, cfg Config) model.BudgetEstimate {
	ref := model.DateOf(est.ReferenceDate)
	base := est.Maintenance + adjustment

	weekStart := model.StartOfWeek(ref, cfg.FirstWeekday)
	elapsed := model.DaysBetween(weekStart, ref)
	left := 7 - elapsed
	if left < 1 {
		left = 1
	}

	// Logged intake from the week start through yesterday; days outside
	// that range are ignored regardless of what the caller passed.
	var logged float64
	for day, kcal := range weekIntake {
		d := model.DateOf(day)
		if d.Before(weekStart) || !d.Before(ref) {
			continue
		}
		logged += kcal
	}

	var credit float64
	if elapsed > 0 {
		credit = base*float64(elapsed) - logged
	}

	delta := clamp(credit/float64(left), -cfg.MaxDailyDelta, cfg.MaxDailyDelta)

	return model.BudgetEstimate{
		BaseBudget:  base,
		Adjustment:  adjustment,
		Credit:      credit,
		Delta:       delta,
		Budget:      clamp(base+delta, cfg.MinBudget, cfg.MaxBudget),
		DaysElapsed: elapsed,
		DaysLeft:    left,
		WeekIntake:  logged,

		ReferenceDate: ref,
	}
}

// WeekIntake extracts the current week's per-day logged intake from the
// intake series, keyed by day, through yesterday relative to ref.
func WeekIntake(intake model.DailySeries, ref time.Time, cfg Config) map[time.Time]float64 {
	ref = model.DateOf(ref)
	weekStart := model.StartOfWeek(ref, cfg.FirstWeekday)

	out := make(map[time.Time]float64)
	w := intake.Window(weekStart, model.AddDays(ref, -1))
	for i := 0; i < w.Len(); i++ {
		p := w.At(i)
		out[p.Day] = p.Value
	}
	return out
}
