package engine

import (
	"time"

	"github.com/mohdfareed/health-vaults-sub001/internal/model"
)

// EstimateMaintenance composes smoothing, trend estimation, energy
// partition, confidence scoring, and the fallback chain into a single
// maintenance estimate at ref. Degenerate inputs degrade to a flagged
// but defined result; there is no error path.
//
// Smoothed intake blends toward the fallback as intake confidence
// drops; the weight slope fades toward zero (assume stable weight) as
// weight confidence drops, never toward the fallback.
func EstimateMaintenance(weight, intake, bodyFat model.DailySeries, ref time.Time, cfg Config) model.MaintenanceEstimate {
	ref = model.DateOf(ref)

	smoothed, haveIntake := Smooth(windowed(intake, ref, cfg.WindowDays), cfg.SmoothingAlpha)
	trend := Trend(weight, ref, cfg.WindowDays, cfg)

	w, haveWeight := weight.Latest()
	b, haveBodyFat := bodyFat.Latest()
	rho, fromBodyFat := EnergyDensity(w.Value, b.Value, haveWeight && haveBodyFat, cfg)

	weightConf := Confidence(weight, ref, cfg.MinWeightDays, cfg.WindowDays)
	intakeConf := Confidence(intake, ref, cfg.MinIntakeDays, cfg.WindowDays)

	fallback, source := ResolveFallback(weight, intake, bodyFat, ref, cfg)

	if !haveIntake {
		smoothed = 0
	}
	qc, qw := intakeConf.Value, weightConf.Value
	blendedIntake := smoothed*qc + fallback*(1-qc)
	blendedSlope := trend.Slope * qw

	confidence := qw
	if qc > confidence {
		confidence = qc
	}

	return model.MaintenanceEstimate{
		Maintenance:    blendedIntake - blendedSlope*rho/7,
		RawMaintenance: smoothed - trend.Slope*rho/7,

		Rho:            rho,
		RhoFromBodyFat: fromBodyFat,

		RawWeightSlope: trend.RawSlope,
		WeightSlope:    trend.Slope,
		BlendedIntake:  blendedIntake,
		BlendedSlope:   blendedSlope,

		Confidence:       confidence,
		WeightConfidence: weightConf,
		IntakeConfidence: intakeConf,

		FallbackMaintenance: fallback,
		FallbackSource:      source,

		ReferenceDate: ref,
	}
}
