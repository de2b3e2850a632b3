package engine

import (
	"math"
	"time"

	"github.com/mohdfareed/health-vaults-sub001/internal/model"
)

// Trend fits a recency-weighted least-squares line to the series
// restricted to windowDays ending at ref, and returns the weekly slope
// clamped to [cfg.MinSlope, cfg.MaxSlope]. The raw slope is retained so
// callers can detect clamping. Fewer than 2 distinct days yields a
// zero-slope result with Defined()==false.
func Trend(s model.DailySeries, ref time.Time, windowDays int, cfg Config) model.RegressionResult {
	w := windowed(s, ref, windowDays)
	res := model.RegressionResult{N: w.Len(), SpanDays: w.SpanDays()}
	if w.Len() < 2 {
		return res
	}

	ref = model.DateOf(ref)

	// Weighted means of time (days relative to ref, <= 0) and value,
	// with per-point weight lambda^age.
	var sumW, sumWT, sumWV float64
	for i := 0; i < w.Len(); i++ {
		p := w.At(i)
		age := model.DaysBetween(p.Day, ref)
		wt := math.Pow(cfg.TrendLambda, float64(age))
		t := -float64(age)
		sumW += wt
		sumWT += wt * t
		sumWV += wt * p.Value
	}
	tMean := sumWT / sumW
	vMean := sumWV / sumW

	var cov, varT float64
	for i := 0; i < w.Len(); i++ {
		p := w.At(i)
		age := model.DaysBetween(p.Day, ref)
		wt := math.Pow(cfg.TrendLambda, float64(age))
		t := -float64(age)
		cov += wt * (t - tMean) * (p.Value - vMean)
		varT += wt * (t - tMean) * (t - tMean)
	}
	if varT == 0 {
		return res
	}

	beta := cov / varT // units per day
	res.RawSlope = 7 * beta
	res.Slope = clamp(res.RawSlope, cfg.MinSlope, cfg.MaxSlope)
	res.Intercept = vMean - beta*tMean // trend-line value at ref
	return res
}

// windowed restricts s to the windowDays-day window ending at ref,
// covering sample ages 0 through windowDays-1.
func windowed(s model.DailySeries, ref time.Time, windowDays int) model.DailySeries {
	ref = model.DateOf(ref)
	return s.Window(model.AddDays(ref, -(windowDays-1)), ref)
}
