package engine

import (
	"math"
	"time"

	"github.com/mohdfareed/health-vaults-sub001/internal/model"
)

// Confidence scores how much a series can be trusted within the
// windowDays-day window ending at ref: sample density against minCount
// times temporal coverage against the window length, each capped at 1.
// The same scorer serves weight and intake with different thresholds.
func Confidence(s model.DailySeries, ref time.Time, minCount, windowDays int) model.ConfidenceScore {
	w := windowed(s, ref, windowDays)
	score := model.ConfidenceScore{
		N:          w.Len(),
		SpanDays:   w.SpanDays(),
		MinCount:   minCount,
		WindowDays: windowDays,
	}
	if minCount <= 0 || windowDays <= 0 {
		return score
	}

	density := math.Min(1, float64(score.N)/float64(minCount))
	coverage := math.Min(1, float64(score.SpanDays)/float64(windowDays))
	score.Value = density * coverage
	return score
}
