package engine

import (
	"math"

	"github.com/mohdfareed/health-vaults-sub001/internal/model"
)

// Smooth computes a gap-aware exponentially weighted moving average
// over a daily series and returns the smoothed last value. The decay
// rate adapts to elapsed days between samples: after a gap of d days
// the effective rate is 1-(1-alpha)^d, so a 10-day silence discounts
// old influence proportionally more than a 1-day gap.
//
// Returns ok=false for an empty series; there are no other error cases.
func Smooth(s model.DailySeries, alpha float64) (value float64, ok bool) {
	if s.Empty() {
		return 0, false
	}

	acc := s.At(0).Value
	prev := s.At(0).Day
	for i := 1; i < s.Len(); i++ {
		p := s.At(i)
		gap := model.DaysBetween(prev, p.Day)
		if gap < 1 {
			gap = 1
		}
		rate := 1 - math.Pow(1-alpha, float64(gap))
		acc = rate*p.Value + (1-rate)*acc
		prev = p.Day
	}
	return acc, true
}
