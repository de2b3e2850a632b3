package engine

import (
	"math"
	"testing"
	"time"

	"github.com/mohdfareed/health-vaults-sub001/internal/model"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return d
}

func series(t *testing.T, points map[string]float64) model.DailySeries {
	t.Helper()
	var pts []model.DailyPoint
	for ds, v := range points {
		pts = append(pts, model.DailyPoint{Day: day(t, ds), Value: v})
	}
	return model.NewDailySeries(pts)
}

// dailySeries builds n consecutive days ending at end, with values from fn(i)
// where i=0 is the earliest day.
func dailySeries(t *testing.T, end string, n int, fn func(i int) float64) model.DailySeries {
	t.Helper()
	endDay := day(t, end)
	pts := make([]model.DailyPoint, n)
	for i := 0; i < n; i++ {
		pts[i] = model.DailyPoint{Day: model.AddDays(endDay, -(n - 1 - i)), Value: fn(i)}
	}
	return model.NewDailySeries(pts)
}

func TestSmoothEmptySeries(t *testing.T) {
	_, ok := Smooth(model.DailySeries{}, 0.1)
	if ok {
		t.Fatal("Smooth on empty series reported ok")
	}
}

func TestSmoothSinglePoint(t *testing.T) {
	s := series(t, map[string]float64{"2026-01-05": 2100})
	v, ok := Smooth(s, 0.1)
	if !ok {
		t.Fatal("Smooth on single point reported !ok")
	}
	if v != 2100 {
		t.Fatalf("Smooth = %v, want 2100", v)
	}
}

func TestSmoothConsecutiveDays(t *testing.T) {
	s := series(t, map[string]float64{
		"2026-01-01": 2000,
		"2026-01-02": 2200,
	})
	v, ok := Smooth(s, 0.1)
	if !ok {
		t.Fatal("Smooth reported !ok")
	}
	want := 0.1*2200 + 0.9*2000
	if math.Abs(v-want) > 1e-9 {
		t.Fatalf("Smooth = %v, want %v", v, want)
	}
}

func TestSmoothGapAwareDecay(t *testing.T) {
	// A 10-day gap must discount the old value by (1-alpha)^10,
	// not by a single step.
	s := series(t, map[string]float64{
		"2026-01-01": 2000,
		"2026-01-11": 2500,
	})
	v, ok := Smooth(s, 0.1)
	if !ok {
		t.Fatal("Smooth reported !ok")
	}
	rate := 1 - math.Pow(0.9, 10)
	want := rate*2500 + (1-rate)*2000
	if math.Abs(v-want) > 1e-9 {
		t.Fatalf("Smooth = %v, want %v", v, want)
	}

	// The gap-adjusted result leans harder on the new value than a
	// plain single-step EWMA would.
	plain := 0.1*2500 + 0.9*2000
	if v <= plain {
		t.Fatalf("gap-aware Smooth = %v, want > plain EWMA %v", v, plain)
	}
}

func TestSmoothDeterministic(t *testing.T) {
	s := dailySeries(t, "2026-02-01", 30, func(i int) float64 { return 1800 + float64(i%5)*120 })
	a, _ := Smooth(s, 0.1)
	b, _ := Smooth(s, 0.1)
	if a != b {
		t.Fatalf("Smooth not bit-reproducible: %v vs %v", a, b)
	}
}
