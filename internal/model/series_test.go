package model

import (
	"testing"
	"time"
)

func TestNewDailySeriesSortsAndDedupes(t *testing.T) {
	s := NewDailySeries([]DailyPoint{
		{Day: NewDate(2026, time.March, 3), Value: 81},
		{Day: NewDate(2026, time.March, 1), Value: 82},
		{Day: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC), Value: 81.5}, // same day, later entry wins
		{Day: NewDate(2026, time.March, 2), Value: 81.8},
	})

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	first, _ := s.First()
	if !first.Day.Equal(NewDate(2026, time.March, 1)) || first.Value != 81.5 {
		t.Fatalf("first point = %+v, want Mar 1 / 81.5", first)
	}
	last, _ := s.Latest()
	if !last.Day.Equal(NewDate(2026, time.March, 3)) {
		t.Fatalf("latest point = %+v, want Mar 3", last)
	}
}

func TestSeriesFromSamplesIntakeSums(t *testing.T) {
	day := NewDate(2026, time.March, 1)
	s := SeriesFromSamples([]Sample{
		{Metric: MetricIntake, Day: day, Value: 600},
		{Metric: MetricIntake, Day: day, Value: 900},
		{Metric: MetricWeight, Day: day, Value: 80}, // other metric ignored
		{Metric: MetricIntake, Day: AddDays(day, 1), Value: 700},
	}, MetricIntake)

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if got := s.At(0).Value; got != 1500 {
		t.Fatalf("summed intake = %v, want 1500", got)
	}
	if got := s.At(1).Value; got != 700 {
		t.Fatalf("next day intake = %v, want 700", got)
	}
}

func TestSeriesFromSamplesWeightLastLoggedWins(t *testing.T) {
	day := NewDate(2026, time.March, 1)
	s := SeriesFromSamples([]Sample{
		{Metric: MetricWeight, Day: day, Value: 81.2, LoggedAt: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)},
		{Metric: MetricWeight, Day: day, Value: 80.4, LoggedAt: time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)},
	}, MetricWeight)

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if got := s.At(0).Value; got != 81.2 {
		t.Fatalf("weight = %v, want 81.2 (latest logged)", got)
	}
}

func TestWindowInclusive(t *testing.T) {
	var points []DailyPoint
	for i := 0; i < 10; i++ {
		points = append(points, DailyPoint{Day: NewDate(2026, time.March, 1+i), Value: float64(i)})
	}
	s := NewDailySeries(points)

	w := s.Window(NewDate(2026, time.March, 3), NewDate(2026, time.March, 6))
	if w.Len() != 4 {
		t.Fatalf("window Len = %d, want 4", w.Len())
	}
	if f, _ := w.First(); f.Value != 2 {
		t.Fatalf("window first = %v, want 2", f.Value)
	}
	if l, _ := w.Latest(); l.Value != 5 {
		t.Fatalf("window latest = %v, want 5", l.Value)
	}

	if !s.Window(NewDate(2026, time.April, 1), NewDate(2026, time.April, 5)).Empty() {
		t.Fatal("disjoint window not empty")
	}
}

func TestSpanDays(t *testing.T) {
	s := NewDailySeries([]DailyPoint{
		{Day: NewDate(2026, time.March, 1), Value: 1},
		{Day: NewDate(2026, time.March, 15), Value: 2},
	})
	if got := s.SpanDays(); got != 14 {
		t.Fatalf("SpanDays = %d, want 14", got)
	}
	if got := (DailySeries{}).SpanDays(); got != 0 {
		t.Fatalf("empty SpanDays = %d, want 0", got)
	}
}

func TestIsValidMetric(t *testing.T) {
	for _, m := range AllMetrics {
		if !IsValidMetric(string(m)) {
			t.Fatalf("IsValidMetric(%q) = false", m)
		}
	}
	if IsValidMetric("steps") {
		t.Fatal("IsValidMetric accepted unknown metric")
	}
}
