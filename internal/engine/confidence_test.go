package engine

import (
	"math"
	"testing"
)

func TestConfidenceEmptySeries(t *testing.T) {
	cfg := DefaultConfig()
	c := Confidence(series(t, nil), day(t, "2026-03-01"), cfg.MinWeightDays, cfg.WindowDays)
	if c.Value != 0 {
		t.Fatalf("empty series confidence = %v, want 0", c.Value)
	}
	if c.N != 0 || c.SpanDays != 0 {
		t.Fatalf("empty series (n, span) = (%d, %d), want (0, 0)", c.N, c.SpanDays)
	}
	if c.Sufficient() {
		t.Fatal("empty series reported sufficient")
	}
}

func TestConfidenceDenseWindow(t *testing.T) {
	cfg := DefaultConfig()
	ref := day(t, "2026-03-01")

	// 28 consecutive days: density saturates, coverage is 27/28.
	s := dailySeries(t, "2026-03-01", 28, func(i int) float64 { return 80 })
	c := Confidence(s, ref, cfg.MinWeightDays, cfg.WindowDays)

	want := 1.0 * (27.0 / 28.0)
	if math.Abs(c.Value-want) > 1e-9 {
		t.Fatalf("dense confidence = %v, want %v", c.Value, want)
	}
	if !c.Sufficient() {
		t.Fatal("dense window not reported sufficient")
	}
}

func TestConfidenceSparseSamples(t *testing.T) {
	cfg := DefaultConfig()
	ref := day(t, "2026-03-01")

	// 4 samples spanning 21 days against minCount 7.
	s := series(t, map[string]float64{
		"2026-02-08": 80,
		"2026-02-15": 80,
		"2026-02-22": 80,
		"2026-03-01": 80,
	})
	c := Confidence(s, ref, cfg.MinWeightDays, cfg.WindowDays)

	want := (4.0 / 7.0) * (21.0 / 28.0)
	if math.Abs(c.Value-want) > 1e-9 {
		t.Fatalf("sparse confidence = %v, want %v", c.Value, want)
	}
}

func TestConfidenceIgnoresOutOfWindowSamples(t *testing.T) {
	cfg := DefaultConfig()
	ref := day(t, "2026-03-01")

	old := dailySeries(t, "2025-06-01", 100, func(i int) float64 { return 80 })
	c := Confidence(old, ref, cfg.MinWeightDays, cfg.WindowDays)
	if c.Value != 0 || c.N != 0 {
		t.Fatalf("out-of-window confidence = %v (n=%d), want 0 (n=0)", c.Value, c.N)
	}
}

func TestConfidenceIntakeThresholds(t *testing.T) {
	cfg := DefaultConfig()
	ref := day(t, "2026-03-01")

	// 10 intake days against the stricter minCount of 14.
	s := dailySeries(t, "2026-03-01", 10, func(i int) float64 { return 2000 })
	c := Confidence(s, ref, cfg.MinIntakeDays, cfg.WindowDays)

	want := (10.0 / 14.0) * (9.0 / 28.0)
	if math.Abs(c.Value-want) > 1e-9 {
		t.Fatalf("intake confidence = %v, want %v", c.Value, want)
	}
	if c.Sufficient() {
		t.Fatal("10-day intake reported sufficient against 14-day threshold")
	}
}
