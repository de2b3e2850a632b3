package model

import (
	"encoding/json"
	"testing"
)

func TestRegressionResultFlags(t *testing.T) {
	r := RegressionResult{Slope: -1.0, RawSlope: -1.4, N: 20}
	if !r.Defined() {
		t.Fatal("fit with N=20 not Defined")
	}
	if !r.Clamped() {
		t.Fatal("slope differing from raw not Clamped")
	}
	if (RegressionResult{N: 1}).Defined() {
		t.Fatal("single-day fit reported Defined")
	}
	if (RegressionResult{Slope: 0.2, RawSlope: 0.2}).Clamped() {
		t.Fatal("unclamped slope reported Clamped")
	}
}

func TestConfidenceSufficient(t *testing.T) {
	c := ConfidenceScore{N: 7, SpanDays: 14, MinCount: 7, WindowDays: 28}
	if !c.Sufficient() {
		t.Fatalf("score %+v not Sufficient", c)
	}
	if (ConfidenceScore{N: 6, SpanDays: 27, MinCount: 7, WindowDays: 28}).Sufficient() {
		t.Fatal("under-count score reported Sufficient")
	}
	if (ConfidenceScore{N: 20, SpanDays: 13, MinCount: 7, WindowDays: 28}).Sufficient() {
		t.Fatal("under-coverage score reported Sufficient")
	}
}

func TestEstimateFlagsDeriveFromFields(t *testing.T) {
	m := MaintenanceEstimate{
		Maintenance:    950,
		RawWeightSlope: -1.3,
		WeightSlope:    -1.0,
		RhoFromBodyFat: false,
	}
	if !m.SlopeClamped() {
		t.Fatal("SlopeClamped false with raw slope beyond clamped")
	}
	if !m.RhoEstimated() {
		t.Fatal("RhoEstimated false without body fat")
	}
	if !m.Suspect() {
		t.Fatal("maintenance below 1000 not Suspect")
	}

	// Flags survive a serialization round trip because they derive from
	// stored fields.
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got MaintenanceEstimate
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SlopeClamped() != m.SlopeClamped() || got.Suspect() != m.Suspect() {
		t.Fatal("derived flags changed across round trip")
	}
}

func TestBudgetFlags(t *testing.T) {
	b := BudgetEstimate{
		BaseBudget: 2000,
		Credit:     2000,
		Delta:      500,
		Budget:     2500,
		DaysLeft:   3,
	}
	if !b.DeltaClamped() {
		t.Fatal("delta below credit/daysLeft not flagged")
	}
	if b.BudgetClamped() {
		t.Fatal("budget equal to base+delta flagged")
	}

	floored := BudgetEstimate{BaseBudget: 900, Delta: 0, Budget: 1000, DaysLeft: 7}
	if !floored.BudgetClamped() {
		t.Fatal("floored budget not flagged")
	}
}

func TestBudgetDeltaClampedZeroDaysLeft(t *testing.T) {
	b := BudgetEstimate{Credit: 100, Delta: 0, DaysLeft: 0}
	if b.DeltaClamped() {
		t.Fatal("zero daysLeft must not report a clamped delta")
	}
}
