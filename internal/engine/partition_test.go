package engine

import (
	"math"
	"testing"
)

func TestEnergyDensityMissingBodyFat(t *testing.T) {
	cfg := DefaultConfig()
	rho, fromBodyFat := EnergyDensity(80, 0, false, cfg)
	if rho != cfg.DefaultRho {
		t.Fatalf("rho = %v, want population default %v", rho, cfg.DefaultRho)
	}
	if fromBodyFat {
		t.Fatal("missing body fat reported as measured")
	}
}

func TestEnergyDensityLeanAsymptote(t *testing.T) {
	cfg := DefaultConfig()
	// Zero body fat: partition fraction 0, all change is lean tissue.
	rho, fromBodyFat := EnergyDensity(70, 0, true, cfg)
	if !fromBodyFat {
		t.Fatal("measured body fat reported as estimated")
	}
	if rho != cfg.LeanEnergy {
		t.Fatalf("rho at b=0 = %v, want lean constant %v", rho, cfg.LeanEnergy)
	}
}

func TestEnergyDensityFatAsymptote(t *testing.T) {
	cfg := DefaultConfig()
	// Fat mass >> Forbes constant: partition fraction approaches 1.
	rho, _ := EnergyDensity(1e9, 1, true, cfg)
	if math.Abs(rho-cfg.FatEnergy) > 1 {
		t.Fatalf("rho at p->1 = %v, want ~%v", rho, cfg.FatEnergy)
	}
}

func TestEnergyDensityTypicalComposition(t *testing.T) {
	cfg := DefaultConfig()
	// 80 kg at 25% body fat: fm=20, p=20/30.4.
	rho, _ := EnergyDensity(80, 0.25, true, cfg)
	p := 20.0 / (20.0 + cfg.ForbesC)
	want := cfg.FatEnergy*p + cfg.LeanEnergy*(1-p)
	if math.Abs(rho-want) > 1e-9 {
		t.Fatalf("rho = %v, want %v", rho, want)
	}
	if rho <= cfg.LeanEnergy || rho >= cfg.FatEnergy {
		t.Fatalf("rho = %v outside (%v, %v)", rho, cfg.LeanEnergy, cfg.FatEnergy)
	}
}
