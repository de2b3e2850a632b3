package engine

// EnergyDensity maps body composition to the energy density of weight
// change (kcal/kg) using the Forbes two-compartment model: the fraction
// of a weight change drawn from fat mass is p = fm/(fm+C), and rho
// interpolates between the fat and lean tissue energy constants. When
// no body-fat reading is available the population default applies and
// fromBodyFat is false.
func EnergyDensity(weightKg, bodyFatFrac float64, hasBodyFat bool, cfg Config) (rho float64, fromBodyFat bool) {
	if !hasBodyFat {
		return cfg.DefaultRho, false
	}

	fatMass := bodyFatFrac * weightKg
	p := fatMass / (fatMass + cfg.ForbesC)
	return cfg.FatEnergy*p + cfg.LeanEnergy*(1-p), true
}
