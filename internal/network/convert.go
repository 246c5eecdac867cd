package network

// AnnualProbability converts a stratum odds ratio into a patient-specific
// annual transition probability, given the target condition's baseline
// population incidence. The adjusted odds are OR * p0/(1-p0); the result is
// clamped to [0, maxAnnual].
//
// This is the single conversion point from population epidemiology to an
// annual risk estimate; nothing else in the engine touches odds ratios.
func AnnualProbability(oddsRatio, baselineIncidence, maxAnnual float64) float64 {
	if oddsRatio <= 0 || baselineIncidence <= 0 || baselineIncidence >= 1 {
		return 0
	}
	baseOdds := baselineIncidence / (1 - baselineIncidence)
	adjusted := oddsRatio * baseOdds
	p := adjusted / (1 + adjusted)
	if p < 0 {
		return 0
	}
	if p > maxAnnual {
		return maxAnnual
	}
	return p
}
