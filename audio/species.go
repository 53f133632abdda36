package audio

import "math"

// oscBank is one species' fixed oscillator bank: harmonic ratios over the
// current base frequency plus a ceiling on the bank's contribution.
type oscBank struct {
	ratios []float64
	amp    float64
}

// speciesBanks index by species: radiant rings with perfect harmonics,
// umbral detunes through golden-ratio and Fibonacci intervals, crystalline
// sits underneath in power-of-two sub-bass.
var speciesBanks = [3]oscBank{
	{ratios: []float64{1, 2, 3}, amp: 0.14},
	{ratios: []float64{goldenRatio, goldenRatio * goldenRatio, 13.0 / 8}, amp: 0.12},
	{ratios: []float64{0.5, 0.25}, amp: 0.16},
}

// speciesSample mixes the banks weighted by each species' population share.
// Total contribution is bounded by the sum of bank amplitudes regardless of
// population size.
func speciesSample(t, baseFreq float64, counts [3]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}

	var out float64
	for s, bank := range speciesBanks {
		share := float64(counts[s]) / float64(total)
		if share == 0 {
			continue
		}
		var sum float64
		for _, r := range bank.ratios {
			sum += math.Sin(twoPi * baseFreq * r * t)
		}
		out += share * bank.amp * sum / float64(len(bank.ratios))
	}
	return out
}
