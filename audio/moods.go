package audio

import "math"

// moodPeriods are the fade cycle lengths in seconds, all prime so the tone
// gates never realign exactly and the texture keeps evolving.
var moodPeriods = [...]float64{17, 19, 23, 29, 31}

// Scale-degree ratio sets for the three mood generators. Calm is an open
// major triad, drift leans minor with a flat seventh, surge stacks a lydian
// cluster for the high tiers.
var (
	calmDegrees  = [...]float64{1, 5.0 / 4, 3.0 / 2}
	driftDegrees = [...]float64{1, 6.0 / 5, 3.0 / 2, 9.0 / 5}
	surgeDegrees = [...]float64{1, 9.0 / 8, 5.0 / 4, 45.0 / 32, 15.0 / 8}
)

// moodDegrees selects the generator for a tier. The three generators are
// mutually exclusive; tiers share them in pairs.
func moodDegrees(env Environment) []float64 {
	switch {
	case env <= Meditative:
		return calmDegrees[:]
	case env <= Electronica:
		return driftDegrees[:]
	default:
		return surgeDegrees[:]
	}
}

// moodSample sums the generator's tones, each gated by a slow sine whose
// period comes from moodPeriods. Output is normalized to [-1, 1].
func moodSample(t, baseFreq float64, degrees []float64) float64 {
	var sum float64
	for i, d := range degrees {
		period := moodPeriods[i%len(moodPeriods)]
		gate := 0.5 + 0.5*math.Sin(twoPi*t/period)
		sum += gate * math.Sin(twoPi*baseFreq*d*t)
	}
	return sum / float64(len(degrees))
}
