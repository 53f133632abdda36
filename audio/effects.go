package audio

import "math"

// Chaos thresholds for the consciousness-driven effect chain. Effects are
// cumulative: high chaos gets all three. Harsher treatments (bit-crush,
// ring modulation) were tried here and dropped for listener comfort.
const (
	vibratoThreshold = 0.25
	chorusThreshold  = 0.50
	enhanceThreshold = 0.75
)

// applyEffects runs the chaos-gated chain over one sample. Each stage is
// amplitude-bounded; the caller still hard-clamps afterward.
func applyEffects(s, t, baseFreq, chaos float64) float64 {
	if chaos > vibratoThreshold {
		// Slow tremolo standing in for vibrato; depth scales with chaos.
		depth := 0.1 + 0.1*(chaos-vibratoThreshold)
		s *= 1 + depth*math.Sin(twoPi*6.3*t)
	}
	if chaos > chorusThreshold {
		// Mix in a slightly detuned voice of the fundamental.
		s = s*0.8 + 0.2*math.Sin(twoPi*baseFreq*1.007*t)
	}
	if chaos > enhanceThreshold {
		// Harmonic enhancement: add an octave scaled by the signal itself.
		s += 0.15 * math.Sin(twoPi*baseFreq*2*t) * math.Abs(s)
	}
	return s
}
