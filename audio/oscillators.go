package audio

import "math"

const (
	goldenRatio = 1.618033988749895
	twoPi       = 2 * math.Pi
)

// smallPrimes indexes the prime-harmonic oscillator. Walking the table
// slowly steps the modulation through non-repeating harmonic territory.
var smallPrimes = [...]float64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}

// fibTable feeds the Fibonacci oscillator; ratios of successive entries
// converge on the golden ratio, so the two oscillators drift in and out of
// agreement.
var fibTable = [...]float64{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144}

// primeHarmonic returns a [-1, 1] modulation tone whose frequency steps
// through the prime table every four seconds.
func primeHarmonic(t float64) float64 {
	idx := int(t*0.25) % len(smallPrimes)
	if idx < 0 {
		idx += len(smallPrimes)
	}
	return math.Sin(twoPi * t * smallPrimes[idx] * 0.1)
}

// goldenOsc returns a [-1, 1] tone at a golden-ratio-derived frequency with
// a slowly precessing phase. Irrational period means it never locks to the
// other oscillators.
func goldenOsc(t float64) float64 {
	return math.Sin(twoPi*t/goldenRatio + t*goldenRatio*0.1)
}

// fibonacciOsc returns a [-1, 1] tone whose frequency walks the Fibonacci
// table every two seconds.
func fibonacciOsc(t float64) float64 {
	idx := int(t*0.5) % len(fibTable)
	if idx < 0 {
		idx += len(fibTable)
	}
	return math.Sin(twoPi * t * fibTable[idx] * 0.05)
}

// harmonicStack layers the tier's harmonic partials above the fundamental
// with 1/n amplitude rolloff, normalized so deeper stacks thicken the timbre
// without getting louder. Returns 0 when the tier has no partials beyond the
// fundamental.
func harmonicStack(t, baseFreq float64, n int) float64 {
	if n < 2 {
		return 0
	}
	var sum, norm float64
	for k := 2; k <= n; k++ {
		a := 1 / float64(k)
		sum += a * math.Sin(twoPi*baseFreq*float64(k)*t)
		norm += a
	}
	return 0.25 * sum / norm
}

/// pseudoNoise is a cheap deterministic noise stand-in: a sine at an
// inharmonically high frequency folded through a second sine. Good enough
// for texture, reproducible for tests.
func pseudoNoise(t float64) float64 {
	return math.Sin(t*12109.3) * math.Sin(t*7919.7)
}
