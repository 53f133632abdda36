// Package beat derives the master rhythm signal from elapsed time.
//
// Every downstream system (entity chaos, audio synthesis, render pulsing)
// consumes the same per-tick State, so the engine is deliberately cheap:
// a prime-table lookup, a handful of trig terms, and a decaying feedback
// accumulator. There are no fallible operations, only numeric saturation.
package beat

import (
	"math"
	"math/rand"
)

// primeCount is the length of the prime sequence indexed by scaled time.
const primeCount = 1000

// State is the per-tick rhythm signal. It is ephemeral: recomputed on every
// Advance call and never persisted.
type State struct {
	IsBeatDrop      bool    // True on one of the three overlapping drop triggers
	Intensity       float32 // [0, 1] after clamping ([0, 2] pre-clamp)
	Phase           float32 // [0, 1) position within the current beat cycle
	PrimeFactor     float32 // [0, 1] prime-derived chaos factor
	CosmicFrequency float32 // Detuned multiple of 440 Hz
}

// Engine produces beat states from elapsed time plus internal smoothing state.
type Engine struct {
	primes []int
	rng    *rand.Rand

	baseTempo     float64
	tempoSwing    float64
	dropWindow    float64
	chaosDropProb float64
	accumDecay    float64

	// Smoothing state, mutated in place on every Advance
	cosmicTempo     float64
	phaseOffset     float64
	beatAccumulator float64
}

// NewEngine creates a beat engine. The rng drives only the low-probability
// chaos-roll drop trigger; seed it for reproducible tests.
func NewEngine(baseTempo, tempoSwing, dropWindow, chaosDropProb, accumDecay float64, rng *rand.Rand) *Engine {
	return &Engine{
		primes:        primeTable(primeCount),
		rng:           rng,
		baseTempo:     baseTempo,
		tempoSwing:    tempoSwing,
		dropWindow:    dropWindow,
		chaosDropProb: chaosDropProb,
		accumDecay:    accumDecay,
		cosmicTempo:   baseTempo,
	}
}

// Advance computes the beat state for the given elapsed time in seconds.
func (e *Engine) Advance(elapsed float64) State {
	// Sample the n-th prime where n is derived from scaled elapsed time.
	idx := int(math.Floor(elapsed*0.5)) % len(e.primes)
	if idx < 0 {
		idx += len(e.primes)
	}
	prime := e.primes[idx]

	// Normalize prime mod 100 to [0,1] and mix in a mod-7 chaos term.
	primeFactor := float64(prime%100)/100.0*0.7 + float64(prime%7)/7.0*0.3
	primeFactor = clamp(primeFactor, 0, 1)

	// Tempo follows the prime factor; phase follows the tempo.
	e.cosmicTempo = e.baseTempo + primeFactor*e.tempoSwing
	phase := math.Mod(elapsed*e.cosmicTempo/60.0+e.phaseOffset, 1.0)
	if phase < 0 {
		phase += 1.0
	}

	// Three overlapping drop triggers so beats feel organic, not metronomic:
	// cycle boundary, 4x harmonic under high prime factor, and a rare chaos roll.
	drop := phase < e.dropWindow || phase > 1.0-e.dropWindow
	if !drop && primeFactor > 0.6 {
		harmonic := math.Mod(phase*4.0, 1.0)
		drop = harmonic < e.dropWindow/2 || harmonic > 1.0-e.dropWindow/2
	}
	if !drop && primeFactor > 0.9 && e.rng.Float64() < e.chaosDropProb {
		drop = true
	}

	if drop {
		e.beatAccumulator += 0.5
	}
	e.beatAccumulator *= e.accumDecay

	// Intensity: sine envelope of phase, prime-driven modulation, a chaotic
	// cross-term from two incommensurate frequencies, and the accumulator.
	envelope := math.Sin(phase * math.Pi)
	modulation := 0.7 + primeFactor*0.6
	chaotic := math.Sin(elapsed*2.718281828) * math.Cos(elapsed*1.414213562) * 0.2
	intensity := clamp(envelope*modulation+chaotic+e.beatAccumulator, 0, 1)

	// Slow phase drift keeps long sessions from locking to wall time.
	e.phaseOffset = math.Mod(e.phaseOffset+primeFactor*0.0001, 1.0)

	cosmic := 440.0 * (1.0 + primeFactor*0.5)

	return State{
		IsBeatDrop:      drop,
		Intensity:       float32(intensity),
		Phase:           float32(phase),
		PrimeFactor:     float32(primeFactor),
		CosmicFrequency: float32(cosmic),
	}
}

// Tempo returns the current cosmic tempo in BPM.
func (e *Engine) Tempo() float64 {
	return e.cosmicTempo
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
