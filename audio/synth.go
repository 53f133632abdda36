package audio

import (
	"math"

	"github.com/pthm-cable/lumen/beat"
	"github.com/pthm-cable/lumen/config"
)

// Synth turns snapshot state into samples. Mutable state is limited to the
// reverb delay line, the HUD envelope followers, and the previous-sample
// memory they need. Safe for a single audio callback goroutine.
type Synth struct {
	sampleRate float64
	masterGain float64

	// Single-tap feedback delay for the per-tier reverb amount.
	echo    []float64
	echoPos int

	bassEnv   float32
	trebleEnv float32
	prev      float64
}

// echoSeconds is the reverb tap length. Loop gain stays well under unity, so
// the feedback path cannot diverge.
const echoSeconds = 0.11

// NewSynth creates a synth from the audio configuration.
func NewSynth(cfg config.AudioConfig) *Synth {
	return &Synth{
		sampleRate: float64(cfg.SampleRate),
		masterGain: cfg.MasterGain,
		echo:       make([]float64, int(echoSeconds*float64(cfg.SampleRate))),
	}
}

// Sample produces one output sample for the given instant. Called at device
// sample rate, decoupled from the simulation tick; all simulation-derived
// inputs come from the latest published snapshot.
func (s *Synth) Sample(sampleTime float64, bs beat.State, env Environment, totalConsciousness float32, speciesCounts [3]int) float32 {
	cfg := env.Config()

	// Base frequency modulated by the three mathematical oscillators, then
	// by the beat's prime factor.
	mod := 1 + 0.06*primeHarmonic(sampleTime) + 0.05*goldenOsc(sampleTime) + 0.04*fibonacciOsc(sampleTime)
	base := cfg.BaseFreq * mod * (1 + float64(bs.PrimeFactor)*0.15)

	out := moodSample(sampleTime, base, moodDegrees(env))
	out += harmonicStack(sampleTime, base, cfg.Harmonics)
	out += speciesSample(sampleTime, base, speciesCounts)
	out += cfg.Noise * 0.5 * pseudoNoise(sampleTime)

	// A faint shimmer at the cosmic frequency grows with consciousness,
	// saturating well below unity.
	shimmer := math.Min(float64(totalConsciousness)*0.001, 0.1)
	out += shimmer * math.Sin(twoPi*float64(bs.CosmicFrequency)*sampleTime)

	chaos := cfg.Chaos * (0.5 + 0.5*float64(bs.PrimeFactor))
	out = applyEffects(out, sampleTime, base, chaos)

	// Reverb: one feedback tap, mixed in at the tier's amount. Write after
	// read so the stored signal includes the wet component.
	if cfg.Reverb > 0 && len(s.echo) > 0 {
		out += s.echo[s.echoPos] * cfg.Reverb * 0.5
		s.echo[s.echoPos] = out * 0.35
		s.echoPos = (s.echoPos + 1) % len(s.echo)
	}

	if cfg.Distortion > 0 {
		out = math.Tanh(out * (1 + cfg.Distortion*2))
	}

	if bs.IsBeatDrop {
		out *= 1 + 0.2*float64(bs.Intensity)
	}

	out *= s.masterGain
	if out > 1 {
		out = 1
	} else if out < -1 {
		out = -1
	}

	s.follow(out, cfg)
	return float32(out)
}

// follow updates the HUD envelope followers. Bass tracks overall level, treble
// tracks the sample-to-sample difference. Visualization only; the values are
// never fed back into synthesis.
func (s *Synth) follow(out float64, cfg SynthConfig) {
	level := float32(math.Abs(out) * cfg.Bass)
	hi := float32(math.Abs(out-s.prev) * 10 * cfg.Treble)
	s.prev = out

	s.bassEnv = ease(s.bassEnv, level, 0.01, 0.001)
	s.trebleEnv = ease(s.trebleEnv, hi, 0.05, 0.002)
}

// BassLevel returns the smoothed low-band envelope for HUD bars.
func (s *Synth) BassLevel() float32 { return s.bassEnv }

// TrebleLevel returns the smoothed high-band envelope for HUD bars.
func (s *Synth) TrebleLevel() float32 { return s.trebleEnv }

// ease moves cur toward target with separate attack and release rates.
func ease(cur, target, attack, release float32) float32 {
	if target > cur {
		return cur + (target-cur)*attack
	}
	return cur + (target-cur)*release
}
