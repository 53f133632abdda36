package creature

import (
	"math/rand"

	"github.com/pthm-cable/lumen/beat"
)

// Grow advances consciousness, awareness, and the chaos/emotional scalars by
// one tick. All outputs are clamped at the mutation site; there is no global
// invariant pass.
func (e *Entity) Grow(dt float32, bs beat.State, params *Params, rng *rand.Rand) {
	if e.Inert() {
		return
	}

	mult := params.Species[e.Species].ConsciousnessMultiplier

	// Base growth: curiosity-driven, amplified by beat intensity, plus a
	// chaos-derived term that rewards entities surfing the distortion.
	growth := 0.01 * (1 + bs.Intensity) * e.Personality.Curiosity
	growth += e.ChaosFactor * bs.PrimeFactor * 0.005
	growth *= mult * dt * 60 // Normalize to per-second at the reference tick rate

	e.Consciousness += growth
	if e.Consciousness < 0 {
		e.Consciousness = 0
	}

	// Awareness trails consciousness, saturating at 1.
	e.AwarenessLevel = clamp32(e.AwarenessLevel+growth*0.1, 0, 1)

	// Chaos factor follows the beat's prime factor through chaos affinity,
	// with slow decay so calm stretches actually calm entities down.
	target := bs.PrimeFactor * e.Personality.ChaosAffinity / TraitMax
	e.ChaosFactor += (target - e.ChaosFactor) * 0.05
	e.ChaosFactor = clamp32(e.ChaosFactor, 0, 1)

	// Trip intensity spikes on drops, decays otherwise.
	if bs.IsBeatDrop {
		e.TripIntensity = clamp32(e.TripIntensity+bs.Intensity*0.3, 0, 1)
	} else {
		e.TripIntensity = clamp32(e.TripIntensity-0.2*dt, 0, 1)
	}

	// Reality distortion accumulates from chaos, bleeds off slowly.
	e.RealityDistortion = clamp32(e.RealityDistortion+e.ChaosFactor*0.01*dt*60-0.05*dt, 0, 1)

	// Emotional state random-walks, pulled toward calm.
	e.EmotionalState += (rng.Float32() - 0.5) * 0.02
	e.EmotionalState += (0.5 - e.EmotionalState) * 0.01
	e.EmotionalState = clamp32(e.EmotionalState, 0, 1)

	// Warfare participation cools off when nothing is feeding it.
	e.WarfareParticipation = clamp32(e.WarfareParticipation-0.02*dt, 0, 1)
}
