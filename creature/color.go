package creature

import "github.com/pthm-cable/lumen/beat"

// UpdateColor drifts hue and saturation according to the species' color
// psychology. Hue stays inside the species band; saturation stays in [0, 1].
func (e *Entity) UpdateColor(dt float32, bs beat.State, params *Params) {
	if e.Inert() {
		return
	}

	sp := params.Species[e.Species]
	half := sp.HueRange / 2

	switch e.Species {
	case SpeciesRadiant:
		// Emotional hue drift plus a rhythmic pulse on every drop.
		e.Hue += (e.EmotionalState - 0.5) * 8 * dt * 60
		if bs.IsBeatDrop {
			e.Hue += bs.Intensity * half * 0.3
			e.Saturation = clamp32(e.Saturation+0.1, 0, 1)
		}

	case SpeciesUmbral:
		// Chaos drags the hue toward the violet end of the band.
		e.Hue += (e.ChaosFactor - 0.3) * 5 * dt * 60
		e.Saturation = clamp32(e.Saturation+(e.ChaosFactor-e.Saturation)*0.02, 0, 1)

	default: // SpeciesCrystalline
		// Glacial drift; saturation tracks consciousness.
		e.Hue += fastSin(e.QuantumPhase) * 0.5 * dt * 60
		target := clamp32(e.Consciousness*0.3, 0.3, 1)
		e.Saturation = clamp32(e.Saturation+(target-e.Saturation)*0.01, 0, 1)
	}

	// Keep hue inside the species band by reflecting off the edges.
	lo := sp.HueBase - half
	hi := sp.HueBase + half
	if e.Hue < lo {
		e.Hue = lo + (lo - e.Hue)
	}
	if e.Hue > hi {
		e.Hue = hi - (e.Hue - hi)
	}
	e.Hue = clamp32(e.Hue, lo, hi)

	e.Saturation = clamp32(e.Saturation-0.01*dt, 0, 1)
}
