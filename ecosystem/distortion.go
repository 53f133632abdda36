package ecosystem

import (
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/lumen/creature"
)

// DistortionField is the ambient reality-distortion layer: a slowly
// animating noise field that sets each entity's distortion baseline, plus
// fixed crystal nodes that Crystalline entities harvest for territorial
// dominance.
type DistortionField struct {
	noise     opensimplex.Noise
	scale     float64
	timeSpeed float64
	strength  float64

	crystals []creature.Vec2
}

// harvestRadius is how close a Crystalline entity must be to a crystal node
// to harvest from it.
const harvestRadius = 60.0

// NewDistortionField builds the field and scatters crystal nodes.
func NewDistortionField(scale, timeSpeed, strength float64, crystals int, worldW, worldH float32, rng *rand.Rand) *DistortionField {
	f := &DistortionField{
		noise:     opensimplex.New(rng.Int63()),
		scale:     scale,
		timeSpeed: timeSpeed,
		strength:  strength,
	}
	for i := 0; i < crystals; i++ {
		f.crystals = append(f.crystals, creature.Vec2{
			X: rng.Float32() * worldW,
			Y: rng.Float32() * worldH,
		})
	}
	return f
}

// Sample returns the distortion baseline at a position, in [0, strength].
func (f *DistortionField) Sample(x, y float32, t float64) float32 {
	n := f.noise.Eval3(float64(x)*f.scale, float64(y)*f.scale, t*f.timeSpeed)
	return float32((n + 1) * 0.5 * f.strength)
}

// Crystals exposes the node positions for rendering.
func (f *DistortionField) Crystals() []creature.Vec2 {
	return f.crystals
}

// applyDistortion raises each entity's distortion toward the local field
// baseline and lets Crystalline entities harvest nearby crystal nodes.
func (w *World) applyDistortion(dt float32) {
	pop := w.entities

	for i := range pop {
		e := &pop[i]
		if e.Inert() {
			continue
		}

		baseline := w.distortion.Sample(e.Pos.X, e.Pos.Y, w.cosmicTime)
		if e.RealityDistortion < baseline {
			e.RealityDistortion += (baseline - e.RealityDistortion) * 0.1
		}

		if e.Species != creature.SpeciesCrystalline {
			continue
		}
		for _, c := range w.distortion.Crystals() {
			dx, dy := creature.ToroidalDelta(e.Pos.X, e.Pos.Y, c.X, c.Y, w.params.WorldW, w.params.WorldH)
			if dx*dx+dy*dy < harvestRadius*harvestRadius {
				// Harvest: bounded dominance gain, strongest at the node.
				e.TerritorialDominance += 0.05 * dt
				if e.TerritorialDominance > 3 {
					e.TerritorialDominance = 3
				}
				break
			}
		}
	}
}
