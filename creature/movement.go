package creature

import (
	"math/rand"

	"github.com/pthm-cable/lumen/beat"
)

// Movement constants.
const (
	socialRadius     = 30.0  // Attraction beyond, repulsion within
	socialRange      = 180.0 // Neighbors farther than this exert no force
	memorySeekChance = 0.3   // Per-tick chance to chase a memory
	maxSpeed         = 90.0  // World units per second before species scaling
	bondPull         = 12.0  // Extra attraction toward bonded entities
)

// Update advances one entity by dt using read-only access to the previous
// tick's population snapshot. It never mutates other entities; cross-entity
// effects (predation, hives, warfare) belong to the ecosystem passes.
func (e *Entity) Update(dt float32, bs beat.State, prev []Entity, self int, cosmicTime float64, params *Params, rng *rand.Rand) {
	if e.Inert() {
		e.Vel = Vec2{}
		return
	}

	var fx, fy float32

	// Memory-seeking force: probabilistic, weighted by fragment intensity.
	if e.Memories.Count > 0 && rng.Float32() < memorySeekChance {
		frag := e.Memories.Fragments[rng.Intn(int(e.Memories.Count))]
		dx, dy := ToroidalDelta(e.Pos.X, e.Pos.Y, frag.Pos.X, frag.Pos.Y, params.WorldW, params.WorldH)
		dist := fastSqrt(dx*dx + dy*dy)
		if dist > 1 {
			fx += dx / dist * frag.Intensity * 20
			fy += dy / dist * frag.Intensity * 20
		}
	}

	// Species-specific exploration force.
	ex, ey := e.explorationForce(cosmicTime, rng)
	fx += ex * e.Personality.Playfulness
	fy += ey * e.Personality.Playfulness

	// Social force over the snapshot: attraction beyond socialRadius,
	// repulsion within, scaled by the pairwise interaction table.
	sx, sy := e.socialForce(prev, self, params)
	fx += sx
	fy += sy

	// Beat drops kick a burst of energy into movement.
	if bs.IsBeatDrop {
		fx *= 1.0 + bs.Intensity*0.5
		fy *= 1.0 + bs.Intensity*0.5
	}

	// Integrate with species velocity scaling.
	scale := params.Species[e.Species].VelocityScale
	e.Vel.X += fx * dt * scale
	e.Vel.Y += fy * dt * scale

	// Reality-distortion rotation: accumulated chaos bends the velocity
	// vector, which reads as "warped" movement without changing speed.
	if e.RealityDistortion > 0.01 {
		angle := e.RealityDistortion * e.Personality.ChaosAffinity * fastSin(float32(cosmicTime)*2) * dt
		cos := fastCos(angle)
		sin := fastSin(angle)
		vx := e.Vel.X*cos - e.Vel.Y*sin
		vy := e.Vel.X*sin + e.Vel.Y*cos
		e.Vel.X = vx
		e.Vel.Y = vy
	}

	// Drag and speed clamp.
	e.Vel.X *= 0.98
	e.Vel.Y *= 0.98
	speed := fastSqrt(e.Vel.X*e.Vel.X + e.Vel.Y*e.Vel.Y)
	limit := float32(maxSpeed) * scale
	if speed > limit {
		k := limit / speed
		e.Vel.X *= k
		e.Vel.Y *= k
	}

	e.Pos.X = wrap(e.Pos.X+e.Vel.X*dt, params.WorldW)
	e.Pos.Y = wrap(e.Pos.Y+e.Vel.Y*dt, params.WorldH)

	// Occasionally remember where we are; strong experiences imprint harder.
	if rng.Float32() < 0.005 {
		e.Memories.Remember(e.Pos, 0.3+e.EmotionalState*0.7)
	}
	e.Memories.Decay(dt)
}

// explorationForce returns the species-specific wander impulse.
func (e *Entity) explorationForce(cosmicTime float64, rng *rand.Rand) (float32, float32) {
	switch e.Species {
	case SpeciesRadiant:
		// Pure random walk, re-rolled every tick.
		return (rng.Float32() - 0.5) * 40, (rng.Float32() - 0.5) * 40

	case SpeciesUmbral:
		// Quantum-phase-driven circling; the phase advances irregularly.
		e.QuantumPhase += 0.05 + e.ChaosFactor*0.1
		e.QuantumPhase = normalizeAngle(e.QuantumPhase)
		return fastCos(e.QuantumPhase) * 25, fastSin(e.QuantumPhase) * 25

	default: // SpeciesCrystalline
		// Time-spiral: slow outward spiral keyed to cosmic time.
		t := float32(cosmicTime) * 0.3
		r := 10 + fastSin(t*0.1)*8
		return fastCos(t) * r, fastSin(t) * r
	}
}

// socialForce sums pairwise attraction/repulsion over the snapshot.
func (e *Entity) socialForce(prev []Entity, self int, params *Params) (float32, float32) {
	var fx, fy float32

	for i := range prev {
		if i == self || prev[i].Inert() {
			continue
		}
		other := &prev[i]

		dx, dy := ToroidalDelta(e.Pos.X, e.Pos.Y, other.Pos.X, other.Pos.Y, params.WorldW, params.WorldH)
		distSq := dx*dx + dy*dy
		if distSq > socialRange*socialRange || distSq < 0.01 {
			continue
		}
		dist := fastSqrt(distSq)

		strength := params.InteractionStrength(e.Species, other.Species) * e.Personality.Sociability
		var mag float32
		if dist < socialRadius {
			// Personal space: always repel, harder the closer.
			mag = -(socialRadius - dist) / socialRadius * 30
		} else {
			mag = strength * (1 - dist/socialRange) * 10
			// Bonded pairs pull together regardless of the species table.
			if e.Bonds.Has(int32(i)) {
				mag += bondPull * (1 - dist/socialRange)
			}
		}

		fx += dx / dist * mag
		fy += dy / dist * mag
	}

	return fx, fy
}
