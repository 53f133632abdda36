package ecosystem

import "github.com/pthm-cable/lumen/creature"

// Resonance events are the user's only lever on the ecosystem: click cadence
// is classified upstream into one of three event kinds and queued here, to be
// consumed at the start of the next tick.

// SpawnEvent births new entities near a random point.
type SpawnEvent struct {
	Count     int
	Intensity float32 // Scales the newborns' starting consciousness
}

// TearEvent raises reality distortion across the whole population.
type TearEvent struct {
	Strength float32
}

// RippleEvent pushes a velocity impulse radiating from a random origin.
type RippleEvent struct {
	Amplitude float32
}

// ResonanceEvent is one queued user-cadence event.
type ResonanceEvent interface {
	apply(w *World)
}

// Enqueue queues an event for the next tick. Must be called from the
// simulation thread (the input handler runs on it).
func (w *World) Enqueue(ev ResonanceEvent) {
	w.pending = append(w.pending, ev)
}

// drainResonance applies and clears all queued events.
func (w *World) drainResonance() {
	for _, ev := range w.pending {
		ev.apply(w)
	}
	w.pending = w.pending[:0]
}

func (ev SpawnEvent) apply(w *World) {
	origin := creature.Vec2{
		X: w.rng.Float32() * w.params.WorldW,
		Y: w.rng.Float32() * w.params.WorldH,
	}
	spread := float32(w.cfg.Population.SpawnSpread)

	for i := 0; i < ev.Count; i++ {
		if w.liveCount() >= w.cfg.Population.Max {
			break
		}
		species := creature.Species(w.rng.Intn(int(creature.NumSpecies)))
		e := creature.NewEntity(species, w.params, w.rng)
		e.Pos.X = wrapCoord(origin.X+(w.rng.Float32()-0.5)*spread, w.params.WorldW)
		e.Pos.Y = wrapCoord(origin.Y+(w.rng.Float32()-0.5)*spread, w.params.WorldH)
		e.Consciousness *= 1 + ev.Intensity

		w.addEntity(e)
		w.events.Births++
	}
}

func (ev TearEvent) apply(w *World) {
	for i := range w.entities {
		e := &w.entities[i]
		if e.Inert() {
			continue
		}
		e.RealityDistortion = clampWar(e.RealityDistortion + ev.Strength)
		e.ChaosFactor = clampWar(e.ChaosFactor + ev.Strength*0.5)
	}
}

func (ev RippleEvent) apply(w *World) {
	origin := creature.Vec2{
		X: w.rng.Float32() * w.params.WorldW,
		Y: w.rng.Float32() * w.params.WorldH,
	}

	for i := range w.entities {
		e := &w.entities[i]
		if e.Inert() {
			continue
		}
		dx, dy := creature.ToroidalDelta(origin.X, origin.Y, e.Pos.X, e.Pos.Y, w.params.WorldW, w.params.WorldH)
		dist := sqrt32(dx*dx + dy*dy)
		if dist < 1 {
			continue
		}
		// Push outward from the origin, fading with distance.
		falloff := 1 / (1 + dist*0.01)
		e.Vel.X += dx / dist * ev.Amplitude * falloff
		e.Vel.Y += dy / dist * ev.Amplitude * falloff
	}
}
