package ecosystem

import "github.com/pthm-cable/lumen/creature"

// PredationEvent is one in-flight consciousness absorption. Both sides are
// indices into the entity slice; events abort when either side goes inert or
// the pair drifts out of range.
type PredationEvent struct {
	Predator int32
	Prey     int32
	Progress float32 // [0, 1); completion at >= 1
}

// updatePredation advances in-flight absorptions and opportunistically
// starts new ones.
func (w *World) updatePredation(dt float32) {
	pop := w.entities
	cfg := w.cfg.Predation
	rangeSq := float32(cfg.Range * cfg.Range)

	// Advance existing events.
	kept := w.predations[:0]
	for _, ev := range w.predations {
		pred := &pop[ev.Predator]
		prey := &pop[ev.Prey]

		if pred.Inert() || prey.Inert() {
			continue
		}
		dx, dy := creature.ToroidalDelta(pred.Pos.X, pred.Pos.Y, prey.Pos.X, prey.Pos.Y, w.params.WorldW, w.params.WorldH)
		if dx*dx+dy*dy > rangeSq {
			continue // Prey escaped
		}

		resistance := prey.Consciousness * (1 + prey.Personality.Dominance/creature.TraitMax*0.5 + w.empathySupport(ev.Prey, ev.Predator))
		delta := (pred.Consciousness - resistance) * dt * float32(cfg.ProgressRate)
		if delta < 0 {
			delta = 0
		}
		ev.Progress += delta

		// Proportional drain while the absorption runs. Transfer is
		// one-to-one so the pair's total never grows.
		drain := prey.Consciousness * delta * 0.1
		prey.Consciousness -= drain
		pred.Consciousness += drain

		if ev.Progress >= 1 {
			gain := float32(cfg.GainMin) + w.rng.Float32()*float32(cfg.GainMax-cfg.GainMin)
			pred.Consciousness += prey.Consciousness * gain
			prey.Consciousness = 0
			w.events.PredationsCompleted++
			continue
		}
		kept = append(kept, ev)
	}
	w.predations = kept

	// Start new events.
	for i := range pop {
		pred := &pop[i]
		if pred.Consciousness <= float32(cfg.MinConsciousness) || w.inPredation(int32(i)) {
			continue
		}
		if w.rng.Float64() >= cfg.StartChance {
			continue
		}

		w.neighborScratch = w.neighborScratch[:0]
		w.neighborScratch = w.grid.QueryRadiusInto(w.neighborScratch, pred.Pos.X, pred.Pos.Y, float32(cfg.Range), int32(i), pop)

		for _, n := range w.neighborScratch {
			prey := &pop[n.Index]
			if prey.Inert() || prey.Consciousness >= pred.Consciousness*float32(cfg.PreyRatio) {
				continue
			}
			if w.inPredation(n.Index) {
				continue
			}
			w.predations = append(w.predations, PredationEvent{Predator: int32(i), Prey: n.Index})
			w.events.PredationsStarted++
			break
		}
	}
}

// empathySupport is the extra resistance neighbors lend a hunted entity,
// summed from their empathy traits. Capped so even a dense empathic crowd at
// most doubles the prey's base resistance. The predator lends nothing.
func (w *World) empathySupport(prey, predator int32) float32 {
	pop := w.entities
	e := &pop[prey]

	w.neighborScratch = w.neighborScratch[:0]
	w.neighborScratch = w.grid.QueryRadiusInto(w.neighborScratch, e.Pos.X, e.Pos.Y, float32(w.cfg.Predation.Range), prey, pop)

	var total float32
	for _, n := range w.neighborScratch {
		if n.Index == predator {
			continue
		}
		total += pop[n.Index].Personality.Empathy
	}

	support := total / creature.TraitMax * 0.1
	if support > 1 {
		support = 1
	}
	return support
}

// inPredation reports whether the entity is already a side of any event.
func (w *World) inPredation(idx int32) bool {
	for _, ev := range w.predations {
		if ev.Predator == idx || ev.Prey == idx {
			return true
		}
	}
	return false
}
