package ecosystem

// updateEvolution accumulates tick time and applies species fitness pressure
// at the configured interval. Struggling species accrue extinction pressure
// and decay; thriving species get a consciousness bonus; entities past the
// collapse point slide into soft death.
func (w *World) updateEvolution(dt float32) {
	cfg := w.cfg.Evolution
	w.evolutionClock += float64(dt)
	if w.evolutionClock < cfg.Interval {
		return
	}
	w.evolutionClock -= cfg.Interval

	pop := w.entities

	var fitness [3]float32
	var counts [3]int
	for i := range pop {
		if pop[i].Inert() {
			continue
		}
		s := pop[i].Species
		fitness[s] += pop[i].Consciousness + pop[i].TerritorialDominance - pop[i].ExtinctionPressure
		counts[s]++
	}

	var best float32
	for s := range fitness {
		if counts[s] > 0 {
			fitness[s] /= float32(counts[s])
		}
		if fitness[s] > best {
			best = fitness[s]
		}
	}
	if best <= 0 {
		return
	}

	for i := range pop {
		e := &pop[i]
		if e.Inert() {
			continue
		}
		rel := fitness[e.Species] / best

		switch {
		case rel < float32(cfg.StruggleBelow):
			e.ExtinctionPressure = clampWar(e.ExtinctionPressure + float32(cfg.PressureRate))
			e.Consciousness *= 1 - float32(cfg.DecayRate)
		case rel > float32(cfg.ThriveAbove):
			e.Consciousness += float32(cfg.ThriveBonus)
			e.ExtinctionPressure *= 0.9
		}

		if e.ExtinctionPressure > float32(cfg.CollapsePoint) {
			// Soft death: accelerate toward inert rather than deleting, so
			// indices held by hives and predation events never dangle.
			e.Consciousness *= 0.5
			if e.Inert() {
				w.events.Deaths++
			}
		}
	}
}
