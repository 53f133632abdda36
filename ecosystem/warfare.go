package ecosystem

import "github.com/pthm-cable/lumen/creature"

// SpeciesConflict is one open territorial war between two species, anchored
// to the contested point where it broke out.
type SpeciesConflict struct {
	Attacker creature.Species
	Defender creature.Species
	Center   creature.Vec2

	// VictoryThreshold is the strength ratio either side must exceed to
	// win, randomized at conflict start.
	VictoryThreshold float32
	Age              float32 // Seconds since the conflict opened
	Timeout          float32 // Seconds until a draw
}

// updateWarfare resolves open conflicts against locally-weighted strength
// totals and probes for new flashpoints.
func (w *World) updateWarfare(dt float32) {
	cfg := w.cfg.Warfare

	kept := w.conflicts[:0]
	for _, c := range w.conflicts {
		c.Age += dt
		if c.Age >= c.Timeout {
			w.events.ConflictsResolved++
			continue // Stalemate, no transfer
		}

		atk := w.localStrength(c.Attacker, c.Center, float32(cfg.InfluenceRadius))
		def := w.localStrength(c.Defender, c.Center, float32(cfg.InfluenceRadius))

		switch {
		case def > 0 && atk/def > c.VictoryThreshold:
			w.resolveConflict(c, c.Attacker, c.Defender)
			continue
		case atk > 0 && def/atk > c.VictoryThreshold:
			w.resolveConflict(c, c.Defender, c.Attacker)
			continue
		case atk == 0 || def == 0:
			w.events.ConflictsResolved++
			continue // One side abandoned the territory
		}

		w.stokeParticipation(c, dt)
		kept = append(kept, c)
	}
	w.conflicts = kept

	w.probeFlashpoints()
}

// localStrength sums a species' consciousness within the influence radius,
// weighted down linearly with distance from the contested point.
func (w *World) localStrength(s creature.Species, center creature.Vec2, radius float32) float32 {
	pop := w.entities
	w.neighborScratch = w.neighborScratch[:0]
	w.neighborScratch = w.grid.QueryRadiusInto(w.neighborScratch, center.X, center.Y, radius, -1, pop)

	var total float32
	for _, n := range w.neighborScratch {
		if pop[n.Index].Species != s {
			continue
		}
		weight := 1 - sqrt32(n.DistSq)/radius
		if weight < 0 {
			weight = 0
		}
		total += pop[n.Index].Consciousness * weight
	}
	return total
}

// resolveConflict performs the one-shot stat transfer from the losing side
// to the winners near the contested point.
func (w *World) resolveConflict(c SpeciesConflict, winner, loser creature.Species) {
	pop := w.entities
	cfg := w.cfg.Warfare
	radius := float32(cfg.InfluenceRadius)
	fraction := float32(cfg.TransferFraction)

	w.neighborScratch = w.neighborScratch[:0]
	w.neighborScratch = w.grid.QueryRadiusInto(w.neighborScratch, c.Center.X, c.Center.Y, radius, -1, pop)

	var seized float32
	winners := 0
	for _, n := range w.neighborScratch {
		e := &pop[n.Index]
		switch e.Species {
		case loser:
			take := e.Consciousness * fraction
			e.Consciousness -= take
			seized += take
		case winner:
			winners++
		}
	}

	if winners > 0 {
		share := seized / float32(winners)
		for _, n := range w.neighborScratch {
			e := &pop[n.Index]
			if e.Species == winner {
				e.Consciousness += share
				e.TerritorialDominance += 0.1
			}
		}
	}

	w.events.ConflictsResolved++
}

// stokeParticipation marks entities inside an active conflict zone. How fast
// an entity is drawn in scales with its aggression trait.
func (w *World) stokeParticipation(c SpeciesConflict, dt float32) {
	pop := w.entities
	w.neighborScratch = w.neighborScratch[:0]
	w.neighborScratch = w.grid.QueryRadiusInto(w.neighborScratch, c.Center.X, c.Center.Y, float32(w.cfg.Warfare.InfluenceRadius), -1, pop)

	for _, n := range w.neighborScratch {
		e := &pop[n.Index]
		if e.Species == c.Attacker || e.Species == c.Defender {
			bias := 0.5 + e.Personality.Aggression/creature.TraitMax
			e.WarfareParticipation = clampWar(e.WarfareParticipation + 0.3*bias*dt)
		}
	}
}

// probeFlashpoints samples a few random entities per tick and opens a
// conflict where cross-species density crosses the threshold.
func (w *World) probeFlashpoints() {
	pop := w.entities
	cfg := w.cfg.Warfare
	if len(pop) == 0 || len(w.conflicts) >= 4 {
		return
	}

	for probe := 0; probe < 3; probe++ {
		i := w.rng.Intn(len(pop))
		e := &pop[i]
		if e.Inert() {
			continue
		}

		w.neighborScratch = w.neighborScratch[:0]
		w.neighborScratch = w.grid.QueryRadiusInto(w.neighborScratch, e.Pos.X, e.Pos.Y, float32(cfg.TerritoryRadius), int32(i), pop)

		hostile := 0
		var foe creature.Species
		for _, n := range w.neighborScratch {
			if pop[n.Index].Species != e.Species {
				hostile++
				foe = pop[n.Index].Species
			}
		}
		if hostile < cfg.DensityThreshold || w.rng.Float64() >= cfg.OpenChance {
			continue
		}
		if w.conflictBetween(e.Species, foe) {
			continue
		}

		w.conflicts = append(w.conflicts, SpeciesConflict{
			Attacker:         e.Species,
			Defender:         foe,
			Center:           e.Pos,
			VictoryThreshold: float32(cfg.VictoryMin) + w.rng.Float32()*float32(cfg.VictoryMax-cfg.VictoryMin),
			Timeout:          float32(cfg.TimeoutMin) + w.rng.Float32()*float32(cfg.TimeoutMax-cfg.TimeoutMin),
		})
		w.events.ConflictsOpened++
	}
}

// conflictBetween reports whether the species pair already has an open
// conflict in either orientation.
func (w *World) conflictBetween(a, b creature.Species) bool {
	for _, c := range w.conflicts {
		if (c.Attacker == a && c.Defender == b) || (c.Attacker == b && c.Defender == a) {
			return true
		}
	}
	return false
}

func clampWar(x float32) float32 {
	if x > 1 {
		return 1
	}
	return x
}
