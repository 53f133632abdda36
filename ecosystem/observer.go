package ecosystem

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/lumen/creature"
)

// observerState is the single global meta-observer: it watches ecosystem
// stability and intervenes at most once per configured interval, only when
// the ecosystem is genuinely unstable.
type observerState struct {
	sinceIntervention float64
	lastStability     float64
}

// Intervention kinds, chosen uniformly once the observer decides to act.
const (
	interventionBlessing = iota
	interventionPeace
	interventionScramble
	interventionRedistribute
	numInterventions
)

var interventionNames = [numInterventions]string{
	"blessing", "forced_peace", "reality_scramble", "redistribution",
}

// updateObserver recomputes stability and possibly intervenes.
func (w *World) updateObserver(dt float32) {
	cfg := w.cfg.Observer
	w.observer.sinceIntervention += float64(dt)

	stability := w.stability()
	w.observer.lastStability = stability

	if w.observer.sinceIntervention < cfg.MinInterval {
		return
	}
	if stability >= cfg.InstabilityLimit {
		return
	}

	kind := w.rng.Intn(numInterventions)
	switch kind {
	case interventionBlessing:
		w.blessWeakest()
	case interventionPeace:
		w.forcePeace()
	case interventionScramble:
		w.scramblePositions()
	case interventionRedistribute:
		w.redistribute()
	}

	w.observer.sinceIntervention = 0
	w.events.Interventions++
	slog.Info("observer intervention",
		"kind", interventionNames[kind],
		"stability", stability)
}

// stability combines species consciousness balance with inverse warfare
// intensity. 1 is a perfectly balanced, peaceful ecosystem.
func (w *World) stability() float64 {
	pop := w.entities

	var byspecies [3]float64
	var total float64
	var war float64
	live := 0
	for i := range pop {
		if pop[i].Inert() {
			continue
		}
		byspecies[pop[i].Species] += float64(pop[i].Consciousness)
		total += float64(pop[i].Consciousness)
		war += float64(pop[i].WarfareParticipation)
		live++
	}
	if total == 0 || live == 0 {
		return 0
	}

	shares := []float64{byspecies[0] / total, byspecies[1] / total, byspecies[2] / total}
	// Perfect thirds give stddev 0; a monoculture gives ~0.47. Normalize so
	// balance spans roughly [0, 1].
	balance := 1 - stat.StdDev(shares, nil)/0.5
	if balance < 0 {
		balance = 0
	}

	warIntensity := war / float64(live)
	return balance * (1 - warIntensity)
}

// blessWeakest grants consciousness to every member of the species with the
// lowest total.
func (w *World) blessWeakest() {
	pop := w.entities

	var totals [3]float32
	for i := range pop {
		if !pop[i].Inert() {
			totals[pop[i].Species] += pop[i].Consciousness
		}
	}
	weakest := creature.Species(0)
	for s := creature.Species(1); s < creature.NumSpecies; s++ {
		if totals[s] < totals[weakest] {
			weakest = s
		}
	}

	amount := float32(w.cfg.Observer.BlessingAmount)
	for i := range pop {
		if pop[i].Species == weakest && !pop[i].Inert() {
			pop[i].Consciousness += amount
		}
	}
}

// forcePeace closes every conflict without transfer and calms participants.
func (w *World) forcePeace() {
	w.events.ConflictsResolved += len(w.conflicts)
	w.conflicts = w.conflicts[:0]
	for i := range w.entities {
		w.entities[i].WarfareParticipation = 0
	}
}

// scramblePositions jumps random entities to nearby points, breaking up
// whatever spatial structure caused the instability.
func (w *World) scramblePositions() {
	pop := w.entities
	radius := float32(w.cfg.Observer.ScrambleRadius)
	for i := range pop {
		if pop[i].Inert() || w.rng.Float32() > 0.3 {
			continue
		}
		pop[i].Pos.X = wrapCoord(pop[i].Pos.X+(w.rng.Float32()-0.5)*2*radius, w.params.WorldW)
		pop[i].Pos.Y = wrapCoord(pop[i].Pos.Y+(w.rng.Float32()-0.5)*2*radius, w.params.WorldH)
	}
}

// redistribute scales each species' consciousness toward equal thirds of the
// current total. Total consciousness is preserved.
func (w *World) redistribute() {
	pop := w.entities

	var totals [3]float32
	var grand float32
	for i := range pop {
		if !pop[i].Inert() {
			totals[pop[i].Species] += pop[i].Consciousness
			grand += pop[i].Consciousness
		}
	}
	if grand == 0 {
		return
	}

	target := grand / 3
	var scale [3]float32
	for s := range totals {
		if totals[s] > 0 {
			// Half-step toward the equal share, not a hard snap.
			scale[s] = 1 + (target/totals[s]-1)*0.5
		} else {
			scale[s] = 1
		}
	}

	for i := range pop {
		if !pop[i].Inert() {
			pop[i].Consciousness *= scale[pop[i].Species]
		}
	}
}
