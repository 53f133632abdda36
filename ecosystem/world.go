package ecosystem

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/lumen/beat"
	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/creature"
)

// TickEvents counts what happened during one Step. Read by telemetry after
// each tick; reset at tick start.
type TickEvents struct {
	PredationsStarted   int
	PredationsCompleted int
	ConflictsOpened     int
	ConflictsResolved   int
	HivesFormed         int
	HivesDissolved      int
	Interventions       int
	Births              int
	Deaths              int
}

// World exclusively owns the entity collection and every population dynamics
// structure hanging off it. Nothing outside this package ever holds a
// reference into the backing slice; consumers read published snapshots.
type World struct {
	cfg    *config.Config
	params *creature.Params
	rng    *rand.Rand

	entities []creature.Entity
	tickSnap []creature.Entity // Read-only copy taken at tick start
	grid     *SpatialGrid

	clusters   [][]int32
	hives      []*HiveMind
	predations []PredationEvent
	conflicts  []SpeciesConflict
	observer   observerState
	distortion *DistortionField

	evolutionClock float64
	cosmicTime     float64
	tick           uint64

	pending []ResonanceEvent
	events  TickEvents

	pub       Publisher
	phaseHook func(name string)

	// Scratch buffers reused across ticks.
	visitScratch    []bool
	clusterScratch  []int32
	neighborScratch []Neighbor
	memberScratch   map[int32]struct{}
}

// NewWorld builds a world from configuration and seeds the initial
// population with an even species split.
func NewWorld(cfg *config.Config, seed int64) *World {
	rng := rand.New(rand.NewSource(seed))
	params := buildParams(cfg)

	w := &World{
		cfg:           cfg,
		params:        params,
		rng:           rng,
		grid:          NewSpatialGrid(params.WorldW, params.WorldH, 64),
		memberScratch: make(map[int32]struct{}),
	}
	w.distortion = NewDistortionField(
		cfg.Distortion.Scale, cfg.Distortion.TimeSpeed, cfg.Distortion.Strength,
		cfg.Distortion.Crystals, params.WorldW, params.WorldH, rng)

	for i := 0; i < cfg.Population.Initial; i++ {
		species := creature.Species(i % int(creature.NumSpecies))
		w.entities = append(w.entities, creature.NewEntity(species, params, rng))
	}
	w.visitScratch = make([]bool, len(w.entities))

	return w
}

// buildParams flattens the config into the value struct the creature package
// reads every tick.
func buildParams(cfg *config.Config) *creature.Params {
	p := &creature.Params{
		WorldW: cfg.Derived.WorldW32,
		WorldH: cfg.Derived.WorldH32,
	}
	for i := 0; i < int(creature.NumSpecies) && i < len(cfg.Species); i++ {
		sc := cfg.Species[i]
		p.Species[i] = creature.SpeciesParams{
			HueBase:                 float32(sc.HueBase),
			HueRange:                float32(sc.HueRange),
			VelocityScale:           float32(sc.VelocityScale),
			ConsciousnessMultiplier: float32(sc.ConsciousnessMultiplier),
		}
	}
	for i := 0; i < int(creature.NumSpecies); i++ {
		for j := 0; j < int(creature.NumSpecies); j++ {
			if i < len(cfg.Interaction.Table) && j < len(cfg.Interaction.Table[i]) {
				p.Interaction[i][j] = float32(cfg.Interaction.Table[i][j])
			}
		}
	}
	return p
}

// SetPhaseHook registers a callback invoked at the start of every named pass
// inside Step, for per-phase timing. A nil hook disables the callbacks.
func (w *World) SetPhaseHook(fn func(name string)) {
	w.phaseHook = fn
}

func (w *World) phase(name string) {
	if w.phaseHook != nil {
		w.phaseHook(name)
	}
}

// Step advances the world by one tick. The passes are strictly sequential;
// each reads the results of the previous ones.
func (w *World) Step(dt float32, bs beat.State) {
	w.events = TickEvents{}
	w.cosmicTime += float64(dt)
	w.tick++

	// 1. Consume queued resonance events.
	w.phase("resonance")
	w.drainResonance()

	// 2. Rebuild spatial structures and take the tick-start snapshot that
	// behavior updates read, so update order cannot bias forces.
	w.phase("spatial_grid")
	w.grid.Rebuild(w.entities)
	w.tickSnap = append(w.tickSnap[:0], w.entities...)

	// 3. Entity behavior: movement, consciousness, color.
	w.phase("behavior")
	for i := range w.entities {
		e := &w.entities[i]
		e.Update(dt, bs, w.tickSnap, i, w.cosmicTime, w.params, w.rng)
		e.Grow(dt, bs, w.params, w.rng)
		e.UpdateColor(dt, bs, w.params)
	}

	// 4. Distortion field baseline and crystal harvesting.
	w.phase("distortion")
	w.applyDistortion(dt)

	// 5. Hierarchy: greedy clustering, then hive persistence.
	w.phase("hierarchy")
	w.updateClusters()
	w.updateHives(dt)

	// 6. Predation.
	w.phase("predation")
	w.updatePredation(dt)

	// 7. Warfare.
	w.phase("warfare")
	w.updateWarfare(dt)

	// 8. Evolution pressure.
	w.phase("evolution")
	w.updateEvolution(dt)

	// 9. Meta-observer.
	w.phase("observer")
	w.updateObserver(dt)

	// 10. Publish the completed tick.
	w.phase("snapshot")
	w.pub.Publish(w.buildSnapshot(bs))
}

// buildSnapshot copies render/audio state out of the entity slice. The
// returned snapshot is immutable from here on.
func (w *World) buildSnapshot(bs beat.State) *Snapshot {
	s := &Snapshot{
		Tick:       w.tick,
		CosmicTime: w.cosmicTime,
		Beat:       bs,
		Entities:   make([]EntitySnapshot, 0, len(w.entities)),
	}
	var distortionSum float32
	for i := range w.entities {
		e := &w.entities[i]
		if e.Inert() {
			continue
		}
		s.Entities = append(s.Entities, EntitySnapshot{
			Index:         int32(i),
			Pos:           e.Pos,
			Species:       e.Species,
			Level:         e.Level,
			Consciousness: e.Consciousness,
			Hue:           e.Hue,
			Saturation:    e.Saturation,
			TripIntensity: e.TripIntensity,
			Distortion:    e.RealityDistortion,
		})
		s.SpeciesCounts[e.Species]++
		s.TotalConsciousness += e.Consciousness
		distortionSum += e.RealityDistortion
	}
	if len(s.Entities) > 0 {
		s.GlobalDistortion = distortionSum / float32(len(s.Entities))
	}
	return s
}

// Latest returns the most recent published snapshot. Safe from any
// goroutine.
func (w *World) Latest() *Snapshot {
	return w.pub.Latest()
}

// Events returns the counters for the last completed tick.
func (w *World) Events() TickEvents {
	return w.events
}

// Hives exposes the live hive records for rendering and telemetry.
func (w *World) Hives() []*HiveMind {
	return w.hives
}

// Conflicts exposes the open conflicts for rendering and telemetry.
func (w *World) Conflicts() []SpeciesConflict {
	return w.conflicts
}

// Stability returns the observer's last computed stability value.
func (w *World) Stability() float64 {
	return w.observer.lastStability
}

// Distortion exposes the field for rendering crystal nodes.
func (w *World) Distortion() *DistortionField {
	return w.distortion
}

// CosmicTime returns accumulated simulation time in seconds.
func (w *World) CosmicTime() float64 {
	return w.cosmicTime
}

// liveCount returns the number of non-inert entities.
func (w *World) liveCount() int {
	n := 0
	for i := range w.entities {
		if !w.entities[i].Inert() {
			n++
		}
	}
	return n
}

// addEntity reuses an inert slot when possible so index references stay
// dense; otherwise it appends.
func (w *World) addEntity(e creature.Entity) {
	for i := range w.entities {
		if w.entities[i].Inert() {
			w.dropReferences(int32(i))
			w.entities[i] = e
			return
		}
	}
	w.entities = append(w.entities, e)
	w.visitScratch = append(w.visitScratch, false)
}

// dropReferences removes every cross-entity reference to a recycled slot:
// in-flight predations, hive membership, and social bonds. Without this the
// entity reusing the slot would inherit relationships it never formed.
func (w *World) dropReferences(idx int32) {
	kept := w.predations[:0]
	for _, ev := range w.predations {
		if ev.Predator != idx && ev.Prey != idx {
			kept = append(kept, ev)
		}
	}
	w.predations = kept

	for _, h := range w.hives {
		h.removeMember(idx)
	}
	for i := range w.entities {
		w.entities[i].Bonds.Remove(idx)
	}
}

// sqrt32 is a float32 square root.
func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// wrapCoord wraps a coordinate into [0, limit).
func wrapCoord(x, limit float32) float32 {
	x = float32(math.Mod(float64(x), float64(limit)))
	if x < 0 {
		x += limit
	}
	return x
}
