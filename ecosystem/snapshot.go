package ecosystem

import (
	"sync/atomic"

	"github.com/pthm-cable/lumen/beat"
	"github.com/pthm-cable/lumen/creature"
)

// EntitySnapshot carries the render/audio attributes of one entity. It is a
// copy; mutating it cannot affect the simulation.
type EntitySnapshot struct {
	Index         int32 // Stable slot index in the backing store
	Pos           creature.Vec2
	Species       creature.Species
	Level         creature.Level
	Consciousness float32
	Hue           float32
	Saturation    float32
	TripIntensity float32
	Distortion    float32
}

// Snapshot is the immutable per-tick state handed to the renderer and the
// audio callback. Built fresh each tick; never mutated after publication.
type Snapshot struct {
	Tick               uint64
	CosmicTime         float64
	Beat               beat.State
	Entities           []EntitySnapshot
	SpeciesCounts      [3]int
	TotalConsciousness float32

	// GlobalDistortion is the mean per-entity reality distortion over the
	// live population, the world-wide chaos level for display layers.
	GlobalDistortion float32
}

// Publisher hands the latest completed snapshot to concurrent readers.
// Publish runs on the simulation thread once per tick; Latest is safe to
// call from the audio callback without blocking the simulation.
type Publisher struct {
	ptr atomic.Pointer[Snapshot]
}

// Publish makes s the latest snapshot. The caller must not modify s after
// publishing.
func (p *Publisher) Publish(s *Snapshot) {
	p.ptr.Store(s)
}

// Latest returns the most recently published snapshot, or nil before the
// first tick completes.
func (p *Publisher) Latest() *Snapshot {
	return p.ptr.Load()
}
