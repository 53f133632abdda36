package creature

import "math/rand"

// InertFloor is the consciousness level below which an entity is considered
// extinct. Inert entities stay in the backing store with zeroed visibility so
// that in-flight predation and hierarchy indices never dangle.
const InertFloor float32 = 0.1

// Limits on per-entity bounded collections.
const (
	MaxBonds    = 5  // Social bond slots
	MaxMemories = 10 // Remembered positions
)

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float32
}

// Level is the consciousness hierarchy tier, recomputed every tick from
// spatial clustering. It is never persisted across ticks.
type Level uint8

const (
	LevelIndividual Level = iota
	LevelPack
	LevelHive
	LevelMeta
)

// Name returns a human-readable level name.
func (l Level) Name() string {
	switch l {
	case LevelIndividual:
		return "Individual"
	case LevelPack:
		return "Pack"
	case LevelHive:
		return "Hive"
	case LevelMeta:
		return "Meta"
	default:
		return "Unknown"
	}
}

// MemoryFragment is a remembered position with a decaying intensity.
type MemoryFragment struct {
	Pos       Vec2
	Intensity float32 // [0, 1], decays over time
}

// MemoryBank is a bounded list of memory fragments. New memories evict the
// weakest fragment once the bank is full.
type MemoryBank struct {
	Fragments [MaxMemories]MemoryFragment
	Count     uint8
}

// Remember stores a position. When full, the weakest fragment is replaced.
func (m *MemoryBank) Remember(pos Vec2, intensity float32) {
	if m.Count < MaxMemories {
		m.Fragments[m.Count] = MemoryFragment{Pos: pos, Intensity: intensity}
		m.Count++
		return
	}
	weakest := 0
	for i := 1; i < MaxMemories; i++ {
		if m.Fragments[i].Intensity < m.Fragments[weakest].Intensity {
			weakest = i
		}
	}
	if m.Fragments[weakest].Intensity < intensity {
		m.Fragments[weakest] = MemoryFragment{Pos: pos, Intensity: intensity}
	}
}

// Decay fades all fragments and drops the ones that reach zero.
func (m *MemoryBank) Decay(dt float32) {
	w := uint8(0)
	for i := uint8(0); i < m.Count; i++ {
		f := m.Fragments[i]
		f.Intensity -= 0.01 * dt
		if f.Intensity > 0 {
			m.Fragments[w] = f
			w++
		}
	}
	m.Count = w
}

// Bonds is a bounded set of entity indices this entity is socially tied to.
type Bonds struct {
	Indices [MaxBonds]int32
	Count   uint8
}

// Add records a bond if there is room and the index is not already bonded.
func (b *Bonds) Add(idx int32) bool {
	for i := uint8(0); i < b.Count; i++ {
		if b.Indices[i] == idx {
			return false
		}
	}
	if b.Count >= MaxBonds {
		return false
	}
	b.Indices[b.Count] = idx
	b.Count++
	return true
}

// Has reports whether idx is bonded.
func (b *Bonds) Has(idx int32) bool {
	for i := uint8(0); i < b.Count; i++ {
		if b.Indices[i] == idx {
			return true
		}
	}
	return false
}

// Remove drops the bond to idx if present.
func (b *Bonds) Remove(idx int32) {
	for i := uint8(0); i < b.Count; i++ {
		if b.Indices[i] == idx {
			b.Count--
			b.Indices[i] = b.Indices[b.Count]
			return
		}
	}
}

// Entity is one agent. Position, velocity, and all behavioral state live in a
// flat slice owned by the ecosystem package; cross-references are indices.
type Entity struct {
	Pos Vec2
	Vel Vec2

	Species     Species
	Personality Personality

	// Core vitality stat. Unbounded growth until predated; >= 0 always.
	Consciousness  float32
	AwarenessLevel float32 // [0, 1]

	Bonds    Bonds
	Memories MemoryBank

	// Hierarchy state, rebuilt every tick
	Level        Level
	CollectiveID int32 // Index into the current hive list; -1 = none

	// Independent accumulators
	TerritorialDominance float32 // [0, inf)
	WarfareParticipation float32 // [0, 1]
	ExtinctionPressure   float32 // [0, 1]

	// Visual state
	Hue           float32 // Degrees [0, 360)
	Saturation    float32 // [0, 1]
	TripIntensity float32 // [0, 1]

	// Chaos / quantum state
	RealityDistortion float32 // [0, 1]
	ChaosFactor       float32 // [0, 1]
	QuantumPhase      float32 // Radians, wraps
	EmotionalState    float32 // [0, 1]
}

// NewEntity creates an entity of the given species at a random position.
func NewEntity(species Species, params *Params, rng *rand.Rand) Entity {
	sp := params.Species[species]
	return Entity{
		Pos: Vec2{
			X: rng.Float32() * params.WorldW,
			Y: rng.Float32() * params.WorldH,
		},
		Species:        species,
		Personality:    RandomPersonality(rng),
		Consciousness:  0.3 + rng.Float32()*0.4,
		AwarenessLevel: rng.Float32() * 0.3,
		Level:          LevelIndividual,
		CollectiveID:   -1,
		Hue:            sp.HueBase + (rng.Float32()-0.5)*sp.HueRange,
		Saturation:     0.6 + rng.Float32()*0.3,
		EmotionalState: 0.5,
		QuantumPhase:   rng.Float32() * 6.2831853,
	}
}

// Inert reports whether the entity is extinct. Inert entities are skipped by
// every behavioral pass but remain addressable by index.
func (e *Entity) Inert() bool {
	return e.Consciousness < InertFloor
}

// clamp32 clamps x to [min, max].
func clamp32(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
