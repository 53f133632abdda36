// Package creature defines the per-agent data record and its local update
// rules: movement, consciousness growth, social forces, and color psychology.
// Mutation of other agents is the ecosystem package's job; every update here
// touches exactly one entity with read-only access to the rest.
package creature

// Species identifies one of the three organism variants.
type Species uint8

const (
	SpeciesRadiant     Species = iota // Warm hues, fast, erratic explorer
	SpeciesUmbral                     // Violet hues, quantum-phase circling
	SpeciesCrystalline                // Cool hues, slow, time-spiral drifting
	NumSpecies
)

// Name returns a human-readable species name.
func (s Species) Name() string {
	switch s {
	case SpeciesRadiant:
		return "Radiant"
	case SpeciesUmbral:
		return "Umbral"
	case SpeciesCrystalline:
		return "Crystalline"
	default:
		return "Unknown"
	}
}

// SpeciesParams holds per-species behavior constants, built from config.
type SpeciesParams struct {
	HueBase                 float32 // Base hue in degrees
	HueRange                float32 // Hue drift span in degrees
	VelocityScale           float32 // Movement speed multiplier
	ConsciousnessMultiplier float32 // Growth rate multiplier
}

// Params bundles everything the per-entity update rules need beyond the
// entity itself: species constants, the pairwise interaction table, and
// world bounds for toroidal wrapping.
type Params struct {
	Species     [NumSpecies]SpeciesParams
	Interaction [NumSpecies][NumSpecies]float32 // Row = actor, column = other
	WorldW      float32
	WorldH      float32
}

// InteractionStrength returns the pairwise interaction strength between two
// species. Positive attracts, negative repels.
func (p *Params) InteractionStrength(a, b Species) float32 {
	return p.Interaction[a][b]
}
