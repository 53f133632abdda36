package creature

import "math/rand"

// Personality holds the seven independent behavioral traits, each in [0, 1.5].
// Traits never change after birth; everything dynamic lives on the entity.
type Personality struct {
	Curiosity     float32 // Consciousness growth appetite
	Aggression    float32 // Warfare participation bias
	Sociability   float32 // Clustering distance bonus, bond formation
	ChaosAffinity float32 // Susceptibility to reality distortion
	Empathy       float32 // Resistance lent to nearby prey
	Dominance     float32 // Territorial dominance accrual
	Playfulness   float32 // Exploration force magnitude
}

// TraitMax is the upper bound of every personality trait.
const TraitMax float32 = 1.5

// RandomPersonality draws all seven traits uniformly from [0, TraitMax].
func RandomPersonality(rng *rand.Rand) Personality {
	return Personality{
		Curiosity:     rng.Float32() * TraitMax,
		Aggression:    rng.Float32() * TraitMax,
		Sociability:   rng.Float32() * TraitMax,
		ChaosAffinity: rng.Float32() * TraitMax,
		Empathy:       rng.Float32() * TraitMax,
		Dominance:     rng.Float32() * TraitMax,
		Playfulness:   rng.Float32() * TraitMax,
	}
}
