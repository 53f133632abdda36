// Package audio converts simulation state into a stream of samples. The
// synth is pure with respect to its inputs except for two envelope followers
// used by the HUD; every sample is hard-clamped to [-1, 1] before it leaves
// the package.
package audio

// Environment is the synthesis preset tier, selected from collective
// consciousness and population size each tick.
type Environment uint8

const (
	Environmental Environment = iota
	Meditative
	Psychedelic
	Electronica
	HiveMind
	RealityTear
	numEnvironments
)

var environmentNames = [numEnvironments]string{
	"environmental", "meditative", "psychedelic", "electronica", "hivemind", "realitytear",
}

func (e Environment) Name() string {
	if int(e) < len(environmentNames) {
		return environmentNames[e]
	}
	return "unknown"
}

// EnvironmentFromState derives the tier. RealityTear overrides on total
// consciousness alone; HiveMind overrides on population alone; otherwise the
// tier climbs with total consciousness.
func EnvironmentFromState(totalConsciousness float32, count int) Environment {
	if totalConsciousness > 200 {
		return RealityTear
	}
	if count > 50 {
		return HiveMind
	}
	switch {
	case totalConsciousness < 20:
		return Environmental
	case totalConsciousness < 60:
		return Meditative
	case totalConsciousness < 120:
		return Psychedelic
	default:
		return Electronica
	}
}

// SynthConfig is one tier's synthesis preset.
type SynthConfig struct {
	BaseFreq   float64
	Harmonics  int
	Noise      float64
	Distortion float64
	Reverb     float64
	Bass       float64
	Treble     float64
	Chaos      float64
}

var synthConfigs = map[Environment]SynthConfig{
	Environmental: {BaseFreq: 110, Harmonics: 2, Noise: 0.05, Distortion: 0, Reverb: 0.3, Bass: 0.4, Treble: 0.2, Chaos: 0.05},
	Meditative:    {BaseFreq: 136.1, Harmonics: 3, Noise: 0.03, Distortion: 0, Reverb: 0.5, Bass: 0.5, Treble: 0.15, Chaos: 0.1},
	Psychedelic:   {BaseFreq: 174, Harmonics: 4, Noise: 0.08, Distortion: 0.2, Reverb: 0.6, Bass: 0.5, Treble: 0.4, Chaos: 0.4},
	Electronica:   {BaseFreq: 220, Harmonics: 5, Noise: 0.1, Distortion: 0.35, Reverb: 0.4, Bass: 0.7, Treble: 0.5, Chaos: 0.6},
	HiveMind:      {BaseFreq: 261.6, Harmonics: 6, Noise: 0.06, Distortion: 0.3, Reverb: 0.7, Bass: 0.6, Treble: 0.45, Chaos: 0.7},
	RealityTear:   {BaseFreq: 293.7, Harmonics: 7, Noise: 0.15, Distortion: 0.5, Reverb: 0.8, Bass: 0.8, Treble: 0.6, Chaos: 0.9},
}

// Config returns the tier's preset, falling back to Environmental for any
// tier that has no entry.
func (e Environment) Config() SynthConfig {
	if cfg, ok := synthConfigs[e]; ok {
		return cfg
	}
	return synthConfigs[Environmental]
}
