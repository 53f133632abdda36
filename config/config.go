// Package config provides configuration loading and access for the engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	World        WorldConfig        `yaml:"world"`
	Simulation   SimulationConfig   `yaml:"simulation"`
	Population   PopulationConfig   `yaml:"population"`
	Species      []SpeciesConfig    `yaml:"species"`
	Interaction  InteractionConfig  `yaml:"interaction"`
	Beat         BeatConfig         `yaml:"beat"`
	Hierarchy    HierarchyConfig    `yaml:"hierarchy"`
	Predation    PredationConfig    `yaml:"predation"`
	Warfare      WarfareConfig      `yaml:"warfare"`
	Evolution    EvolutionConfig    `yaml:"evolution"`
	Observer     ObserverConfig     `yaml:"observer"`
	Distortion   DistortionConfig   `yaml:"distortion"`
	Audio        AudioConfig        `yaml:"audio"`
	Safety       SafetyConfig       `yaml:"safety"`
	Resonance    ResonanceConfig    `yaml:"resonance"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// SimulationConfig holds tick parameters.
type SimulationConfig struct {
	DT float64 `yaml:"dt"` // Seconds advanced per tick
}

// PopulationConfig holds agent population parameters. The inert threshold is
// a creature-package constant, not a knob: passes all over the codebase
// compare against it and a configurable value would invite drift.
type PopulationConfig struct {
	Initial     int     `yaml:"initial"`      // Starting entity count
	Max         int     `yaml:"max"`          // Hard cap on backing store size
	SpawnSpread float64 `yaml:"spawn_spread"` // Radius for resonance spawn placement
}

// SpeciesConfig defines one of the three organism species.
type SpeciesConfig struct {
	Name                    string  `yaml:"name"`
	HueBase                 float64 `yaml:"hue_base"`                 // Base hue in degrees
	HueRange                float64 `yaml:"hue_range"`                // Hue drift span in degrees
	VelocityScale           float64 `yaml:"velocity_scale"`           // Movement speed multiplier
	ConsciousnessMultiplier float64 `yaml:"consciousness_multiplier"` // Growth rate multiplier
}

// InteractionConfig holds the pairwise species interaction strength table.
// Row = actor species, column = other species. Positive attracts, negative repels.
type InteractionConfig struct {
	Table [][]float64 `yaml:"table"`
}

// BeatConfig holds beat engine parameters.
type BeatConfig struct {
	BaseTempo     float64 `yaml:"base_tempo"`     // BPM floor
	TempoSwing    float64 `yaml:"tempo_swing"`    // BPM added at primeFactor=1
	DropWindow    float64 `yaml:"drop_window"`    // Phase distance from cycle boundary that counts as a drop
	ChaosDropProb float64 `yaml:"chaos_drop_prob"` // Probability of a chaos-roll drop when primeFactor > 0.9
	AccumDecay    float64 `yaml:"accum_decay"`    // Beat accumulator retention per advance (e.g. 0.95)
}

// HierarchyConfig holds consciousness hierarchy parameters.
type HierarchyConfig struct {
	ClusterBase       float64 `yaml:"cluster_base"`        // Base clustering distance
	ClusterSocialGain float64 `yaml:"cluster_social_gain"` // Extra distance per sociability trait
	GroupCap          int     `yaml:"group_cap"`           // Max members per greedy group
	HiveMinMembers    int     `yaml:"hive_min_members"`    // Members needed to form a hive
	HiveSurviveFloor  int     `yaml:"hive_survive_floor"`  // Hive dissolves below this
	HiveBoost         float64 `yaml:"hive_boost"`          // Per-tick consciousness boost for hive members
	HivePull          float64 `yaml:"hive_pull"`           // Gravitational pull toward hive center
	ConnectionDensity float64 `yaml:"connection_density"`  // Fraction of member pairs connected
}

// PredationConfig holds consciousness absorption parameters.
type PredationConfig struct {
	MinConsciousness float64 `yaml:"min_consciousness"` // Predator eligibility threshold
	PreyRatio        float64 `yaml:"prey_ratio"`        // Prey must be below predator * this
	Range            float64 `yaml:"range"`             // Absorption range in world units
	StartChance      float64 `yaml:"start_chance"`      // Per-tick chance an eligible pair starts
	ProgressRate     float64 `yaml:"progress_rate"`     // Absorption progress constant
	GainMin          float64 `yaml:"gain_min"`          // Minimum fraction of prey value granted
	GainMax          float64 `yaml:"gain_max"`          // Maximum fraction of prey value granted
}

// WarfareConfig holds inter-species conflict parameters.
type WarfareConfig struct {
	TerritoryRadius  float64 `yaml:"territory_radius"`  // Radius of the contested zone
	DensityThreshold int     `yaml:"density_threshold"` // Opposing entities needed to open a conflict
	OpenChance       float64 `yaml:"open_chance"`       // Per-tick chance once the density threshold is met
	InfluenceRadius  float64 `yaml:"influence_radius"`  // Radius for locally-weighted strength totals
	VictoryMin       float64 `yaml:"victory_min"`       // Lower bound for the randomized victory threshold
	VictoryMax       float64 `yaml:"victory_max"`       // Upper bound for the randomized victory threshold
	TimeoutMin       float64 `yaml:"timeout_min"`       // Minimum conflict lifetime in seconds
	TimeoutMax       float64 `yaml:"timeout_max"`       // Maximum conflict lifetime in seconds
	TransferFraction float64 `yaml:"transfer_fraction"` // Consciousness share moved on resolution
}

// EvolutionConfig holds species fitness pressure parameters.
type EvolutionConfig struct {
	Interval       float64 `yaml:"interval"`        // Seconds between pressure passes
	StruggleBelow  float64 `yaml:"struggle_below"`  // Relative fitness below this accrues pressure
	ThriveAbove    float64 `yaml:"thrive_above"`    // Relative fitness above this thrives
	PressureRate   float64 `yaml:"pressure_rate"`   // Extinction pressure gained per pass
	DecayRate      float64 `yaml:"decay_rate"`      // Consciousness decay for struggling species
	ThriveBonus    float64 `yaml:"thrive_bonus"`    // Consciousness bonus for thriving species
	CollapsePoint  float64 `yaml:"collapse_point"`  // Extinction pressure that triggers soft death
}

// ObserverConfig holds meta-observer parameters.
type ObserverConfig struct {
	MinInterval      float64 `yaml:"min_interval"`      // Minimum seconds between interventions
	InstabilityLimit float64 `yaml:"instability_limit"` // Stability below this permits intervention
	BlessingAmount   float64 `yaml:"blessing_amount"`   // Consciousness granted per blessed entity
	ScrambleRadius   float64 `yaml:"scramble_radius"`   // Max positional jump for a reality scramble
}

// DistortionConfig holds the reality-distortion noise field parameters.
type DistortionConfig struct {
	Scale     float64 `yaml:"scale"`      // Noise frequency
	TimeSpeed float64 `yaml:"time_speed"` // Field animation speed
	Strength  float64 `yaml:"strength"`   // Baseline distortion magnitude
	Crystals  int     `yaml:"crystals"`   // Crystal node count for Crystalline harvesting
}

// AudioConfig holds audio output parameters.
type AudioConfig struct {
	SampleRate int     `yaml:"sample_rate"`
	BufferSize int     `yaml:"buffer_size"`
	MasterGain float64 `yaml:"master_gain"`
}

// SafetyConfig holds photosensitivity safety parameters.
// Threshold defaults follow the flash guidance in ITU/WCAG material but are
// configuration, not invariants; see the preset triple in Preset().
type SafetyConfig struct {
	Enabled              bool    `yaml:"enabled"`
	MaxFlashRate         float64 `yaml:"max_flash_rate"`          // Major changes per second (Hz)
	MaxLuminanceChange   float64 `yaml:"max_luminance_change"`    // Fraction of full scale per frame
	RedFlashProtection   bool    `yaml:"red_flash_protection"`
	VisualIntensityLimit float64 `yaml:"visual_intensity_limit"`  // Global brightness ceiling fraction
	ChaosDampening       bool    `yaml:"chaos_dampening"`
	MaxSimultaneous      int     `yaml:"max_simultaneous"`        // Entities allowed to flash at once
	Smoothing            float64 `yaml:"smoothing"`               // Luminance limiter lerp smoothing
}

// ResonanceConfig holds click-cadence classification bands.
type ResonanceConfig struct {
	SpawnBandLow    float64 `yaml:"spawn_band_low"`    // BPM band that maps to Spawn
	SpawnBandHigh   float64 `yaml:"spawn_band_high"`
	TearBandLow     float64 `yaml:"tear_band_low"`     // BPM band that maps to RealityTear
	TearBandHigh    float64 `yaml:"tear_band_high"`
	WindowSize      int     `yaml:"window_size"`       // Clicks considered for cadence analysis
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Simulation.DT as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	WorldW32  float32 // Effective world width as float32
	WorldH32  float32 // Effective world height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)

	// Synthesize default species if none specified
	if len(c.Species) == 0 {
		c.Species = []SpeciesConfig{
			{Name: "radiant", HueBase: 40, HueRange: 60, VelocityScale: 1.0, ConsciousnessMultiplier: 1.0},
			{Name: "umbral", HueBase: 260, HueRange: 50, VelocityScale: 0.8, ConsciousnessMultiplier: 1.2},
			{Name: "crystalline", HueBase: 160, HueRange: 40, VelocityScale: 0.6, ConsciousnessMultiplier: 0.9},
		}
	}

	// Default interaction table is mild same-species attraction,
	// mild cross-species repulsion
	if len(c.Interaction.Table) == 0 {
		c.Interaction.Table = [][]float64{
			{1.0, -0.3, 0.2},
			{-0.3, 1.0, -0.5},
			{0.2, -0.5, 1.0},
		}
	}
}

// Preset returns one of the documented safety preset triples.
// Unknown names return the standard preset.
func Preset(name string) SafetyConfig {
	switch name {
	case "conservative":
		return SafetyConfig{
			Enabled:              true,
			MaxFlashRate:         2.0,
			MaxLuminanceChange:   0.05,
			RedFlashProtection:   true,
			VisualIntensityLimit: 0.6,
			ChaosDampening:       true,
			MaxSimultaneous:      2,
			Smoothing:            0.5,
		}
	case "aggressive":
		return SafetyConfig{
			Enabled:              true,
			MaxFlashRate:         3.0,
			MaxLuminanceChange:   0.20,
			RedFlashProtection:   true,
			VisualIntensityLimit: 1.0,
			ChaosDampening:       false,
			MaxSimultaneous:      6,
			Smoothing:            0.9,
		}
	default: // standard
		return SafetyConfig{
			Enabled:              true,
			MaxFlashRate:         3.0,
			MaxLuminanceChange:   0.10,
			RedFlashProtection:   true,
			VisualIntensityLimit: 0.8,
			ChaosDampening:       true,
			MaxSimultaneous:      3,
			Smoothing:            0.7,
		}
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
