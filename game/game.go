// Package game wires the simulation, audio, safety, and telemetry layers
// into the run loop. The graphical loop additionally owns rendering, input,
// and the raylib audio stream.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/lumen/audio"
	"github.com/pthm-cable/lumen/beat"
	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/ecosystem"
	"github.com/pthm-cable/lumen/safety"
	"github.com/pthm-cable/lumen/telemetry"
)

// Options configures game creation.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game owns every subsystem and drives the fixed-step tick.
type Game struct {
	cfg  *config.Config
	opts Options

	world   *ecosystem.World
	beatEng *beat.Engine
	synth   *audio.Synth
	limiter *audio.Limiter
	guard   *safety.Guard

	collector *telemetry.Collector
	output    *telemetry.OutputManager
	perf      *telemetry.PerfCollector

	simTime   float64
	tick      uint64
	paused    bool
	stepsPer  int
	lastBeat  beat.State
	lastEnv   audio.Environment

	// Graphical-mode state, unused when headless.
	render  renderState
	input   inputState
	stream  *audioOut
	warning bool
}

// NewGameWithOptions builds a game. Graphical resources are created lazily
// by the caller after the raylib window exists.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}

	g := &Game{
		cfg:      cfg,
		opts:     opts,
		world:    ecosystem.NewWorld(cfg, opts.Seed),
		beatEng: beat.NewEngine(
			cfg.Beat.BaseTempo, cfg.Beat.TempoSwing, cfg.Beat.DropWindow,
			cfg.Beat.ChaosDropProb, cfg.Beat.AccumDecay,
			rand.New(rand.NewSource(opts.Seed))),
		synth:    audio.NewSynth(cfg.Audio),
		limiter:  audio.NewLimiter(),
		guard:    safety.NewGuard(guardConfig(cfg.Safety)),
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		stepsPer: opts.StepsPerUpdate,
		warning:  !opts.Headless,
	}

	g.world.SetPhaseHook(g.perf.StartPhase)

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("output manager init failed", "error", err)
	} else {
		g.output = om
		if err := g.output.WriteConfig(cfg); err != nil {
			slog.Error("writing config snapshot failed", "error", err)
		}
	}

	g.render.prevColors = make(map[int32]safety.Color)

	return g
}

// guardConfig converts the config safety section into the guard's config.
func guardConfig(sc config.SafetyConfig) safety.Config {
	return safety.Config{
		Enabled:              sc.Enabled,
		MaxFlashRate:         sc.MaxFlashRate,
		MaxLuminanceChange:   float32(sc.MaxLuminanceChange),
		RedFlashProtection:   sc.RedFlashProtection,
		VisualIntensityLimit: float32(sc.VisualIntensityLimit),
		ChaosDampening:       sc.ChaosDampening,
		MaxSimultaneous:      sc.MaxSimultaneous,
		Smoothing:            float32(sc.Smoothing),
	}
}

// step advances the simulation by one fixed tick.
func (g *Game) step() {
	dt := g.cfg.Derived.DT32
	g.simTime += float64(dt)
	g.tick++

	g.perf.StartTick()

	// The world reports its internal passes through the phase hook.
	bs := g.beatEng.Advance(g.simTime)
	g.lastBeat = bs
	g.world.Step(dt, bs)

	snap := g.world.Latest()
	g.lastEnv = audio.EnvironmentFromState(snap.TotalConsciousness, len(snap.Entities))

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.limiter.Observe(g.guard.Violations())
	g.limiter.Step(dt)
	g.collector.RecordTick(g.world.Events())
	g.flushTelemetry(snap)

	g.perf.EndTick()
}

// flushTelemetry closes the stats window when due.
func (g *Game) flushTelemetry(snap *ecosystem.Snapshot) {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	consciousness := make([]float64, len(snap.Entities))
	for i, e := range snap.Entities {
		consciousness[i] = float64(e.Consciousness)
	}

	stats := g.collector.Flush(
		g.tick,
		snap.SpeciesCounts,
		consciousness,
		g.world.Stability(),
		len(g.world.Hives()),
		g.lastEnv.Name(),
	)
	safetyStats := g.collector.FlushSafety(
		g.tick,
		g.guard.Violations(),
		float64(g.limiter.Gain()),
		g.guard.EmergencyActive(),
	)

	if g.opts.LogStats {
		stats.LogStats()
		g.perf.Stats().LogStats()
	}
	if err := g.output.WriteStats(stats); err != nil {
		slog.Error("telemetry write failed", "error", err)
	}
	if err := g.output.WriteSafety(safetyStats); err != nil {
		slog.Error("safety write failed", "error", err)
	}
}

// UpdateHeadless advances the simulation without any graphics or audio.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPer; i++ {
		g.step()
	}
}

// Update advances the simulation for one frame of the graphical loop.
func (g *Game) Update() {
	g.handleInput()

	if g.warning || g.paused {
		return
	}

	for i := 0; i < g.stepsPer; i++ {
		g.step()
	}

	if g.stream != nil {
		g.stream.fill(g)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Guard exposes the safety guard for the panel and tests.
func (g *Game) Guard() *safety.Guard {
	return g.guard
}

// EmergencyStop arms the breaker on every output path at once.
func (g *Game) EmergencyStop() {
	g.guard.EmergencyStop()
	slog.Warn("emergency stop", "tick", g.tick, "wall_time", time.Now().Format(time.RFC3339))
}

// Unload releases output files and audio resources.
func (g *Game) Unload() {
	if g.stream != nil {
		g.stream.close()
	}
	if err := g.output.Close(); err != nil {
		slog.Error("closing output failed", "error", err)
	}
}
