package telemetry

import "github.com/pthm-cable/lumen/ecosystem"

// Collector accumulates tick events within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks uint64
	dt                  float32

	windowStartTick uint64

	births              int
	deaths              int
	predationsStarted   int
	predationsCompleted int
	conflictsOpened     int
	conflictsResolved   int
	hivesFormed         int
	hivesDissolved      int
	interventions       int

	verdictAllowed  int
	verdictModified int
	verdictBlocked  int
}

// NewCollector creates a collector. windowDurationSec is how long each
// window lasts in simulation seconds; dt is seconds per tick.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := uint64(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordTick folds one tick's event counters into the current window.
func (c *Collector) RecordTick(ev ecosystem.TickEvents) {
	c.births += ev.Births
	c.deaths += ev.Deaths
	c.predationsStarted += ev.PredationsStarted
	c.predationsCompleted += ev.PredationsCompleted
	c.conflictsOpened += ev.ConflictsOpened
	c.conflictsResolved += ev.ConflictsResolved
	c.hivesFormed += ev.HivesFormed
	c.hivesDissolved += ev.HivesDissolved
	c.interventions += ev.Interventions
}

// ShouldFlush reports whether enough ticks have passed to close the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller supplies end-of-window samples: species counts, consciousness
// values, observer stability, hive count, and the current audio environment
// name.
func (c *Collector) Flush(
	currentTick uint64,
	speciesCounts [3]int,
	consciousness []float64,
	stability float64,
	hiveCount int,
	environment string,
) WindowStats {
	mean, std, p10, p50, p90 := ComputeConsciousnessStats(consciousness)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		RadiantCount:     speciesCounts[0],
		UmbralCount:      speciesCounts[1],
		CrystallineCount: speciesCounts[2],

		Births:              c.births,
		Deaths:              c.deaths,
		PredationsStarted:   c.predationsStarted,
		PredationsCompleted: c.predationsCompleted,
		ConflictsOpened:     c.conflictsOpened,
		ConflictsResolved:   c.conflictsResolved,
		HivesFormed:         c.hivesFormed,
		HivesDissolved:      c.hivesDissolved,
		Interventions:       c.interventions,

		ConsciousnessMean: mean,
		ConsciousnessStd:  std,
		ConsciousnessP10:  p10,
		ConsciousnessP50:  p50,
		ConsciousnessP90:  p90,

		Stability: stability,
		HiveCount: hiveCount,

		Environment: environment,
	}

	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0
	c.predationsStarted = 0
	c.predationsCompleted = 0
	c.conflictsOpened = 0
	c.conflictsResolved = 0
	c.hivesFormed = 0
	c.hivesDissolved = 0
	c.interventions = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowDurationTicks
}
