// Package telemetry aggregates per-tick ecosystem and safety events into
// windowed statistics, logs them through slog, and writes CSV output for
// offline analysis.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	RadiantCount     int `csv:"radiant"`
	UmbralCount      int `csv:"umbral"`
	CrystallineCount int `csv:"crystalline"`

	// Events during the window
	Births              int `csv:"births"`
	Deaths              int `csv:"deaths"`
	PredationsStarted   int `csv:"predations_started"`
	PredationsCompleted int `csv:"predations_completed"`
	ConflictsOpened     int `csv:"conflicts_opened"`
	ConflictsResolved   int `csv:"conflicts_resolved"`
	HivesFormed         int `csv:"hives_formed"`
	HivesDissolved      int `csv:"hives_dissolved"`
	Interventions       int `csv:"interventions"`

	// Consciousness distribution (sampled at window end)
	ConsciousnessMean float64 `csv:"consciousness_mean"`
	ConsciousnessStd  float64 `csv:"consciousness_std"`
	ConsciousnessP10  float64 `csv:"consciousness_p10"`
	ConsciousnessP50  float64 `csv:"consciousness_p50"`
	ConsciousnessP90  float64 `csv:"consciousness_p90"`

	// Ecosystem health
	Stability float64 `csv:"stability"`
	HiveCount int     `csv:"hives"`

	// Audio state at window end
	Environment string `csv:"environment"`
}

// Percentile calculates the p-th percentile of a sorted slice with linear
// interpolation. p should be in [0, 1]. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeConsciousnessStats calculates mean, stddev, and percentiles.
func ComputeConsciousnessStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.MeanStdDev(values, nil)
	if n == 1 {
		std = 0 // MeanStdDev returns NaN for a single sample
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("radiant", s.RadiantCount),
		slog.Int("umbral", s.UmbralCount),
		slog.Int("crystalline", s.CrystallineCount),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("predations_started", s.PredationsStarted),
		slog.Int("predations_completed", s.PredationsCompleted),
		slog.Int("conflicts_opened", s.ConflictsOpened),
		slog.Int("conflicts_resolved", s.ConflictsResolved),
		slog.Int("hives_formed", s.HivesFormed),
		slog.Int("hives_dissolved", s.HivesDissolved),
		slog.Int("interventions", s.Interventions),
		slog.Float64("consciousness_mean", s.ConsciousnessMean),
		slog.Float64("consciousness_std", s.ConsciousnessStd),
		slog.Float64("consciousness_p10", s.ConsciousnessP10),
		slog.Float64("consciousness_p50", s.ConsciousnessP50),
		slog.Float64("consciousness_p90", s.ConsciousnessP90),
		slog.Float64("stability", s.Stability),
		slog.Int("hives", s.HiveCount),
		slog.String("environment", s.Environment),
	)
}

// LogStats logs the window stats at info level.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
