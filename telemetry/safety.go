package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/lumen/safety"
)

// SafetyStats holds one window of safety guard activity.
type SafetyStats struct {
	WindowEndTick uint64  `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	Allowed  int `csv:"allowed"`
	Modified int `csv:"modified"`
	Blocked  int `csv:"blocked"`

	ViolationsTotal int     `csv:"violations_total"`
	LimiterGain     float64 `csv:"limiter_gain"`
	EmergencyActive bool    `csv:"emergency"`
}

// LogValue implements slog.LogValuer.
func (s SafetyStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("allowed", s.Allowed),
		slog.Int("modified", s.Modified),
		slog.Int("blocked", s.Blocked),
		slog.Int("violations_total", s.ViolationsTotal),
		slog.Float64("limiter_gain", s.LimiterGain),
		slog.Bool("emergency", s.EmergencyActive),
	)
}

// RecordVerdict counts one guard decision into the current window.
func (c *Collector) RecordVerdict(d safety.Decision) {
	switch d {
	case safety.Allowed:
		c.verdictAllowed++
	case safety.Modified:
		c.verdictModified++
	case safety.Blocked:
		c.verdictBlocked++
	}
}

// FlushSafety produces a SafetyStats and resets the verdict counters. Called
// alongside Flush at window boundaries.
func (c *Collector) FlushSafety(currentTick uint64, violations int, limiterGain float64, emergency bool) SafetyStats {
	stats := SafetyStats{
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		Allowed:         c.verdictAllowed,
		Modified:        c.verdictModified,
		Blocked:         c.verdictBlocked,
		ViolationsTotal: violations,
		LimiterGain:     limiterGain,
		EmergencyActive: emergency,
	}

	c.verdictAllowed = 0
	c.verdictModified = 0
	c.verdictBlocked = 0

	return stats
}
