package game

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/ecosystem"
)

// inputState tracks click timestamps for resonance cadence classification.
type inputState struct {
	clicks []time.Time
}

// handleInput processes keys and resonance clicks for one frame.
func (g *Game) handleInput() {
	if g.warning {
		if rl.IsKeyPressed(rl.KeyEnter) {
			g.warning = false
		}
		return
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		g.paused = !g.paused
	case rl.IsKeyPressed(rl.KeyE):
		if g.guard.EmergencyActive() {
			g.guard.Release()
			slog.Info("emergency stop released", "tick", g.tick)
		} else {
			g.EmergencyStop()
		}
	case rl.IsKeyPressed(rl.KeyUp):
		if g.stepsPer < 8 {
			g.stepsPer++
		}
	case rl.IsKeyPressed(rl.KeyDown):
		if g.stepsPer > 1 {
			g.stepsPer--
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		g.recordClick(time.Now())
	}
}

// recordClick appends a click and classifies the cadence once the analysis
// window is full.
func (g *Game) recordClick(now time.Time) {
	window := g.cfg.Resonance.WindowSize
	g.input.clicks = append(g.input.clicks, now)
	if len(g.input.clicks) > window {
		g.input.clicks = g.input.clicks[len(g.input.clicks)-window:]
	}
	if len(g.input.clicks) < window {
		return
	}

	bpm, steady := clickCadence(g.input.clicks)
	if !steady {
		return
	}

	ev := g.classifyCadence(bpm)
	if ev == nil {
		return
	}
	g.world.Enqueue(ev)
	g.input.clicks = g.input.clicks[:0]
	slog.Info("resonance", "bpm", int(bpm), "event", eventName(ev))
}

// clickCadence derives the click tempo in BPM and whether the intervals are
// steady enough to count as a deliberate rhythm.
func clickCadence(clicks []time.Time) (bpm float64, steady bool) {
	n := len(clicks) - 1
	if n < 1 {
		return 0, false
	}

	var sum float64
	intervals := make([]float64, n)
	for i := 0; i < n; i++ {
		intervals[i] = clicks[i+1].Sub(clicks[i]).Seconds()
		sum += intervals[i]
	}
	mean := sum / float64(n)
	if mean <= 0 {
		return 0, false
	}

	// Reject jittery clicking: any interval off by more than 35% of the
	// mean is not a rhythm.
	for _, iv := range intervals {
		dev := iv - mean
		if dev < 0 {
			dev = -dev
		}
		if dev > mean*0.35 {
			return 0, false
		}
	}

	return 60 / mean, true
}

// classifyCadence maps a BPM to a resonance event using the configured
// bands. Cadences outside every band ripple.
func (g *Game) classifyCadence(bpm float64) ecosystem.ResonanceEvent {
	rc := g.cfg.Resonance
	switch {
	case bpm >= rc.SpawnBandLow && bpm <= rc.SpawnBandHigh:
		return ecosystem.SpawnEvent{Count: 5, Intensity: float32(bpm-rc.SpawnBandLow) / float32(rc.SpawnBandHigh-rc.SpawnBandLow)}
	case bpm >= rc.TearBandLow && bpm <= rc.TearBandHigh:
		return ecosystem.TearEvent{Strength: 0.3 + float32(bpm-rc.TearBandLow)/float32(rc.TearBandHigh-rc.TearBandLow)*0.4}
	case bpm > 20:
		return ecosystem.RippleEvent{Amplitude: 30}
	default:
		return nil
	}
}

func eventName(ev ecosystem.ResonanceEvent) string {
	switch ev.(type) {
	case ecosystem.SpawnEvent:
		return "spawn"
	case ecosystem.TearEvent:
		return "reality_tear"
	case ecosystem.RippleEvent:
		return "ripple"
	default:
		return "unknown"
	}
}
