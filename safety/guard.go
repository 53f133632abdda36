// Package safety enforces photosensitive-epilepsy-safe bounds on every
// visual and audio delta before presentation: flash-rate limiting, luminance
// change capping, red-flash suppression, and an emergency-stop breaker.
//
// The guard keys every rate window on wall-clock (monotonic) time supplied
// by the caller, never on simulation time, so pausing or slowing the
// simulation cannot be used to sneak flashes past the limits.
package safety

import "time"

// Decision is the outcome class of a safety proposal.
type Decision uint8

const (
	Allowed  Decision = iota // Change may be presented unmodified
	Modified                 // Change must be replaced with Verdict.Color
	Blocked                  // Change must be dropped entirely
)

// Verdict is the guard's answer to a proposed change. The caller must honor
// it; the guard has no way to enforce downstream behavior.
type Verdict struct {
	Decision Decision
	Reason   string // Set when Decision == Blocked
	Color    Color  // Set when Decision == Modified
}

// Config holds the guard's tunable thresholds. The red-hue band and the
// simultaneous-flasher cap are defaults pending domain review, not hard
// invariants.
type Config struct {
	Enabled              bool
	MaxFlashRate         float64 // Major changes per second
	MaxLuminanceChange   float32 // Fraction of full scale per frame
	RedFlashProtection   bool
	VisualIntensityLimit float32
	ChaosDampening       bool
	MaxSimultaneous      int
	Smoothing            float32
}

// majorFraction: a change counts as "major" (rate-limited) when its
// magnitude exceeds this fraction of the luminance cap.
const majorFraction = 0.3

// flashWindow is the sliding window for flash-rate accounting.
const flashWindow = time.Second

// flasherCooldown is how long one entity stays counted as "flashing".
const flasherCooldown = 500 * time.Millisecond

// Guard tracks flash history and decides the fate of proposed changes.
// It is not safe for concurrent use; callers serialize on the render thread.
type Guard struct {
	cfg Config

	flashTimes []time.Time // Major-change timestamps within flashWindow
	lastMajor  time.Time
	hasMajor   bool

	flashers map[int32]time.Time // Per-entity flash cooldowns

	emergency  bool
	violations int // Cumulative blocked/modified count, drives the audio limiter
}

// NewGuard creates a guard with the given configuration.
func NewGuard(cfg Config) *Guard {
	return &Guard{
		cfg:      cfg,
		flashers: make(map[int32]time.Time),
	}
}

// SetConfig replaces the configuration. History is preserved so preset
// switching mid-session cannot reset the rate window.
func (g *Guard) SetConfig(cfg Config) {
	g.cfg = cfg
}

// Config returns the current configuration.
func (g *Guard) Config() Config {
	return g.cfg
}

// Propose asks whether a change of the given luminance magnitude may happen
// at the given wall-clock instant. Major changes are rate-limited to
// MaxFlashRate per second with a minimum spacing of 1/MaxFlashRate.
func (g *Guard) Propose(magnitude float32, now time.Time) Verdict {
	if !g.cfg.Enabled {
		return Verdict{Decision: Allowed}
	}
	if g.emergency {
		return Verdict{Decision: Blocked, Reason: "emergency stop active"}
	}

	// Sub-major changes are never rate-limited.
	if magnitude <= g.cfg.MaxLuminanceChange*majorFraction {
		return Verdict{Decision: Allowed}
	}

	g.pruneFlashes(now)

	if len(g.flashTimes) >= int(g.cfg.MaxFlashRate) {
		g.violations++
		return Verdict{Decision: Blocked, Reason: "flash rate window full"}
	}

	minSpacing := time.Duration(float64(time.Second) / g.cfg.MaxFlashRate)
	if g.hasMajor && now.Sub(g.lastMajor) < minSpacing {
		g.violations++
		return Verdict{Decision: Blocked, Reason: "flash spacing too tight"}
	}

	g.flashTimes = append(g.flashTimes, now)
	g.lastMajor = now
	g.hasMajor = true
	return Verdict{Decision: Allowed}
}

// Attenuate applies the global intensity limit to a candidate color. Callers
// must compare and store colors in this attenuated space: attenuating inside
// the change limiter would make its output differ from its input even for a
// static color, which reads back as a phantom luminance delta every frame.
func (g *Guard) Attenuate(c Color) Color {
	if !g.cfg.Enabled || g.cfg.VisualIntensityLimit >= 1 {
		return c
	}
	return c.scale(g.cfg.VisualIntensityLimit)
}

// LimitColorChange bounds the perceptual jump from prev to next. Oversized
// luminance deltas are softened by interpolation rather than blocked, and
// dangerous red flashes are hue-shifted out of the red band. Both colors must
// already be in the attenuated space (see Attenuate).
func (g *Guard) LimitColorChange(next, prev Color) (Color, Verdict) {
	if !g.cfg.Enabled {
		return next, Verdict{Decision: Allowed}
	}
	if g.emergency {
		return prev, Verdict{Decision: Blocked, Reason: "emergency stop active"}
	}

	out := next
	modified := false

	delta := absf(next.Luminance() - prev.Luminance())
	cap := g.cfg.MaxLuminanceChange
	if delta > cap {
		// Move toward the candidate only as far as the cap allows.
		// Luminance is linear in RGB, so one application lands inside the
		// cap and a second application is a no-op.
		t := cap / delta * g.cfg.Smoothing
		out = prev.Lerp(next, t)
		modified = true
		g.violations++
	}

	if g.cfg.RedFlashProtection && IsRedFlash(prev, next, cap) {
		h, s, v := out.HSV()
		h = shiftOffRedBand(h)
		s *= 0.8
		out = FromHSV(h, s, v)
		modified = true
		g.violations++
	}

	if modified {
		return out, Verdict{Decision: Modified, Color: out}
	}
	return out, Verdict{Decision: Allowed}
}

// AllowFlash implements chaos dampening: at most MaxSimultaneous entities may
// be in a flashing state at once, enforced through per-entity cooldowns.
func (g *Guard) AllowFlash(entityID int32, now time.Time) bool {
	if !g.cfg.Enabled || !g.cfg.ChaosDampening {
		return true
	}
	if g.emergency {
		return false
	}

	for id, t := range g.flashers {
		if now.Sub(t) > flasherCooldown {
			delete(g.flashers, id)
		}
	}

	if _, ok := g.flashers[entityID]; ok {
		return true // Already counted; extending a flash is fine
	}
	if len(g.flashers) >= g.cfg.MaxSimultaneous {
		return false
	}
	g.flashers[entityID] = now
	return true
}

// EmergencyStop arms the circuit breaker: every proposal is blocked until
// Release is called.
func (g *Guard) EmergencyStop() {
	g.emergency = true
}

// Release clears the emergency stop and resets flash history.
func (g *Guard) Release() {
	g.emergency = false
	g.flashTimes = g.flashTimes[:0]
	g.hasMajor = false
	g.flashers = make(map[int32]time.Time)
}

// EmergencyActive reports whether the breaker is armed.
func (g *Guard) EmergencyActive() bool {
	return g.emergency
}

// Violations returns the cumulative count of blocked or modified proposals.
// The audio limiter samples this to drive its soft gain ramp.
func (g *Guard) Violations() int {
	return g.violations
}

// pruneFlashes drops timestamps older than the sliding window.
func (g *Guard) pruneFlashes(now time.Time) {
	w := 0
	for _, t := range g.flashTimes {
		if now.Sub(t) < flashWindow {
			g.flashTimes[w] = t
			w++
		}
	}
	g.flashTimes = g.flashTimes[:w]
}

// IsRedFlash reports whether the transition enters or leaves the dangerous
// red band with a luminance jump exceeding half the cap. Either endpoint in
// the band counts, so red-to-blue and blue-to-red are flagged symmetrically.
func IsRedFlash(prev, next Color, cap float32) bool {
	jump := absf(next.Luminance() - prev.Luminance())
	if jump <= cap/2 {
		return false
	}
	ph, ps, _ := prev.HSV()
	nh, ns, _ := next.HSV()
	prevRed := redBandContains(ph) && ps > 0.5
	nextRed := redBandContains(nh) && ns > 0.5
	return prevRed || nextRed
}

// shiftOffRedBand moves a hue 20 degrees away from the red band, toward
// whichever edge is closer.
func shiftOffRedBand(h float32) float32 {
	if !redBandContains(h) {
		return h
	}
	if h <= 15 {
		return h + 20
	}
	return h - 20
}

// scale darkens a color toward black by the given factor.
func (c Color) scale(k float32) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
