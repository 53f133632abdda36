package game

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/creature"
	"github.com/pthm-cable/lumen/ecosystem"
	"github.com/pthm-cable/lumen/safety"
)

// renderState holds per-entity history the safety gating needs across
// frames.
type renderState struct {
	prevColors map[int32]safety.Color
}

// Draw renders the latest published snapshot. Every color change is routed
// through the guard; blocked changes keep last frame's color.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	g.perf.RecordFrame()

	rl.ClearBackground(rl.Color{R: 8, G: 8, B: 14, A: 255})

	if g.warning {
		g.drawWarning()
		return
	}

	snap := g.world.Latest()
	if snap == nil {
		rl.DrawText("warming up...", 20, 20, 20, rl.Gray)
		return
	}

	now := time.Now()

	g.drawCrystals()
	g.drawHiveLinks(snap)
	g.drawConflicts()

	seen := make(map[int32]bool, len(snap.Entities))
	for _, e := range snap.Entities {
		seen[e.Index] = true
		g.drawEntity(e, now)
	}
	// Forget entities that left the snapshot so the map stays bounded.
	for idx := range g.render.prevColors {
		if !seen[idx] {
			delete(g.render.prevColors, idx)
		}
	}

	g.drawHUD(snap)
	g.drawPanel()
}

// drawEntity computes the entity's wanted color, passes it through the
// guard, and draws.
func (g *Game) drawEntity(e ecosystem.EntitySnapshot, now time.Time) {
	val := 0.5 + 0.5*clamp01(e.Consciousness*0.3)
	want := safety.FromHSV(e.Hue, e.Saturation, val)

	// Trip flashes brighten the entity; chaos dampening caps how many may
	// flash at once.
	if e.TripIntensity > 0.7 && g.guard.AllowFlash(e.Index, now) {
		want = safety.FromHSV(e.Hue, e.Saturation*0.7, 1)
	}

	// Work in the attenuated space so a static color settles to a zero
	// delta instead of fighting the intensity limit forever.
	want = g.guard.Attenuate(want)

	prev, ok := g.render.prevColors[e.Index]
	if !ok {
		prev = want
	}

	magnitude := absf32(want.Luminance() - prev.Luminance())
	verdict := g.guard.Propose(magnitude, now)
	g.collector.RecordVerdict(verdict.Decision)

	var out safety.Color
	switch verdict.Decision {
	case safety.Blocked:
		out = prev
	default:
		limited, v2 := g.guard.LimitColorChange(want, prev)
		g.collector.RecordVerdict(v2.Decision)
		out = limited
	}
	g.render.prevColors[e.Index] = out

	radius := 3 + clamp01(e.Consciousness*0.2)*6
	if e.Level == creature.LevelHive {
		radius += 2
	}

	rl.DrawCircleV(rl.Vector2{X: e.Pos.X, Y: e.Pos.Y}, radius, toRaylib(out))

	// Distortion halo, dim enough to never trip the luminance guard.
	if e.Distortion > 0.5 {
		halo := toRaylib(out)
		halo.A = uint8(40 * e.Distortion)
		rl.DrawCircleV(rl.Vector2{X: e.Pos.X, Y: e.Pos.Y}, radius*2.5, halo)
	}
}

// drawHiveLinks draws the connection graphs of live hives.
func (g *Game) drawHiveLinks(snap *ecosystem.Snapshot) {
	pos := make(map[int32]creature.Vec2, len(snap.Entities))
	for _, e := range snap.Entities {
		pos[e.Index] = e.Pos
	}

	for _, h := range g.world.Hives() {
		for _, conn := range h.Connections {
			a, okA := pos[h.Members[conn[0]]]
			b, okB := pos[h.Members[conn[1]]]
			if !okA || !okB {
				continue
			}
			rl.DrawLineV(
				rl.Vector2{X: a.X, Y: a.Y},
				rl.Vector2{X: b.X, Y: b.Y},
				rl.Color{R: 120, G: 160, B: 200, A: 60})
		}
	}
}

// drawConflicts marks contested territory.
func (g *Game) drawConflicts() {
	for _, c := range g.world.Conflicts() {
		rl.DrawCircleLines(int32(c.Center.X), int32(c.Center.Y),
			float32(g.cfg.Warfare.InfluenceRadius),
			rl.Color{R: 200, G: 80, B: 80, A: 90})
	}
}

// drawCrystals renders the harvest nodes.
func (g *Game) drawCrystals() {
	for _, c := range g.world.Distortion().Crystals() {
		rl.DrawPoly(rl.Vector2{X: c.X, Y: c.Y}, 6, 8, 0,
			rl.Color{R: 90, G: 200, B: 180, A: 120})
	}
}

// drawHUD shows population, environment, beat, and audio follower bars.
func (g *Game) drawHUD(snap *ecosystem.Snapshot) {
	y := int32(10)
	line := func(s string) {
		rl.DrawText(s, 10, y, 16, rl.RayWhite)
		y += 20
	}

	line(fmt.Sprintf("tick %d  entities %d  consciousness %.1f",
		snap.Tick, len(snap.Entities), snap.TotalConsciousness))
	line(fmt.Sprintf("radiant %d  umbral %d  crystalline %d",
		snap.SpeciesCounts[0], snap.SpeciesCounts[1], snap.SpeciesCounts[2]))
	line(fmt.Sprintf("environment %s  tempo %.0f  stability %.2f  distortion %.2f",
		g.lastEnv.Name(), g.beatEng.Tempo(), g.world.Stability(), snap.GlobalDistortion))

	if g.lastBeat.IsBeatDrop {
		rl.DrawText("DROP", 10, y, 16, rl.Gold)
	}
	y += 20

	// Envelope follower bars, visualization only.
	bass := g.synth.BassLevel()
	treble := g.synth.TrebleLevel()
	rl.DrawRectangle(10, y, int32(bass*150), 6, rl.Color{R: 90, G: 120, B: 220, A: 200})
	rl.DrawRectangle(10, y+8, int32(treble*150), 6, rl.Color{R: 220, G: 180, B: 90, A: 200})

	if g.paused {
		rl.DrawText("PAUSED", int32(g.cfg.Screen.Width/2-40), 10, 20, rl.Gray)
	}
	if g.guard.EmergencyActive() {
		rl.DrawText("EMERGENCY STOP", int32(g.cfg.Screen.Width/2-90), 40, 20, rl.Red)
	}
}

// drawWarning shows the photosensitivity notice until dismissed.
func (g *Game) drawWarning() {
	w := int32(g.cfg.Screen.Width)
	h := int32(g.cfg.Screen.Height)

	rl.DrawText("PHOTOSENSITIVITY WARNING", w/2-220, h/2-60, 28, rl.Gold)
	rl.DrawText("This program shows flashing colors and rapid luminance changes.", w/2-260, h/2-10, 16, rl.RayWhite)
	rl.DrawText("A safety layer limits flash rate and brightness, but viewer caution is advised.", w/2-290, h/2+12, 16, rl.RayWhite)
	rl.DrawText("Press ENTER to continue, ESC to quit.", w/2-150, h/2+50, 16, rl.Gray)
}

// toRaylib converts a safety color to raylib's 8-bit form.
func toRaylib(c safety.Color) rl.Color {
	return rl.Color{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: 255,
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
