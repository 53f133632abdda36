package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/config"
)

// drawPanel renders the safety control panel: preset buttons, the intensity
// slider, and the emergency stop. Preset switches go through SetConfig so
// the guard's flash history survives.
func (g *Game) drawPanel() {
	x := float32(g.cfg.Screen.Width) - 210
	y := float32(10)

	rl.DrawRectangle(int32(x)-10, int32(y)-5, 215, 170, rl.Color{R: 10, G: 10, B: 18, A: 200})
	rl.DrawText("safety", int32(x), int32(y), 16, rl.Gray)
	y += 24

	for _, name := range []string{"conservative", "standard", "aggressive"} {
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: 190, Height: 24}, name) {
			g.applyPreset(name)
		}
		y += 28
	}

	cfg := g.guard.Config()
	limit := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: 190, Height: 20},
		"", fmt.Sprintf("intensity %.2f", cfg.VisualIntensityLimit),
		cfg.VisualIntensityLimit, 0.2, 1.0)
	if limit != cfg.VisualIntensityLimit {
		cfg.VisualIntensityLimit = limit
		g.guard.SetConfig(cfg)
	}
	y += 28

	label := "EMERGENCY STOP"
	if g.guard.EmergencyActive() {
		label = "release"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 190, Height: 28}, label) {
		if g.guard.EmergencyActive() {
			g.guard.Release()
		} else {
			g.EmergencyStop()
		}
	}
	y += 32

	rl.DrawText(fmt.Sprintf("limiter gain %.2f", g.limiter.Gain()), int32(x), int32(y), 14, rl.Gray)
}

// applyPreset swaps the guard to one of the documented preset triples.
func (g *Game) applyPreset(name string) {
	g.guard.SetConfig(guardConfig(config.Preset(name)))
}
