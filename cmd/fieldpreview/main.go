// Command fieldpreview renders the distortion field standalone so its
// noise parameters can be tuned visually before a run.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/ecosystem"
)

const cell = 8 // pixels per sample

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 42, "Noise seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	w, h := cfg.Screen.Width, cfg.Screen.Height
	rl.InitWindow(int32(w), int32(h), "Lumen field preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	scale := float32(cfg.Distortion.Scale)
	speed := float32(cfg.Distortion.TimeSpeed)
	strength := float32(cfg.Distortion.Strength)
	field := buildField(cfg, scale, speed, strength, *seed)

	t := 0.0
	for !rl.WindowShouldClose() {
		t += float64(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		for py := 0; py < h; py += cell {
			for px := 0; px < w; px += cell {
				shade := shadeOf(field.Sample(float32(px), float32(py), t))
				rl.DrawRectangle(int32(px), int32(py), cell, cell,
					rl.Color{R: shade / 3, G: shade / 2, B: shade, A: 255})
			}
		}

		for _, c := range field.Crystals() {
			rl.DrawCircleLines(int32(c.X), int32(c.Y), 10, rl.SkyBlue)
		}

		y := float32(10)
		newScale := gui.SliderBar(rl.Rectangle{X: 10, Y: y, Width: 180, Height: 20},
			"", fmt.Sprintf("scale %.4f", scale), scale, 0.001, 0.05)
		y += 26
		newSpeed := gui.SliderBar(rl.Rectangle{X: 10, Y: y, Width: 180, Height: 20},
			"", fmt.Sprintf("speed %.2f", speed), speed, 0.01, 2.0)
		y += 26
		newStrength := gui.SliderBar(rl.Rectangle{X: 10, Y: y, Width: 180, Height: 20},
			"", fmt.Sprintf("strength %.2f", strength), strength, 0.1, 3.0)

		if newScale != scale || newSpeed != speed || newStrength != strength {
			scale, speed, strength = newScale, newSpeed, newStrength
			field = buildField(cfg, scale, speed, strength, *seed)
		}

		rl.EndDrawing()
	}
}

// shadeOf maps a field sample to an 8-bit shade. Samples exceed 1 when the
// strength slider is above unity; clamp instead of letting the byte wrap.
func shadeOf(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

func buildField(cfg *config.Config, scale, speed, strength float32, seed int64) *ecosystem.DistortionField {
	return ecosystem.NewDistortionField(
		float64(scale), float64(speed), float64(strength),
		cfg.Distortion.Crystals,
		cfg.Derived.WorldW32, cfg.Derived.WorldH32,
		rand.New(rand.NewSource(seed)),
	)
}
