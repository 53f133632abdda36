package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.Population.Initial <= 0 {
		t.Errorf("population.initial = %d, want > 0", cfg.Population.Initial)
	}
	if cfg.Population.Max < cfg.Population.Initial {
		t.Errorf("population.max %d below initial %d", cfg.Population.Max, cfg.Population.Initial)
	}
	if len(cfg.Species) != 3 {
		t.Fatalf("species count = %d, want 3", len(cfg.Species))
	}
	if len(cfg.Interaction.Table) != 3 {
		t.Errorf("interaction table rows = %d, want 3", len(cfg.Interaction.Table))
	}
	if cfg.Audio.SampleRate <= 0 {
		t.Errorf("audio.sample_rate = %d, want > 0", cfg.Audio.SampleRate)
	}
	if !cfg.Safety.Enabled {
		t.Error("safety disabled in defaults")
	}
}

func TestLoadComputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.Derived.DT32 <= 0 {
		t.Errorf("derived DT32 = %v, want > 0", cfg.Derived.DT32)
	}
	// World dimensions of 0 fall back to the screen size.
	if cfg.Derived.WorldW32 != cfg.Derived.ScreenW32 || cfg.Derived.WorldH32 != cfg.Derived.ScreenH32 {
		t.Errorf("world %vx%v did not default to screen %vx%v",
			cfg.Derived.WorldW32, cfg.Derived.WorldH32, cfg.Derived.ScreenW32, cfg.Derived.ScreenH32)
	}
}

func TestPresetOrdering(t *testing.T) {
	conservative := Preset("conservative")
	standard := Preset("standard")
	aggressive := Preset("aggressive")

	if !(conservative.MaxLuminanceChange < standard.MaxLuminanceChange &&
		standard.MaxLuminanceChange < aggressive.MaxLuminanceChange) {
		t.Errorf("luminance caps not ordered: %v / %v / %v",
			conservative.MaxLuminanceChange, standard.MaxLuminanceChange, aggressive.MaxLuminanceChange)
	}
	if !(conservative.VisualIntensityLimit < standard.VisualIntensityLimit &&
		standard.VisualIntensityLimit < aggressive.VisualIntensityLimit) {
		t.Errorf("intensity limits not ordered: %v / %v / %v",
			conservative.VisualIntensityLimit, standard.VisualIntensityLimit, aggressive.VisualIntensityLimit)
	}
	for _, p := range []SafetyConfig{conservative, standard, aggressive} {
		if !p.Enabled {
			t.Error("preset with safety disabled")
		}
	}
}
