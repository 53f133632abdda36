package audio

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/lumen/beat"
	"github.com/pthm-cable/lumen/config"
)

func testSynth() *Synth {
	return NewSynth(config.AudioConfig{SampleRate: 44100, MasterGain: 0.8})
}

func TestEnvironmentTierThresholds(t *testing.T) {
	tests := []struct {
		total float32
		count int
		want  Environment
	}{
		{250, 5, RealityTear}, // Consciousness override wins regardless of count
		{50, 60, HiveMind},    // Population override beats the consciousness ladder
		{10, 10, Environmental},
		{40, 10, Meditative},
		{100, 10, Psychedelic},
		{150, 10, Electronica},
		{250, 60, RealityTear}, // Both overrides: consciousness outranks population
	}
	for _, tc := range tests {
		got := EnvironmentFromState(tc.total, tc.count)
		if got != tc.want {
			t.Errorf("EnvironmentFromState(%v, %d) = %s, want %s",
				tc.total, tc.count, got.Name(), tc.want.Name())
		}
	}
}

func TestConfigFallback(t *testing.T) {
	bogus := Environment(200)
	if bogus.Config() != synthConfigs[Environmental] {
		t.Error("unknown tier did not fall back to Environmental preset")
	}
}

func TestSampleBounds(t *testing.T) {
	s := testSynth()
	rng := rand.New(rand.NewSource(77))

	for i := 0; i < 10000; i++ {
		bs := beat.State{
			IsBeatDrop:      rng.Intn(4) == 0,
			Intensity:       rng.Float32(),
			Phase:           rng.Float32(),
			PrimeFactor:     rng.Float32(),
			CosmicFrequency: 440 + rng.Float32()*220,
		}
		env := Environment(rng.Intn(int(numEnvironments)))
		total := rng.Float32() * 400
		counts := [3]int{rng.Intn(200), rng.Intn(200), rng.Intn(200)}

		out := s.Sample(rng.Float64()*1000, bs, env, total, counts)
		if out < -1 || out > 1 {
			t.Fatalf("sample %d out of range: %v (env %s)", i, out, env.Name())
		}
	}
}

func TestSampleDeterministic(t *testing.T) {
	a, b := testSynth(), testSynth()
	bs := beat.State{Intensity: 0.5, PrimeFactor: 0.3, CosmicFrequency: 523}
	counts := [3]int{40, 30, 20}

	for i := 0; i < 1000; i++ {
		ts := float64(i) / 44100
		if a.Sample(ts, bs, Psychedelic, 90, counts) != b.Sample(ts, bs, Psychedelic, 90, counts) {
			t.Fatalf("synths diverged at sample %d", i)
		}
	}
}

func TestHarmonicStackBounds(t *testing.T) {
	if out := harmonicStack(0.37, 220, 1); out != 0 {
		t.Errorf("single-partial stack produced output: %v", out)
	}

	rng := rand.New(rand.NewSource(31))
	for n := 2; n <= 8; n++ {
		for i := 0; i < 1000; i++ {
			out := harmonicStack(rng.Float64()*10, 110+rng.Float64()*440, n)
			if out < -0.25 || out > 0.25 {
				t.Fatalf("stack of %d partials out of range: %v", n, out)
			}
		}
	}
}

func TestReverbChargesDelayLine(t *testing.T) {
	s := testSynth()
	bs := beat.State{Intensity: 1, PrimeFactor: 0.8, CosmicFrequency: 523}

	// Half a second of a heavy-reverb tier must leave energy in the echo line.
	for i := 0; i < 22050; i++ {
		s.Sample(float64(i)/44100, bs, RealityTear, 300, [3]int{80, 80, 80})
	}

	var energy float64
	for _, v := range s.echo {
		if v < 0 {
			v = -v
		}
		energy += v
	}
	if energy == 0 {
		t.Error("reverb never wrote into the delay line")
	}
}

func TestEnvelopeFollowersStayNonNegative(t *testing.T) {
	s := testSynth()
	bs := beat.State{Intensity: 1, PrimeFactor: 0.9, CosmicFrequency: 600}

	for i := 0; i < 44100; i++ {
		s.Sample(float64(i)/44100, bs, Electronica, 150, [3]int{50, 50, 50})
	}
	if s.BassLevel() < 0 || s.TrebleLevel() < 0 {
		t.Errorf("followers went negative: bass %v treble %v", s.BassLevel(), s.TrebleLevel())
	}
}

func TestLimiterDucksAndRecovers(t *testing.T) {
	l := NewLimiter()

	l.Observe(3)
	ducked := l.Gain()
	if ducked >= 1 {
		t.Fatalf("gain did not duck: %v", ducked)
	}

	// Re-observing the same count must not duck again.
	l.Observe(3)
	if l.Gain() != ducked {
		t.Errorf("gain changed without new violations: %v -> %v", ducked, l.Gain())
	}

	for i := 0; i < 600; i++ {
		l.Step(1.0 / 60.0)
	}
	if l.Gain() <= ducked {
		t.Errorf("gain did not recover: %v", l.Gain())
	}
	if l.Gain() > 1 {
		t.Errorf("gain overshot unity: %v", l.Gain())
	}
}

func TestLimiterFloor(t *testing.T) {
	l := NewLimiter()
	l.Observe(1000)
	if l.Gain() < limiterFloor {
		t.Errorf("gain %v fell below floor %v", l.Gain(), limiterFloor)
	}
}
