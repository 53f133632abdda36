package beat

import (
	"math/rand"
	"testing"
)

func newTestEngine(seed int64) *Engine {
	return NewEngine(120, 60, 0.1, 0.02, 0.95, rand.New(rand.NewSource(seed)))
}

func TestPrimeTable(t *testing.T) {
	primes := primeTable(10)
	want := []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
	if len(primes) != len(want) {
		t.Fatalf("got %d primes, want %d", len(primes), len(want))
	}
	for i, p := range primes {
		if p != want[i] {
			t.Errorf("primes[%d] = %d, want %d", i, p, want[i])
		}
	}
}

func TestAdvanceRanges(t *testing.T) {
	e := newTestEngine(42)

	for i := 0; i < 10000; i++ {
		elapsed := float64(i) * 0.0166667
		s := e.Advance(elapsed)

		if s.PrimeFactor < 0 || s.PrimeFactor > 1 {
			t.Fatalf("elapsed=%v: prime factor %v out of [0,1]", elapsed, s.PrimeFactor)
		}
		if s.Phase < 0 || s.Phase >= 1.0001 {
			t.Fatalf("elapsed=%v: phase %v out of [0,1)", elapsed, s.Phase)
		}
		if s.Intensity < 0 || s.Intensity > 1 {
			t.Fatalf("elapsed=%v: intensity %v out of [0,1]", elapsed, s.Intensity)
		}
		if s.CosmicFrequency < 440 || s.CosmicFrequency > 660 {
			t.Fatalf("elapsed=%v: cosmic frequency %v out of [440,660]", elapsed, s.CosmicFrequency)
		}
	}
}

func TestAdvanceDeterministic(t *testing.T) {
	a := newTestEngine(7)
	b := newTestEngine(7)

	for i := 0; i < 5000; i++ {
		elapsed := float64(i) * 0.02
		sa := a.Advance(elapsed)
		sb := b.Advance(elapsed)

		if sa != sb {
			t.Fatalf("step %d: engines with identical seeds diverged: %+v vs %+v", i, sa, sb)
		}
	}
}

func TestTempoFollowsPrimeFactor(t *testing.T) {
	e := newTestEngine(1)

	s := e.Advance(100.0)
	wantTempo := 120.0 + float64(s.PrimeFactor)*60.0

	if diff := e.Tempo() - wantTempo; diff > 0.001 || diff < -0.001 {
		t.Errorf("tempo = %v, want %v for prime factor %v", e.Tempo(), wantTempo, s.PrimeFactor)
	}
}

func TestDropTriggersAtCycleBoundary(t *testing.T) {
	e := newTestEngine(3)

	// Phase near zero must register a drop regardless of the chaos roll.
	dropped := false
	for i := 0; i < 600; i++ {
		s := e.Advance(float64(i) * 0.0166667)
		if s.Phase < 0.1 && s.IsBeatDrop {
			dropped = true
			break
		}
	}
	if !dropped {
		t.Error("no drop observed near a cycle boundary over 10 simulated seconds")
	}
}
