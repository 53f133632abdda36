package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/lumen/ecosystem"
	"github.com/pthm-cable/lumen/safety"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.5, 3},
		{1, 5},
		{0.25, 2},
	}
	for _, tc := range tests {
		if got := Percentile(sorted, tc.p); got != tc.want {
			t.Errorf("Percentile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}

	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("Percentile(empty) = %v, want 0", got)
	}
}

func TestComputeConsciousnessStats(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeConsciousnessStats([]float64{1, 2, 3, 4, 5})

	if mean != 3 {
		t.Errorf("mean = %v, want 3", mean)
	}
	if math.Abs(std-1.5811) > 0.001 {
		t.Errorf("std = %v, want ~1.5811", std)
	}
	if p50 != 3 {
		t.Errorf("p50 = %v, want 3", p50)
	}
	if p10 >= p90 {
		t.Errorf("p10 %v >= p90 %v", p10, p90)
	}

	_, std, _, _, _ = ComputeConsciousnessStats([]float64{7})
	if std != 0 {
		t.Errorf("single-sample std = %v, want 0", std)
	}
}

func TestCollectorFlushResets(t *testing.T) {
	c := NewCollector(5.0, 1.0/60.0)

	c.RecordTick(ecosystem.TickEvents{
		Births: 2, PredationsStarted: 3, HivesFormed: 1,
	})
	c.RecordTick(ecosystem.TickEvents{Deaths: 1, ConflictsOpened: 2})

	stats := c.Flush(300, [3]int{40, 35, 25}, []float64{0.5, 1.0, 1.5}, 0.8, 2, "psychedelic")

	if stats.Births != 2 || stats.Deaths != 1 {
		t.Errorf("births/deaths = %d/%d, want 2/1", stats.Births, stats.Deaths)
	}
	if stats.PredationsStarted != 3 || stats.ConflictsOpened != 2 || stats.HivesFormed != 1 {
		t.Error("event counters not folded into window")
	}
	if stats.RadiantCount != 40 || stats.Environment != "psychedelic" {
		t.Error("end-of-window samples not recorded")
	}
	if stats.SimTimeSec != 5 {
		t.Errorf("sim time = %v, want 5", stats.SimTimeSec)
	}

	// Second window starts clean.
	stats = c.Flush(600, [3]int{0, 0, 0}, nil, 0, 0, "environmental")
	if stats.Births != 0 || stats.PredationsStarted != 0 {
		t.Error("counters not reset between windows")
	}
	if stats.WindowStartTick != 300 {
		t.Errorf("window start = %d, want 300", stats.WindowStartTick)
	}
}

func TestCollectorShouldFlush(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	if c.ShouldFlush(59) {
		t.Error("flush signaled before window elapsed")
	}
	if !c.ShouldFlush(60) {
		t.Error("flush not signaled at window boundary")
	}
}

func TestSafetyVerdictCounting(t *testing.T) {
	c := NewCollector(5.0, 1.0/60.0)

	c.RecordVerdict(safety.Allowed)
	c.RecordVerdict(safety.Allowed)
	c.RecordVerdict(safety.Modified)
	c.RecordVerdict(safety.Blocked)

	stats := c.FlushSafety(300, 7, 0.85, false)
	if stats.Allowed != 2 || stats.Modified != 1 || stats.Blocked != 1 {
		t.Errorf("verdicts = %d/%d/%d, want 2/1/1", stats.Allowed, stats.Modified, stats.Blocked)
	}
	if stats.ViolationsTotal != 7 || stats.LimiterGain != 0.85 {
		t.Error("guard samples not recorded")
	}

	stats = c.FlushSafety(600, 7, 1.0, false)
	if stats.Allowed != 0 {
		t.Error("verdict counters not reset between windows")
	}
}

func TestPerfCollectorPhases(t *testing.T) {
	p := NewPerfCollector(4)

	for i := 0; i < 6; i++ {
		p.StartTick()
		p.StartPhase(PhaseBehavior)
		busyWork()
		p.StartPhase(PhaseHierarchy)
		busyWork()
		p.EndTick()
	}

	stats := p.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("no tick duration recorded")
	}
	if stats.PhaseAvg[PhaseBehavior] <= 0 || stats.PhaseAvg[PhaseHierarchy] <= 0 {
		t.Error("phase durations missing")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v > max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func busyWork() {
	x := 0.0
	for i := 0; i < 1000; i++ {
		x += math.Sqrt(float64(i))
	}
	_ = x
}
