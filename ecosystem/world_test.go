package ecosystem

import (
	"testing"

	"github.com/pthm-cable/lumen/beat"
	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/creature"
)

func testWorld(t *testing.T, initial int) *World {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Population.Initial = initial
	return NewWorld(cfg, 42)
}

func testBeat() beat.State {
	return beat.State{Intensity: 0.4, Phase: 0.5, PrimeFactor: 0.3, CosmicFrequency: 500}
}

func totalConsciousness(w *World) float32 {
	var total float32
	for i := range w.entities {
		total += w.entities[i].Consciousness
	}
	return total
}

func TestPredationConservesConsciousness(t *testing.T) {
	w := testWorld(t, 2)

	pred := &w.entities[0]
	prey := &w.entities[1]
	pred.Consciousness = 2.0
	prey.Consciousness = 0.5
	prey.Pos = creature.Vec2{X: pred.Pos.X + 20, Y: pred.Pos.Y}

	w.grid.Rebuild(w.entities)
	w.predations = append(w.predations, PredationEvent{Predator: 0, Prey: 1})

	before := totalConsciousness(w)
	for i := 0; i < 600; i++ {
		w.updatePredation(1.0 / 60.0)
		after := totalConsciousness(w)
		if after > before+0.0001 {
			t.Fatalf("tick %d: total consciousness grew from %v to %v", i, before, after)
		}
		before = after
	}
}

func TestPredationCompletionZeroesPrey(t *testing.T) {
	w := testWorld(t, 2)

	w.entities[0].Consciousness = 5.0
	w.entities[1].Consciousness = 0.5
	w.entities[1].Pos = creature.Vec2{X: w.entities[0].Pos.X + 10, Y: w.entities[0].Pos.Y}

	w.grid.Rebuild(w.entities)
	w.predations = append(w.predations, PredationEvent{Predator: 0, Prey: 1})

	for i := 0; i < 3600 && len(w.predations) > 0; i++ {
		w.updatePredation(1.0 / 60.0)
	}

	if w.entities[1].Consciousness != 0 {
		t.Errorf("prey consciousness = %v, want 0", w.entities[1].Consciousness)
	}
	if w.events.PredationsCompleted == 0 {
		t.Error("no completion recorded")
	}
}

func TestPredationAbortsOutOfRange(t *testing.T) {
	w := testWorld(t, 2)

	w.entities[0].Consciousness = 2.0
	w.entities[1].Consciousness = 0.5
	w.entities[1].Pos = creature.Vec2{
		X: wrapCoord(w.entities[0].Pos.X+300, w.params.WorldW),
		Y: w.entities[0].Pos.Y,
	}

	w.grid.Rebuild(w.entities)
	w.predations = append(w.predations, PredationEvent{Predator: 0, Prey: 1})
	w.updatePredation(1.0 / 60.0)

	if len(w.predations) != 0 {
		t.Error("out-of-range predation was not dropped")
	}
}

// plantHive positions n same-species entities in a tight knot and runs the
// hierarchy passes until a hive record exists.
func plantHive(t *testing.T, w *World, n int) *HiveMind {
	t.Helper()
	for i := 0; i < n; i++ {
		e := &w.entities[i]
		e.Species = creature.SpeciesRadiant
		e.Consciousness = 1.0
		e.Pos = creature.Vec2{X: 200 + float32(i%3)*10, Y: 200 + float32(i/3)*10}
	}
	// Park everyone else far away so they cannot join the cluster.
	for i := n; i < len(w.entities); i++ {
		w.entities[i].Consciousness = 0
	}

	w.grid.Rebuild(w.entities)
	w.updateClusters()
	w.updateHives(1.0 / 60.0)

	if len(w.hives) != 1 {
		t.Fatalf("hive count = %d, want 1", len(w.hives))
	}
	return w.hives[0]
}

func TestHiveFormsAtNineMembers(t *testing.T) {
	w := testWorld(t, 12)
	h := plantHive(t, w, 9)

	if len(h.Members) != 9 {
		t.Errorf("members = %d, want 9", len(h.Members))
	}
	for _, idx := range h.Members {
		if w.entities[idx].Level != creature.LevelHive {
			t.Errorf("member %d level = %s, want Hive", idx, w.entities[idx].Level.Name())
		}
	}
	if h.ID == [16]byte{} {
		t.Error("hive has zero identity")
	}
}

func TestHivePersistsAtFiveMembers(t *testing.T) {
	w := testWorld(t, 12)
	h := plantHive(t, w, 9)
	id := h.ID

	// Four members go inert; five remain.
	for _, idx := range h.Members[:4] {
		w.entities[idx].Consciousness = 0
	}
	w.grid.Rebuild(w.entities)
	w.updateClusters()
	w.updateHives(1.0 / 60.0)

	if len(w.hives) != 1 {
		t.Fatalf("hive dissolved at five members")
	}
	if w.hives[0].ID != id {
		t.Error("hive identity changed across persistence")
	}
	if len(w.hives[0].Members) != 5 {
		t.Errorf("members = %d, want 5", len(w.hives[0].Members))
	}
}

func TestHiveDissolvesAtFourMembers(t *testing.T) {
	w := testWorld(t, 12)
	h := plantHive(t, w, 9)

	survivors := make([]int32, len(h.Members[5:]))
	copy(survivors, h.Members[5:])

	// Five members go inert; four remain, below the survival floor.
	for _, idx := range h.Members[:5] {
		w.entities[idx].Consciousness = 0
	}
	w.grid.Rebuild(w.entities)
	w.updateHives(1.0 / 60.0)

	if len(w.hives) != 0 {
		t.Fatalf("hive survived at four members")
	}
	for _, idx := range survivors {
		e := &w.entities[idx]
		if e.Level != creature.LevelIndividual {
			t.Errorf("survivor %d level = %s, want Individual", idx, e.Level.Name())
		}
		if e.CollectiveID != -1 {
			t.Errorf("survivor %d still bound to collective %d", idx, e.CollectiveID)
		}
	}
}

func TestRecycledSlotLeavesHive(t *testing.T) {
	w := testWorld(t, 9)
	h := plantHive(t, w, 9)

	// Member 0 goes extinct; the spawn recycles its slot.
	w.entities[0].Consciousness = 0
	w.addEntity(creature.NewEntity(creature.SpeciesUmbral, w.params, w.rng))

	if len(h.Members) != 8 {
		t.Fatalf("members = %d, want 8", len(h.Members))
	}
	for _, idx := range h.Members {
		if idx == 0 {
			t.Error("recycled slot still listed as a hive member")
		}
	}
	for _, c := range h.Connections {
		if c[0] >= len(h.Members) || c[1] >= len(h.Members) {
			t.Errorf("connection %v outside member range %d", c, len(h.Members))
		}
	}
	for i := range w.entities {
		if w.entities[i].Bonds.Has(0) {
			t.Errorf("entity %d kept a bond to the recycled slot", i)
		}
	}
}

func TestClusterMatesFormBonds(t *testing.T) {
	w := testWorld(t, 9)
	h := plantHive(t, w, 9)

	members := make(map[int32]bool, len(h.Members))
	for _, idx := range h.Members {
		members[idx] = true
	}
	for _, idx := range h.Members {
		b := &w.entities[idx].Bonds
		if b.Count == 0 {
			t.Errorf("member %d formed no bonds", idx)
			continue
		}
		for i := uint8(0); i < b.Count; i++ {
			if !members[b.Indices[i]] {
				t.Errorf("member %d bonded outside the cluster: %d", idx, b.Indices[i])
			}
		}
	}
}

func TestEmpathySupportFromNeighbors(t *testing.T) {
	w := testWorld(t, 6)

	w.entities[0].Pos = creature.Vec2{X: 100, Y: 100} // Predator
	w.entities[1].Pos = creature.Vec2{X: 120, Y: 100} // Prey
	for i := 2; i < 6; i++ {
		e := &w.entities[i]
		e.Pos = creature.Vec2{X: 120 + float32(i)*5, Y: 110}
		e.Personality.Empathy = creature.TraitMax
	}
	w.grid.Rebuild(w.entities)

	support := w.empathySupport(1, 0)
	if support <= 0 {
		t.Fatalf("empathic crowd lent no support: %v", support)
	}
	if support > 1 {
		t.Fatalf("support %v exceeds cap", support)
	}

	// The predator's own empathy must not count toward the prey's defense.
	for i := 2; i < 6; i++ {
		w.entities[i].Personality.Empathy = 0
	}
	w.entities[0].Personality.Empathy = creature.TraitMax
	if got := w.empathySupport(1, 0); got != 0 {
		t.Errorf("predator lent support to its own prey: %v", got)
	}
}

func TestAggressionDrawsEntitiesIntoConflict(t *testing.T) {
	w := testWorld(t, 2)

	for i := range w.entities {
		e := &w.entities[i]
		e.Species = creature.SpeciesRadiant
		e.Consciousness = 1
		e.WarfareParticipation = 0
		e.Pos = creature.Vec2{X: 300 + float32(i)*10, Y: 300}
	}
	w.entities[0].Personality.Aggression = 0
	w.entities[1].Personality.Aggression = creature.TraitMax
	w.grid.Rebuild(w.entities)

	c := SpeciesConflict{
		Attacker: creature.SpeciesRadiant,
		Defender: creature.SpeciesUmbral,
		Center:   creature.Vec2{X: 300, Y: 300},
	}
	w.stokeParticipation(c, 1.0)

	calm := w.entities[0].WarfareParticipation
	fierce := w.entities[1].WarfareParticipation
	if calm <= 0 {
		t.Error("placid entity in the zone was not drawn in at all")
	}
	if fierce <= calm {
		t.Errorf("aggressive entity drawn in no faster: %v vs %v", fierce, calm)
	}
}

func TestSnapshotAveragesDistortion(t *testing.T) {
	w := testWorld(t, 4)
	for i := range w.entities {
		w.entities[i].Consciousness = 1
		w.entities[i].RealityDistortion = 0.1 + float32(i)*0.1
	}

	snap := w.buildSnapshot(testBeat())
	want := float32(0.25)
	if diff := snap.GlobalDistortion - want; diff < -0.0001 || diff > 0.0001 {
		t.Errorf("global distortion = %v, want %v", snap.GlobalDistortion, want)
	}
}

func TestPhaseHookSeesEveryPass(t *testing.T) {
	w := testWorld(t, 10)

	var got []string
	w.SetPhaseHook(func(name string) { got = append(got, name) })
	w.Step(1.0/60.0, testBeat())

	want := []string{
		"resonance", "spatial_grid", "behavior", "distortion", "hierarchy",
		"predation", "warfare", "evolution", "observer", "snapshot",
	}
	if len(got) != len(want) {
		t.Fatalf("phases = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("phase %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStepPublishesSnapshot(t *testing.T) {
	w := testWorld(t, 30)

	if w.Latest() != nil {
		t.Fatal("snapshot available before first tick")
	}

	w.Step(1.0/60.0, testBeat())
	snap := w.Latest()
	if snap == nil {
		t.Fatal("no snapshot after tick")
	}
	if snap.Tick != 1 {
		t.Errorf("tick = %d, want 1", snap.Tick)
	}
	if len(snap.Entities) == 0 {
		t.Error("snapshot has no entities")
	}

	counted := 0
	for _, c := range snap.SpeciesCounts {
		counted += c
	}
	if counted != len(snap.Entities) {
		t.Errorf("species counts %v do not cover %d entities", snap.SpeciesCounts, len(snap.Entities))
	}

	// Repeated ticks publish fresh snapshots.
	w.Step(1.0/60.0, testBeat())
	if w.Latest() == snap {
		t.Error("second tick did not publish a new snapshot")
	}
}

func TestSpawnEventRespectsPopulationCap(t *testing.T) {
	w := testWorld(t, 10)
	w.cfg.Population.Max = 15

	w.Enqueue(SpawnEvent{Count: 50, Intensity: 0.5})
	w.Step(1.0/60.0, testBeat())

	if live := w.liveCount(); live > 15 {
		t.Errorf("live count %d exceeds cap 15", live)
	}
	if w.events.Births == 0 {
		t.Error("no births recorded")
	}
}

func TestTearEventRaisesDistortion(t *testing.T) {
	w := testWorld(t, 10)

	var before float32
	for i := range w.entities {
		before += w.entities[i].RealityDistortion
	}

	w.Enqueue(TearEvent{Strength: 0.8})
	w.drainResonance()

	var after float32
	for i := range w.entities {
		after += w.entities[i].RealityDistortion
	}
	if after <= before {
		t.Errorf("distortion did not rise: %v -> %v", before, after)
	}
}

func TestForcePeaceClearsConflicts(t *testing.T) {
	w := testWorld(t, 10)
	w.conflicts = append(w.conflicts, SpeciesConflict{
		Attacker: creature.SpeciesRadiant, Defender: creature.SpeciesUmbral,
		VictoryThreshold: 2, Timeout: 40,
	})
	w.entities[0].WarfareParticipation = 0.9

	w.forcePeace()

	if len(w.conflicts) != 0 {
		t.Error("conflicts survived forced peace")
	}
	if w.entities[0].WarfareParticipation != 0 {
		t.Error("participation survived forced peace")
	}
}

func TestStabilityRangesAndMonoculture(t *testing.T) {
	w := testWorld(t, 30)

	balanced := w.stability()
	if balanced < 0 || balanced > 1 {
		t.Fatalf("stability %v out of [0,1]", balanced)
	}

	// Collapse to a monoculture; stability must drop.
	for i := range w.entities {
		w.entities[i].Species = creature.SpeciesUmbral
	}
	mono := w.stability()
	if mono >= balanced {
		t.Errorf("monoculture stability %v >= balanced %v", mono, balanced)
	}
}
