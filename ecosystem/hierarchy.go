package ecosystem

import (
	"github.com/google/uuid"

	"github.com/pthm-cable/lumen/creature"
)

// HiveMind is the persistent record of a hive-level cluster. Clusters are
// recomputed every tick; hive records survive across ticks until membership
// drops below the survival floor.
type HiveMind struct {
	ID      uuid.UUID
	Members []int32

	// Connections is the random sparse member graph built at formation,
	// stored as index pairs into Members.
	Connections [][2]int

	Center        creature.Vec2
	Consciousness float32

	// DecisionWeight scales the gravitational pull toward the hive center.
	DecisionWeight float32 // [0.7, 1.0]

	PooledMemories creature.MemoryBank
}

// updateClusters is the greedy grouping pass. Every non-inert entity lands in
// exactly one same-species cluster; cluster size decides the hierarchy level.
// Transitive growth is allowed past the pack cap only when the cluster
// reaches hive size, so packs stay small while hives can swell.
func (w *World) updateClusters() {
	pop := w.entities
	visited := w.visitScratch
	for i := range visited {
		visited[i] = false
	}
	for i := range pop {
		pop[i].Level = creature.LevelIndividual
		pop[i].CollectiveID = -1
	}

	w.clusters = w.clusters[:0]

	for i := range pop {
		if visited[i] || pop[i].Inert() {
			continue
		}

		cluster := w.growCluster(int32(i), visited)
		if len(cluster) < w.cfg.Hierarchy.HiveMinMembers && len(cluster) > w.cfg.Hierarchy.GroupCap {
			// Oversized but not hive-grade: trim back to the cap. Trimmed
			// entities get reconsidered as seeds on later iterations.
			for _, idx := range cluster[w.cfg.Hierarchy.GroupCap:] {
				visited[idx] = false
			}
			cluster = cluster[:w.cfg.Hierarchy.GroupCap]
		}

		level := creature.LevelIndividual
		switch {
		case len(cluster) >= w.cfg.Hierarchy.HiveMinMembers:
			level = creature.LevelHive
		case len(cluster) >= 2:
			level = creature.LevelPack
		}
		for _, idx := range cluster {
			pop[idx].Level = level
			pop[idx].CollectiveID = -1
		}
		if len(cluster) >= 2 {
			w.bondCluster(cluster)
		}

		members := make([]int32, len(cluster))
		copy(members, cluster)
		w.clusters = append(w.clusters, members)
	}
}

// bondCluster forms social bonds along the cluster's discovery order, so
// repeated co-clustering gradually ties a group together. Bond slots are
// bounded per entity; Add is a no-op once full.
func (w *World) bondCluster(cluster []int32) {
	pop := w.entities
	for i := 1; i < len(cluster); i++ {
		a, b := cluster[i-1], cluster[i]
		pop[a].Bonds.Add(b)
		pop[b].Bonds.Add(a)
	}
}

// growCluster expands a same-species cluster from a seed by breadth-first
// search over the clustering radius.
func (w *World) growCluster(seed int32, visited []bool) []int32 {
	pop := w.entities
	species := pop[seed].Species

	cluster := w.clusterScratch[:0]
	cluster = append(cluster, seed)
	visited[seed] = true

	for cursor := 0; cursor < len(cluster); cursor++ {
		cur := cluster[cursor]
		e := &pop[cur]
		radius := float32(w.cfg.Hierarchy.ClusterBase) +
			e.Personality.Sociability/creature.TraitMax*float32(w.cfg.Hierarchy.ClusterSocialGain)

		w.neighborScratch = w.neighborScratch[:0]
		w.neighborScratch = w.grid.QueryRadiusInto(w.neighborScratch, e.Pos.X, e.Pos.Y, radius, cur, pop)

		for _, n := range w.neighborScratch {
			if visited[n.Index] || pop[n.Index].Species != species {
				continue
			}
			visited[n.Index] = true
			cluster = append(cluster, n.Index)
		}
	}

	w.clusterScratch = cluster
	return cluster
}

// updateHives reconciles this tick's hive-grade clusters against the
// persistent hive records: matching hives update in place, unmatched clusters
// form new hives, and hives that fall below the survival floor dissolve.
func (w *World) updateHives(dt float32) {
	pop := w.entities

	// Drop inert members, then dissolve undersized hives.
	kept := w.hives[:0]
	for _, h := range w.hives {
		live := h.Members[:0]
		for _, idx := range h.Members {
			if !pop[idx].Inert() {
				live = append(live, idx)
			}
		}
		h.Members = live

		if len(h.Members) < w.cfg.Hierarchy.HiveSurviveFloor {
			for _, idx := range h.Members {
				pop[idx].Level = creature.LevelIndividual
				pop[idx].CollectiveID = -1
			}
			w.events.HivesDissolved++
			continue
		}
		kept = append(kept, h)
	}
	w.hives = kept

	// Bind this tick's hive clusters to records, creating where none match.
	for _, cluster := range w.clusters {
		if len(cluster) < w.cfg.Hierarchy.HiveMinMembers {
			continue
		}
		h := w.matchHive(cluster)
		if h == nil {
			h = w.formHive(cluster)
			w.hives = append(w.hives, h)
			w.events.HivesFormed++
		} else {
			members := h.Members[:0]
			members = append(members, cluster...)
			h.Members = members
		}
	}

	// Update surviving hives and apply member effects.
	for hi, h := range w.hives {
		var cx, cy, total float32
		for _, idx := range h.Members {
			cx += pop[idx].Pos.X
			cy += pop[idx].Pos.Y
			total += pop[idx].Consciousness
		}
		n := float32(len(h.Members))
		h.Center = creature.Vec2{X: cx / n, Y: cy / n}
		h.Consciousness = total

		boost := float32(w.cfg.Hierarchy.HiveBoost) * dt * 60
		pull := float32(w.cfg.Hierarchy.HivePull) * h.DecisionWeight * dt * 60
		for _, idx := range h.Members {
			e := &pop[idx]
			e.Level = creature.LevelHive
			e.CollectiveID = int32(hi)
			e.Consciousness += boost
			dx, dy := creature.ToroidalDelta(e.Pos.X, e.Pos.Y, h.Center.X, h.Center.Y, w.params.WorldW, w.params.WorldH)
			e.Vel.X += dx * pull
			e.Vel.Y += dy * pull
		}
	}
}

// removeMember strips a recycled slot index from the hive so the entity that
// reuses the slot is not treated as a member. Connection pairs touching the
// removed position are dropped and the remaining pairs reindexed.
func (h *HiveMind) removeMember(idx int32) {
	pos := -1
	for i, m := range h.Members {
		if m == idx {
			pos = i
			break
		}
	}
	if pos == -1 {
		return
	}
	h.Members = append(h.Members[:pos], h.Members[pos+1:]...)

	kept := h.Connections[:0]
	for _, c := range h.Connections {
		if c[0] == pos || c[1] == pos {
			continue
		}
		if c[0] > pos {
			c[0]--
		}
		if c[1] > pos {
			c[1]--
		}
		kept = append(kept, c)
	}
	h.Connections = kept
}

// matchHive finds an existing hive sharing at least half its members with
// the cluster. Exact set identity is too brittle when membership churns by
// one entity per tick.
func (w *World) matchHive(cluster []int32) *HiveMind {
	inCluster := w.memberScratch
	for k := range inCluster {
		delete(inCluster, k)
	}
	for _, idx := range cluster {
		inCluster[idx] = struct{}{}
	}

	for _, h := range w.hives {
		shared := 0
		for _, idx := range h.Members {
			if _, ok := inCluster[idx]; ok {
				shared++
			}
		}
		if shared*2 >= len(h.Members) {
			return h
		}
	}
	return nil
}

// formHive creates a hive record for a new hive-grade cluster: fresh
// identity, a sparse random connection graph, and memories pooled from the
// strongest fragments the members carry.
func (w *World) formHive(cluster []int32) *HiveMind {
	members := make([]int32, len(cluster))
	copy(members, cluster)

	h := &HiveMind{
		ID:             uuid.New(),
		Members:        members,
		DecisionWeight: 0.7 + w.rng.Float32()*0.3,
	}

	density := w.cfg.Hierarchy.ConnectionDensity
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if w.rng.Float64() < density {
				h.Connections = append(h.Connections, [2]int{i, j})
			}
		}
	}

	for _, idx := range members {
		m := &w.entities[idx].Memories
		for f := uint8(0); f < m.Count; f++ {
			h.PooledMemories.Remember(m.Fragments[f].Pos, m.Fragments[f].Intensity)
		}
	}

	return h
}
