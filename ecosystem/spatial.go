// Package ecosystem owns the entity collection and runs the population
// dynamics passes each tick: behavior, clustering, hives, predation, warfare,
// evolution pressure, and the meta-observer. Consumers never see the backing
// slice; they read immutable published snapshots.
package ecosystem

import "github.com/pthm-cable/lumen/creature"

// Neighbor holds a nearby entity index with precomputed spatial data, so the
// passes never recompute toroidal deltas for the same query.
type Neighbor struct {
	Index  int32
	DX, DY float32 // Toroidal delta from query origin
	DistSq float32 // Squared distance
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid over
// entity indices. Rebuilt once per tick before the passes run.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	height   float32
	cells    [][]int32
}

// NewSpatialGrid creates a grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Rebuild clears the grid and inserts every non-inert entity.
func (g *SpatialGrid) Rebuild(pop []creature.Entity) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for i := range pop {
		if pop[i].Inert() {
			continue
		}
		idx := g.cellIndex(pop[i].Pos.X, pop[i].Pos.Y)
		if idx >= 0 && idx < len(g.cells) {
			g.cells[idx] = append(g.cells[idx], int32(i))
		}
	}
}

// MaxQueryResults caps neighbors returned per query so density spikes cannot
// cause unbounded work.
const MaxQueryResults = 128

// QueryRadiusInto finds entities within radius and appends to dst, up to
// MaxQueryResults. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude int32, pop []creature.Entity) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1

	centerCol := int(x / g.cellSize)
	centerRow := int(y / g.cellSize)

	radiusSq := radius * radius

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			col := (centerCol + dc + g.cols) % g.cols
			row := (centerRow + dr + g.rows) % g.rows
			idx := row*g.cols + col

			for _, e := range g.cells[idx] {
				if e == exclude {
					continue
				}
				p := pop[e].Pos
				dx, dy := creature.ToroidalDelta(x, y, p.X, p.Y, g.width, g.height)
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{Index: e, DX: dx, DY: dy, DistSq: distSq})
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}

// cellIndex maps a world position to a flat cell index.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return -1
	}
	return row*g.cols + col
}
