package maze

import (
	"maze-ca/internal/forest"
	"maze-ca/pkg/core"
)

// wallCandidate is a removable wall at (x, y) separating the cells at
// (x-dx, y-dy) and (x+dx, y+dy).
type wallCandidate struct {
	x, y   int
	dx, dy int
}

// candidates enumerates one wall per pair of axis-adjacent cells that both
// lie inside the grid, in row-major scan order.
func (m *Maze) candidates() []wallCandidate {
	var walls []wallCandidate
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			switch {
			case y%2 == 0 && x%2 == 1 && x+1 < m.W:
				walls = append(walls, wallCandidate{x: x, y: y, dx: 1})
			case y%2 == 1 && x%2 == 0 && y+1 < m.H:
				walls = append(walls, wallCandidate{x: x, y: y, dy: 1})
			}
		}
	}
	return walls
}

// cellHandle maps an even/even position to its forest handle.
func (m *Maze) cellHandle(x, y int) forest.Handle {
	cols := (m.W + 1) / 2
	return forest.Handle((y/2)*cols + x/2)
}

// kruskal opens walls in a uniformly random order whenever they join two
// previously disconnected sets of cells. Rejected walls are never retried.
func (m *Maze) kruskal(src Source) {
	sets := forest.New(m.CellCount())
	walls := m.candidates()
	core.Shuffle(src, len(walls), func(i, j int) { walls[i], walls[j] = walls[j], walls[i] })

	for _, w := range walls {
		a := m.cellHandle(w.x-w.dx, w.y-w.dy)
		b := m.cellHandle(w.x+w.dx, w.y+w.dy)
		if sets.Same(a, b) {
			continue
		}
		sets.Merge(a, b)
		m.set(w.x, w.y, Open)
	}
}
