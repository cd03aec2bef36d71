package maze

import "maze-ca/pkg/core"

// step is a two-position move from one cell to the next; the wall crossed
// lies halfway between them.
type step struct{ dx, dy int }

var steps = [4]step{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

type frame struct {
	x, y  int
	order [4]step
	next  int
}

func shuffledSteps(src Source) [4]step {
	order := steps
	core.Shuffle(src, len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// depthFirst carves a randomized backtracker tree rooted at (0, 0).
func (m *Maze) depthFirst(src Source) {
	visited := make([]bool, len(m.Cells))
	visited[0] = true
	stack := []frame{{order: shuffledSteps(src)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.order) {
			stack = stack[:len(stack)-1]
			continue
		}
		d := top.order[top.next]
		top.next++

		nx, ny := top.x+2*d.dx, top.y+2*d.dy
		if !m.inBounds(nx, ny) || visited[ny*m.W+nx] {
			continue
		}
		visited[ny*m.W+nx] = true
		m.set(top.x+d.dx, top.y+d.dy, Open)
		stack = append(stack, frame{x: nx, y: ny, order: shuffledSteps(src)})
	}
}

// prim grows a tree from (0, 0) by repeatedly opening a uniformly random
// frontier wall whose far cell has not been reached yet.
func (m *Maze) prim(src Source) {
	visited := make([]bool, len(m.Cells))
	var frontier []wallCandidate

	visit := func(x, y int) {
		visited[y*m.W+x] = true
		for _, d := range steps {
			nx, ny := x+2*d.dx, y+2*d.dy
			if m.inBounds(nx, ny) && !visited[ny*m.W+nx] {
				frontier = append(frontier, wallCandidate{x: x + d.dx, y: y + d.dy, dx: d.dx, dy: d.dy})
			}
		}
	}
	visit(0, 0)

	for len(frontier) > 0 {
		i := src.IntN(len(frontier))
		w := frontier[i]
		last := len(frontier) - 1
		frontier[i] = frontier[last]
		frontier = frontier[:last]

		fx, fy := w.x+w.dx, w.y+w.dy
		if visited[fy*m.W+fx] {
			continue
		}
		m.set(w.x, w.y, Open)
		visit(fx, fy)
	}
}
