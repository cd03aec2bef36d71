package automaton

import (
	"maze-ca/internal/core"

	"golang.org/x/sync/errgroup"
)

// Parallel splits the grid into horizontal bands and sweeps them on
// separate goroutines. Each worker writes only its own rows of dst and reads
// the frozen src, so the result is identical to Sequential.
type Parallel struct {
	Workers int
}

// Name identifies the backend.
func (Parallel) Name() string { return ParallelName }

// Sweep evaluates one generation.
func (p Parallel) Sweep(src, dst *core.Grid[State]) int {
	workers := p.Workers
	if workers > src.H {
		workers = src.H
	}
	if workers <= 1 {
		return sweepRows(src, dst, 0, src.H)
	}

	counts := make([]int, workers)
	band := (src.H + workers - 1) / workers

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		y0 := i * band
		y1 := min(y0+band, src.H)
		if y0 >= y1 {
			continue
		}
		g.Go(func() error {
			counts[i] = sweepRows(src, dst, y0, y1)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
