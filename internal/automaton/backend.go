package automaton

import (
	"errors"
	"fmt"
	"runtime"

	"maze-ca/internal/core"
)

// ErrUnknownBackend is returned by NewBackend for unrecognised names.
var ErrUnknownBackend = errors.New("automaton: unknown backend")

// Backend evaluates one generation: it reads every cell of src, writes every
// cell of dst and returns how many cells changed. src and dst share a shape
// and are never the same buffer.
type Backend interface {
	Name() string
	Sweep(src, dst *core.Grid[State]) int
}

// Backend names accepted by NewBackend.
const (
	SequentialName = "sequential"
	ParallelName   = "parallel"
)

// NewBackend returns the backend registered under name. workers only
// applies to the parallel backend; non-positive values use GOMAXPROCS.
func NewBackend(name string, workers int) (Backend, error) {
	switch name {
	case "", SequentialName:
		return Sequential{}, nil
	case ParallelName:
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		return Parallel{Workers: workers}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// neighborhood gathers the N, E, S, W neighbors of (x, y). Out-of-range
// neighbors read as the grid sentinel (Wall).
func neighborhood(g *core.Grid[State], x, y int) Neighborhood {
	return Neighborhood{
		g.At(x, y-1),
		g.At(x+1, y),
		g.At(x, y+1),
		g.At(x-1, y),
	}
}

// sweepRows applies Next to rows [y0, y1) of src, writing dst.
func sweepRows(src, dst *core.Grid[State], y0, y1 int) int {
	changes := 0
	in, out := src.Cells(), dst.Cells()
	for y := y0; y < y1; y++ {
		for x := 0; x < src.W; x++ {
			idx := y*src.W + x
			cur := in[idx]
			next := Next(cur, neighborhood(src, x, y))
			if next != cur {
				changes++
			}
			out[idx] = next
		}
	}
	return changes
}

// Sequential sweeps the grid row by row on the calling goroutine.
type Sequential struct{}

// Name identifies the backend.
func (Sequential) Name() string { return SequentialName }

// Sweep evaluates one generation.
func (Sequential) Sweep(src, dst *core.Grid[State]) int {
	return sweepRows(src, dst, 0, src.H)
}
