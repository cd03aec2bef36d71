// Package mazesolve exposes maze generation and the path-finding automaton
// as a core.Sim for the viewer.
package mazesolve

import (
	"maze-ca/internal/automaton"
	"maze-ca/internal/core"
	"maze-ca/internal/maze"
	"maze-ca/internal/solver"
	prng "maze-ca/pkg/core"
)

// World generates a maze on Reset and advances the solver on Step.
type World struct {
	cfg    Config
	w, h   int
	seed   int64
	maze   *maze.Maze
	solver *solver.Solver

	display []uint8
	path    []core.Point
	pathErr error
}

// New creates a world using the default configuration.
func New() *World {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a world with the provided configuration. Out of
// range values fall back to usable defaults.
func NewWithConfig(cfg Config) *World {
	cfg = cfg.normalized()
	backend, err := automaton.NewBackend(cfg.Backend, cfg.Workers)
	if err != nil {
		backend = automaton.Sequential{}
	}
	s, err := solver.New(cfg.Width, cfg.Height, solver.WithPolicy(cfg.Policy), solver.WithBackend(backend))
	if err != nil {
		// Dimensions are positive after normalization.
		panic(err)
	}
	w := &World{
		cfg:     cfg,
		w:       cfg.Width,
		h:       cfg.Height,
		solver:  s,
		display: make([]uint8, cfg.Width*cfg.Height),
	}
	w.Reset(0)
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "maze" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells exposes the display buffer, one automaton state per cell.
func (w *World) Cells() []uint8 { return w.display }

// Maze returns the wall/open grid currently being solved.
func (w *World) Maze() *maze.Maze { return w.maze }

// Seed reports the seed used by the last Reset.
func (w *World) Seed() int64 { return w.seed }

// Reset generates a fresh maze. A zero seed uses the configured seed.
func (w *World) Reset(seed int64) {
	if seed == 0 {
		seed = w.cfg.Seed
	}
	w.seed = seed

	m, err := maze.Generate(w.w, w.h, w.cfg.Strategy, prng.NewRNG(seed))
	if err != nil {
		panic(err)
	}
	w.maze = m
	if err := w.solver.Reset(m.Cells); err != nil {
		panic(err)
	}
	w.path, w.pathErr = nil, nil
	w.rebuildDisplay()
}

// Step advances the solver by the configured number of generations.
func (w *World) Step() {
	if w.solver.Done() || w.solver.Cancelled() {
		return
	}
	w.solver.Step(w.cfg.StepsPerTick)
	if w.solver.Done() {
		w.path, w.pathErr = w.solver.Path()
	}
	w.rebuildDisplay()
}

// Done reports whether the solver terminated.
func (w *World) Done() bool { return w.solver.Done() }

// Generation reports the number of generations performed since Reset.
func (w *World) Generation() int { return w.solver.Generation() }

// Cancel stops stepping until the next Reset.
func (w *World) Cancel() { w.solver.Cancel() }

// Cancelled reports whether Cancel was called since the last Reset.
func (w *World) Cancelled() bool { return w.solver.Cancelled() }

// Path returns the traced route once solving is done. Before that it
// returns solver.ErrNoPath.
func (w *World) Path() ([]core.Point, error) {
	if !w.solver.Done() {
		return nil, solver.ErrNoPath
	}
	if w.path == nil && w.pathErr == nil {
		w.path, w.pathErr = w.solver.Path()
	}
	return w.path, w.pathErr
}

// At returns the automaton state at (x, y).
func (w *World) At(x, y int) automaton.State { return w.solver.At(x, y) }

// Solver exposes the underlying solver for inspection.
func (w *World) Solver() *solver.Solver { return w.solver }

func init() {
	core.Register("maze", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg))
	})
}
