// Package automaton implements the twelve-state path-finding cellular
// automaton. Flow spreads breadth-first from Begin one cell per generation;
// once it reaches End a Route walks back along the flow trail, and Begin
// adopting a Route value marks the path complete.
package automaton

import (
	"errors"
	"fmt"
	"strings"

	"maze-ca/internal/core"
)

var (
	// ErrInvalidDimensions is returned for non-positive widths or heights.
	ErrInvalidDimensions = errors.New("automaton: invalid dimensions")
	// ErrShapeMismatch is returned when a maze does not have w*h markers.
	ErrShapeMismatch = errors.New("automaton: maze shape mismatch")
	// ErrInvalidMarker is returned when a maze holds anything but Wall/Open.
	ErrInvalidMarker = errors.New("automaton: maze marker must be wall or open")
)

// Engine is a double-buffered automaton advanced by whole generations.
type Engine interface {
	Reset(cells []uint8) error
	Step(n int) int
	At(x, y int) State
	Generation() int
	Changes() int
	Done() bool
	Size() core.Size
	Begin() core.Point
	End() core.Point
}

// Status is the view of the engine handed to halt tests after a generation.
type Status struct {
	Generation int
	Changes    int
	// Origin is the current state of the Begin position.
	Origin State
}

// Option configures an Automaton.
type Option func(*Automaton)

// WithBackend selects the sweep backend. The default is Sequential.
func WithBackend(b Backend) Option {
	return func(a *Automaton) {
		if b != nil {
			a.backend = b
		}
	}
}

// WithHalt installs an extra stop test evaluated after each generation, in
// addition to the engine's own fixpoint test.
func WithHalt(halt func(Status) bool) Option {
	return func(a *Automaton) { a.halt = halt }
}

// Automaton is the Engine implementation. Both buffers are allocated once
// and only swapped while stepping.
type Automaton struct {
	cur, nxt *core.Grid[State]
	backend  Backend
	halt     func(Status) bool

	generation int
	changes    int
	done       bool
}

var _ Engine = (*Automaton)(nil)

// New allocates a w x h automaton. Every cell starts Open until Reset.
func New(w, h int, opts ...Option) (*Automaton, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	a := &Automaton{
		cur:     core.NewGrid(w, h, Wall),
		nxt:     core.NewGrid(w, h, Wall),
		backend: Sequential{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Reset loads a wall/open maze, places Begin at the origin and End at the
// opposite corner, and clears the generation counter and done flag. On a
// 1x1 grid the single cell holds Begin.
func (a *Automaton) Reset(cells []uint8) error {
	w, h := a.cur.W, a.cur.H
	if len(cells) != w*h {
		return fmt.Errorf("%w: got %d cells, want %dx%d=%d", ErrShapeMismatch, len(cells), w, h, w*h)
	}
	dst := a.cur.Cells()
	for i, c := range cells {
		s := State(c)
		if s != Wall && s != Open {
			return fmt.Errorf("%w: value %d at index %d", ErrInvalidMarker, c, i)
		}
		dst[i] = s
	}
	end := a.End()
	a.cur.Set(end.X, end.Y, End)
	a.cur.Set(0, 0, Begin)
	copy(a.nxt.Cells(), dst)

	a.generation = 0
	a.changes = 0
	a.done = false
	return nil
}

// Step advances up to n generations and returns how many ran. It stops
// early once a generation changes nothing or the halt test fires; after
// that it is a no-op until Reset.
func (a *Automaton) Step(n int) int {
	ran := 0
	for ; ran < n && !a.done; ran++ {
		a.changes = a.backend.Sweep(a.cur, a.nxt)
		a.cur, a.nxt = a.nxt, a.cur
		a.generation++
		if a.changes == 0 {
			a.done = true
			continue
		}
		if a.halt != nil && a.halt(a.status()) {
			a.done = true
		}
	}
	return ran
}

func (a *Automaton) status() Status {
	return Status{Generation: a.generation, Changes: a.changes, Origin: a.cur.At(0, 0)}
}

// At returns the current state at (x, y); out-of-range reads return Wall.
func (a *Automaton) At(x, y int) State { return a.cur.At(x, y) }

// Generation reports how many generations ran since the last Reset.
func (a *Automaton) Generation() int { return a.generation }

// Changes reports how many cells changed in the latest generation.
func (a *Automaton) Changes() int { return a.changes }

// Done reports whether stepping has stopped.
func (a *Automaton) Done() bool { return a.done }

// Size returns the grid dimensions.
func (a *Automaton) Size() core.Size { return core.Size{W: a.cur.W, H: a.cur.H} }

// Begin returns the Begin position.
func (a *Automaton) Begin() core.Point { return core.Point{} }

// End returns the End position.
func (a *Automaton) End() core.Point { return core.Point{X: a.cur.W - 1, Y: a.cur.H - 1} }

// Backend returns the active sweep backend.
func (a *Automaton) Backend() Backend { return a.backend }

// Cells exposes the current buffer. Callers must not modify it.
func (a *Automaton) Cells() []State { return a.cur.Cells() }

// Snapshot returns a copy of the current buffer.
func (a *Automaton) Snapshot() []State {
	out := make([]State, len(a.cur.Cells()))
	copy(out, a.cur.Cells())
	return out
}

// String renders the current generation with one glyph per cell.
func (a *Automaton) String() string {
	var b strings.Builder
	w, h := a.cur.W, a.cur.H
	b.Grow((w + 1) * h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.WriteByte(a.cur.At(x, y).Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
