// Package solver drives the path-finding automaton to termination and
// extracts the traced route.
package solver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"maze-ca/internal/automaton"
	"maze-ca/internal/core"
	"maze-ca/internal/logging"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoPath is returned when stepping ended without End being routed.
	ErrNoPath = errors.New("solver: no path")
	// ErrBrokenRoute is returned when the route chain does not lead to Begin.
	ErrBrokenRoute = errors.New("solver: broken route")
	// ErrCancelled is returned when a solve stops on request.
	ErrCancelled = errors.New("solver: cancelled")
	// ErrGenerationLimit is returned when the generation guard is exceeded.
	ErrGenerationLimit = errors.New("solver: generation limit exceeded")
	// ErrUnknownPolicy is returned by ParsePolicy.
	ErrUnknownPolicy = errors.New("solver: unknown policy")
)

// Policy selects the termination condition.
type Policy int

const (
	// EarlyExit stops as soon as the Begin cell adopts a route value.
	EarlyExit Policy = iota
	// Exhaustive stops only when a generation changes no cell at all.
	Exhaustive
)

func (p Policy) String() string {
	switch p {
	case EarlyExit:
		return "early-exit"
	case Exhaustive:
		return "exhaustive"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a policy name to a Policy. The empty string selects EarlyExit.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "early-exit", "early":
		return EarlyExit, nil
	case "exhaustive", "fixpoint":
		return Exhaustive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Result is the outcome of a completed solve.
type Result struct {
	// Path lists positions from Begin to End inclusive.
	Path        []core.Point
	Generations int
	Policy      Policy
}

// Steps returns the number of moves along the path.
func (r Result) Steps() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

// Option configures a Solver.
type Option func(*Solver)

// WithPolicy selects the termination policy.
func WithPolicy(p Policy) Option { return func(s *Solver) { s.policy = p } }

// WithBackend selects the automaton sweep backend.
func WithBackend(b automaton.Backend) Option { return func(s *Solver) { s.backend = b } }

// WithLogger sets the logger used for solve summaries.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Solver) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxGenerations bounds Solve. Zero picks 2*w*h+2, enough for any
// route on the grid to be traced out and back.
func WithMaxGenerations(n int) Option { return func(s *Solver) { s.maxGenerations = n } }

// Solver owns an automaton and exposes it through read-only accessors.
type Solver struct {
	engine         *automaton.Automaton
	policy         Policy
	backend        automaton.Backend
	maxGenerations int
	log            logrus.FieldLogger

	cancelled atomic.Bool
}

// New returns a solver for w x h grids.
func New(w, h int, opts ...Option) (*Solver, error) {
	s := &Solver{policy: EarlyExit, backend: automaton.Sequential{}, log: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxGenerations <= 0 {
		s.maxGenerations = 2*w*h + 2
	}

	engineOpts := []automaton.Option{automaton.WithBackend(s.backend)}
	if s.policy == EarlyExit {
		engineOpts = append(engineOpts, automaton.WithHalt(func(st automaton.Status) bool {
			return st.Origin != automaton.Begin
		}))
	}
	engine, err := automaton.New(w, h, engineOpts...)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// Reset loads a new wall/open maze and clears any cancel request.
func (s *Solver) Reset(cells []uint8) error {
	if err := s.engine.Reset(cells); err != nil {
		return err
	}
	s.cancelled.Store(false)
	return nil
}

// Step advances up to n generations unless cancelled, returning how many ran.
func (s *Solver) Step(n int) int {
	if s.cancelled.Load() {
		return 0
	}
	return s.engine.Step(n)
}

// Cancel asks the solver to stop between generations. It is safe to call
// from another goroutine. State stays valid for inspection or Reset.
func (s *Solver) Cancel() { s.cancelled.Store(true) }

// Cancelled reports whether Cancel was called since the last Reset.
func (s *Solver) Cancelled() bool { return s.cancelled.Load() }

// Done reports whether the automaton has terminated under the policy.
func (s *Solver) Done() bool { return s.engine.Done() }

// Generation reports the generation counter.
func (s *Solver) Generation() int { return s.engine.Generation() }

// At returns the current cell state at (x, y); out of range is Wall.
func (s *Solver) At(x, y int) automaton.State { return s.engine.At(x, y) }

// Size returns the grid dimensions.
func (s *Solver) Size() core.Size { return s.engine.Size() }

// Backend returns the sweep backend in use.
func (s *Solver) Backend() automaton.Backend { return s.engine.Backend() }

// Policy returns the termination policy.
func (s *Solver) Policy() Policy { return s.policy }

// Snapshot copies the current generation.
func (s *Solver) Snapshot() []automaton.State { return s.engine.Snapshot() }

// String renders the current generation as text.
func (s *Solver) String() string { return s.engine.String() }

// Solve resets to cells and steps one generation at a time until the policy
// terminates, ctx is done, Cancel is called or the generation guard trips.
func (s *Solver) Solve(ctx context.Context, cells []uint8) (Result, error) {
	if err := s.Reset(cells); err != nil {
		return Result{}, err
	}
	res := Result{Policy: s.policy}

	if s.engine.Begin() == s.engine.End() {
		res.Path = []core.Point{s.engine.Begin()}
		return res, nil
	}

	for !s.engine.Done() {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		if s.cancelled.Load() {
			return res, ErrCancelled
		}
		if s.engine.Generation() >= s.maxGenerations {
			return res, fmt.Errorf("%w: %d", ErrGenerationLimit, s.maxGenerations)
		}
		s.engine.Step(1)
	}
	res.Generations = s.engine.Generation()

	path, err := s.Path()
	if err != nil {
		return res, err
	}
	res.Path = path

	s.log.WithFields(logrus.Fields{
		"policy":      s.policy.String(),
		"backend":     s.engine.Backend().Name(),
		"generations": res.Generations,
		"path_len":    res.Steps(),
	}).Debug("solve finished")
	return res, nil
}

// Path follows route directions from End back to Begin and returns the
// positions ordered Begin to End.
func (s *Solver) Path() ([]core.Point, error) {
	begin, end := s.engine.Begin(), s.engine.End()
	if begin == end {
		return []core.Point{begin}, nil
	}
	if !s.engine.At(end.X, end.Y).IsRoute() {
		return nil, ErrNoPath
	}

	size := s.engine.Size()
	limit := size.W * size.H
	path := []core.Point{end}
	p := end
	for p != begin {
		st := s.engine.At(p.X, p.Y)
		if !st.IsRoute() {
			return nil, fmt.Errorf("%w: %s at (%d,%d)", ErrBrokenRoute, st, p.X, p.Y)
		}
		if len(path) > limit {
			return nil, fmt.Errorf("%w: route longer than %d cells", ErrBrokenRoute, limit)
		}
		p = p.Add(st.Dir().Delta())
		if p.X < 0 || p.Y < 0 || p.X >= size.W || p.Y >= size.H {
			return nil, fmt.Errorf("%w: route leaves the grid at (%d,%d)", ErrBrokenRoute, p.X, p.Y)
		}
		path = append(path, p)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
