package automaton

import (
	"fmt"
	"slices"
	"testing"

	"maze-ca/internal/core"
	"maze-ca/internal/maze"
	prng "maze-ca/pkg/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openEngine(t *testing.T, w, h int, opts ...Option) *Automaton {
	t.Helper()
	m, err := maze.OpenGrid(w, h)
	require.NoError(t, err)
	a, err := New(w, h, opts...)
	require.NoError(t, err)
	require.NoError(t, a.Reset(m.Cells))
	return a
}

func kruskalEngine(t *testing.T, w, h int, seed int64, opts ...Option) (*Automaton, *maze.Maze) {
	t.Helper()
	m, err := maze.Generate(w, h, maze.Kruskal, prng.NewRNG(seed))
	require.NoError(t, err)
	a, err := New(w, h, opts...)
	require.NoError(t, err)
	require.NoError(t, a.Reset(m.Cells))
	return a, m
}

func TestNewRejectsInvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 3}, {3, 0}, {-1, -1}} {
		_, err := New(dims[0], dims[1])
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	}
}

func TestResetValidatesMaze(t *testing.T) {
	a, err := New(3, 3)
	require.NoError(t, err)

	err = a.Reset(make([]uint8, 8))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	bad := make([]uint8, 9)
	bad[4] = uint8(FlowN)
	assert.ErrorIs(t, a.Reset(bad), ErrInvalidMarker)

	require.NoError(t, a.Reset(make([]uint8, 9)))
	assert.Equal(t, Begin, a.At(0, 0))
	assert.Equal(t, End, a.At(2, 2))
	assert.Equal(t, 0, a.Generation())
	assert.False(t, a.Done())
}

func TestMarkersMatchMaze(t *testing.T) {
	assert.Equal(t, maze.Open, uint8(Open))
	assert.Equal(t, maze.Wall, uint8(Wall))
}

func TestBoundarySentinel(t *testing.T) {
	a := openEngine(t, 4, 3)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {4, 3}, {-7, 20}} {
		assert.Equalf(t, Wall, a.At(p[0], p[1]), "At(%d,%d)", p[0], p[1])
	}
}

// TestOpenGridScenario traces a 5x5 open grid: flow needs 8 generations to
// reach End and the route needs 8 more to reach Begin.
func TestOpenGridScenario(t *testing.T) {
	a := openEngine(t, 5, 5)

	a.Step(7)
	require.Equal(t, End, a.At(4, 4), "flow has not reached the corner yet")
	a.Step(1)
	require.Equal(t, RouteN, a.At(4, 4), "End routes north by tie-break")

	a.Step(7)
	require.Equal(t, Begin, a.At(0, 0))
	a.Step(1)
	require.Equal(t, RouteW, a.At(0, 0), "Begin adopts the route arriving from the east")
	assert.Equal(t, 16, a.Generation())

	// Top row then east column.
	for x := 1; x <= 4; x++ {
		assert.Equalf(t, RouteW, a.At(x, 0), "(%d,0)", x)
	}
	for y := 1; y <= 4; y++ {
		assert.Equalf(t, RouteN, a.At(4, y), "(4,%d)", y)
	}
	assert.True(t, a.At(0, 1).IsFlow(), "off-route cells keep flowing")

	a.Step(100)
	assert.True(t, a.Done())
	assert.Equal(t, 17, a.Generation(), "one extra generation confirms the fixpoint")
}

func TestHaltStopsEarly(t *testing.T) {
	a := openEngine(t, 5, 5, WithHalt(func(s Status) bool { return s.Origin != Begin }))
	ran := a.Step(1000)
	assert.Equal(t, 16, ran)
	assert.True(t, a.Done())
	assert.Equal(t, RouteW, a.At(0, 0))
}

func TestIdempotentPastFixpoint(t *testing.T) {
	a, _ := kruskalEngine(t, 21, 21, 5)
	for !a.Done() {
		a.Step(10)
	}
	require.Equal(t, 0, a.Changes())
	final := a.Snapshot()
	gen := a.Generation()

	assert.Equal(t, 0, a.Step(25))
	assert.Equal(t, gen, a.Generation())
	assert.Equal(t, final, a.Snapshot())

	// Sweeping the fixpoint directly also changes nothing.
	src := core.NewGrid(21, 21, Wall)
	dst := core.NewGrid(21, 21, Wall)
	copy(src.Cells(), final)
	assert.Equal(t, 0, Sequential{}.Sweep(src, dst))
	assert.Equal(t, final, dst.Cells())
}

func TestDeterministicRepeatedSolves(t *testing.T) {
	run := func() [][]State {
		a, _ := kruskalEngine(t, 25, 15, 77)
		var frames [][]State
		for !a.Done() {
			a.Step(1)
			frames = append(frames, a.Snapshot())
		}
		return frames
	}
	first, second := run(), run()
	require.Equal(t, len(first), len(second))
	for i := range first {
		if !slices.Equal(first[i], second[i]) {
			t.Fatalf("generation %d differs between identical runs", i+1)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 8, 64} {
		for _, strategy := range maze.Strategies() {
			t.Run(fmt.Sprintf("%s/workers=%d", strategy, workers), func(t *testing.T) {
				m, err := maze.Generate(31, 17, strategy, prng.NewRNG(int64(workers)))
				require.NoError(t, err)

				seq, err := New(31, 17)
				require.NoError(t, err)
				par, err := New(31, 17, WithBackend(Parallel{Workers: workers}))
				require.NoError(t, err)
				require.NoError(t, seq.Reset(m.Cells))
				require.NoError(t, par.Reset(m.Cells))

				for !seq.Done() {
					seq.Step(1)
					par.Step(1)
					require.Equal(t, seq.Changes(), par.Changes(), "generation %d", seq.Generation())
					require.True(t, slices.Equal(seq.Cells(), par.Cells()), "generation %d", seq.Generation())
				}
				assert.True(t, par.Done())
				assert.Equal(t, seq.Generation(), par.Generation())
			})
		}
	}
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend("", 0)
	require.NoError(t, err)
	assert.Equal(t, SequentialName, b.Name())

	b, err = NewBackend(ParallelName, 0)
	require.NoError(t, err)
	p, ok := b.(Parallel)
	require.True(t, ok)
	assert.Positive(t, p.Workers)

	_, err = NewBackend("webgl", 4)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestSingleCellGrid(t *testing.T) {
	a := openEngine(t, 1, 1)
	assert.Equal(t, Begin, a.At(0, 0))
	assert.Equal(t, 1, a.Step(5))
	assert.True(t, a.Done())
}

func TestString(t *testing.T) {
	a := openEngine(t, 3, 1)
	assert.Equal(t, "B E\n", a.String())
	a.Step(1)
	assert.Equal(t, "B.E\n", a.String())
}
