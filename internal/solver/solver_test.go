package solver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"maze-ca/internal/automaton"
	"maze-ca/internal/core"
	"maze-ca/internal/maze"
	prng "maze-ca/pkg/core"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bfsDistance is an independent shortest-path oracle over open positions.
func bfsDistance(m *maze.Maze, from, to core.Point) int {
	dist := make([]int, len(m.Cells))
	for i := range dist {
		dist[i] = -1
	}
	dist[from.Y*m.W+from.X] = 0
	queue := []core.Point{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == to {
			return dist[p.Y*m.W+p.X]
		}
		for _, d := range [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			n := p.Add(d[0], d[1])
			if m.At(n.X, n.Y) != maze.Open && n != to {
				continue
			}
			if n.X < 0 || n.Y < 0 || n.X >= m.W || n.Y >= m.H || dist[n.Y*m.W+n.X] >= 0 {
				continue
			}
			dist[n.Y*m.W+n.X] = dist[p.Y*m.W+p.X] + 1
			queue = append(queue, n)
		}
	}
	return -1
}

func assertValidPath(t *testing.T, m *maze.Maze, path []core.Point) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, core.Point{}, path[0], "path starts at Begin")
	assert.Equal(t, core.Point{X: m.W - 1, Y: m.H - 1}, path[len(path)-1], "path ends at End")
	for i := 1; i < len(path); i++ {
		dx, dy := path[i].X-path[i-1].X, path[i].Y-path[i-1].Y
		require.Equalf(t, 1, dx*dx+dy*dy, "step %d is not axis-adjacent: %v -> %v", i, path[i-1], path[i])
		if i < len(path)-1 {
			require.Equalf(t, maze.Open, m.At(path[i].X, path[i].Y), "path crosses a wall at %v", path[i])
		}
	}
}

func TestOpenGridShortestPath(t *testing.T) {
	m, err := maze.OpenGrid(5, 5)
	require.NoError(t, err)

	s, err := New(5, 5)
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), m.Cells)
	require.NoError(t, err)

	assert.Equal(t, 8, res.Steps())
	assert.Equal(t, 16, res.Generations)
	assert.Equal(t, EarlyExit, res.Policy)

	want := []core.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 1}, {X: 4, Y: 2}, {X: 4, Y: 3}, {X: 4, Y: 4}}
	assert.Equal(t, want, res.Path)
	for i := 1; i < len(res.Path); i++ {
		dx, dy := res.Path[i].X-res.Path[i-1].X, res.Path[i].Y-res.Path[i-1].Y
		east, south := dx == 1 && dy == 0, dx == 0 && dy == 1
		assert.Truef(t, east || south, "step %d must move east or south", i)
	}

	ex, err := New(5, 5, WithPolicy(Exhaustive))
	require.NoError(t, err)
	full, err := ex.Solve(context.Background(), m.Cells)
	require.NoError(t, err)
	assert.Equal(t, want, full.Path)
	assert.Equal(t, 17, full.Generations)
}

// TestEarlyExitEquivalence checks that both policies trace the same path on
// generated mazes, with early exit never slower.
func TestEarlyExitEquivalence(t *testing.T) {
	backends := []automaton.Backend{automaton.Sequential{}, automaton.Parallel{Workers: 4}}
	for _, strategy := range maze.Strategies() {
		for _, size := range [][2]int{{9, 9}, {21, 13}, {33, 33}} {
			for seed := int64(1); seed <= 4; seed++ {
				for _, backend := range backends {
					name := fmt.Sprintf("%s/%dx%d/%d/%s", strategy, size[0], size[1], seed, backend.Name())
					t.Run(name, func(t *testing.T) {
						w, h := size[0], size[1]
						m, err := maze.Generate(w, h, strategy, prng.NewRNG(seed))
						require.NoError(t, err)

						early, err := New(w, h, WithBackend(backend))
						require.NoError(t, err)
						exhaustive, err := New(w, h, WithBackend(backend), WithPolicy(Exhaustive))
						require.NoError(t, err)

						a, err := early.Solve(context.Background(), m.Cells)
						require.NoError(t, err)
						b, err := exhaustive.Solve(context.Background(), m.Cells)
						require.NoError(t, err)

						assert.Equal(t, b.Path, a.Path)
						assert.LessOrEqual(t, a.Generations, b.Generations)
						assert.Equal(t, 2*a.Steps(), a.Generations, "flow out and route back take one generation per step")
						assertValidPath(t, m, a.Path)
						assert.Equal(t, bfsDistance(m, core.Point{}, core.Point{X: w - 1, Y: h - 1}), a.Steps())
					})
				}
			}
		}
	}
}

func TestNoPath(t *testing.T) {
	m, err := maze.FromRows(
		"  #  ",
		"  #  ",
		"  #  ",
	)
	require.NoError(t, err)

	for _, policy := range []Policy{EarlyExit, Exhaustive} {
		s, err := New(m.W, m.H, WithPolicy(policy))
		require.NoError(t, err)
		_, err = s.Solve(context.Background(), m.Cells)
		assert.ErrorIs(t, err, ErrNoPath, policy.String())
		assert.True(t, s.Done())
	}
}

func TestSolveShapeMismatch(t *testing.T) {
	s, err := New(3, 3)
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), make([]uint8, 4))
	assert.ErrorIs(t, err, automaton.ErrShapeMismatch)
}

func TestNewInvalidDimensions(t *testing.T) {
	_, err := New(0, 4)
	assert.ErrorIs(t, err, automaton.ErrInvalidDimensions)
}

func TestSolveContextCancelled(t *testing.T) {
	m, err := maze.OpenGrid(7, 7)
	require.NoError(t, err)
	s, err := New(7, 7)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Solve(ctx, m.Cells)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, s.Generation())
}

func TestCancelBetweenTicks(t *testing.T) {
	m, err := maze.OpenGrid(7, 7)
	require.NoError(t, err)
	s, err := New(7, 7)
	require.NoError(t, err)
	require.NoError(t, s.Reset(m.Cells))

	assert.Equal(t, 3, s.Step(3))
	snap := s.Snapshot()
	s.Cancel()
	assert.True(t, s.Cancelled())
	assert.Equal(t, 0, s.Step(5))
	assert.Equal(t, snap, s.Snapshot(), "cancel must leave state intact")
	assert.False(t, s.Done())

	require.NoError(t, s.Reset(m.Cells))
	assert.False(t, s.Cancelled())
	assert.Equal(t, 0, s.Generation())
}

func TestGenerationLimit(t *testing.T) {
	m, err := maze.OpenGrid(9, 9)
	require.NoError(t, err)
	s, err := New(9, 9, WithMaxGenerations(5))
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), m.Cells)
	assert.ErrorIs(t, err, ErrGenerationLimit)
	assert.Equal(t, 5, s.Generation())
}

func TestPathBeforeCompletion(t *testing.T) {
	m, err := maze.OpenGrid(5, 5)
	require.NoError(t, err)
	s, err := New(5, 5)
	require.NoError(t, err)
	require.NoError(t, s.Reset(m.Cells))

	_, err = s.Path()
	assert.ErrorIs(t, err, ErrNoPath)

	s.Step(10) // End routed, route still walking back.
	_, err = s.Path()
	assert.ErrorIs(t, err, ErrBrokenRoute)
}

func TestSingleCell(t *testing.T) {
	s, err := New(1, 1)
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), []uint8{maze.Open})
	require.NoError(t, err)
	assert.Equal(t, []core.Point{{}}, res.Path)
	assert.Equal(t, 0, res.Generations)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": EarlyExit, "early-exit": EarlyExit, "Exhaustive": Exhaustive, "fixpoint": Exhaustive} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePolicy("lazy")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
	assert.Equal(t, "Policy(9)", Policy(9).String())
}

func TestSolveLogsSummary(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	m, err := maze.OpenGrid(5, 5)
	require.NoError(t, err)
	s, err := New(5, 5, WithLogger(log), WithBackend(automaton.Parallel{Workers: 2}))
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), m.Cells)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "solve finished", entry.Message)
	assert.Equal(t, 16, entry.Data["generations"])
	assert.Equal(t, 8, entry.Data["path_len"])
	assert.Equal(t, "parallel", entry.Data["backend"])
}
