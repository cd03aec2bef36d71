package mazesolve

import (
	"context"
	"image/color"
	"slices"
	"testing"

	"maze-ca/internal/automaton"
	"maze-ca/internal/core"
	"maze-ca/internal/maze"
	"maze-ca/internal/solver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallWorld(t *testing.T, mutate func(*Config)) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = 21
	cfg.Height = 15
	cfg.Seed = 7
	if mutate != nil {
		mutate(&cfg)
	}
	return NewWithConfig(cfg)
}

func TestRegistered(t *testing.T) {
	factory, err := core.Lookup("maze")
	require.NoError(t, err)

	sim := factory(map[string]string{"w": "11", "h": "9", "strategy": "prim"})
	assert.Equal(t, "maze", sim.Name())
	assert.Equal(t, core.Size{W: 11, H: 9}, sim.Size())
	assert.Len(t, sim.Cells(), 99)
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"w":        "31",
		"h":        "17",
		"seed":     "-4",
		"strategy": "dfs",
		"policy":   "exhaustive",
		"backend":  "parallel",
		"workers":  "3",
		"steps":    "5",
	})
	assert.Equal(t, 31, c.Width)
	assert.Equal(t, 17, c.Height)
	assert.Equal(t, int64(-4), c.Seed)
	assert.Equal(t, maze.DepthFirst, c.Strategy)
	assert.Equal(t, solver.Exhaustive, c.Policy)
	assert.Equal(t, automaton.ParallelName, c.Backend)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, 5, c.StepsPerTick)

	bad := FromMap(map[string]string{"w": "0", "strategy": "wilson", "policy": "lazy", "backend": "gpu", "steps": "-1"})
	def := DefaultConfig()
	assert.Equal(t, def, bad)
	assert.Equal(t, def, FromMap(nil))
}

func TestResetDeterministic(t *testing.T) {
	world := smallWorld(t, nil)
	initial := slices.Clone(world.Cells())
	require.Equal(t, uint8(automaton.Begin), initial[0])
	require.Equal(t, uint8(automaton.End), initial[len(initial)-1])

	world.Step()
	world.Reset(0)
	assert.Equal(t, initial, world.Cells(), "Reset(0) reuses the configured seed")
	assert.Equal(t, int64(7), world.Seed())
	assert.Equal(t, 0, world.Generation())

	world.Reset(8)
	other := slices.Clone(world.Cells())
	world.Reset(8)
	assert.Equal(t, other, world.Cells())
	assert.NotEqual(t, initial, other)
}

func TestStepMatchesSolve(t *testing.T) {
	for _, policy := range []solver.Policy{solver.EarlyExit, solver.Exhaustive} {
		world := smallWorld(t, func(c *Config) {
			c.Policy = policy
			c.StepsPerTick = 3
		})
		_, err := world.Path()
		assert.ErrorIs(t, err, solver.ErrNoPath)

		for i := 0; i < 1000 && !world.Done(); i++ {
			world.Step()
		}
		require.True(t, world.Done())
		got, err := world.Path()
		require.NoError(t, err)

		s, err := solver.New(21, 15, solver.WithPolicy(policy))
		require.NoError(t, err)
		want, err := s.Solve(context.Background(), world.Maze().Cells)
		require.NoError(t, err)
		assert.Equal(t, want.Path, got)
		assert.Equal(t, want.Generations, world.Generation())

		for _, p := range got {
			assert.True(t, automaton.State(world.Cells()[p.Y*21+p.X]).IsRoute(), "route cell at %v", p)
		}

		gen := world.Generation()
		world.Step()
		assert.Equal(t, gen, world.Generation(), "stepping a finished world is a no-op")
	}
}

func TestCancelStopsStepping(t *testing.T) {
	world := smallWorld(t, nil)
	world.Step()
	world.Cancel()
	snapshot := slices.Clone(world.Cells())
	world.Step()
	assert.True(t, world.Cancelled())
	assert.Equal(t, 1, world.Generation())
	assert.Equal(t, snapshot, world.Cells())

	world.Reset(0)
	assert.False(t, world.Cancelled())
}

func TestPalette(t *testing.T) {
	world := smallWorld(t, nil)
	palette := world.Palette()
	require.Len(t, palette, automaton.NumStates)

	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red := color.RGBA{R: 0xff, A: 0xff}
	assert.Equal(t, white, palette[automaton.Open])
	assert.Equal(t, color.RGBA{A: 0xff}, palette[automaton.Wall])
	assert.Equal(t, red, palette[automaton.Begin])
	assert.Equal(t, red, palette[automaton.End])
	for d := automaton.North; d <= automaton.West; d++ {
		assert.Equal(t, palette[automaton.FlowN], palette[automaton.Flow(d)])
		assert.Equal(t, palette[automaton.RouteN], palette[automaton.Route(d)])
	}
	assert.NotEqual(t, palette[automaton.FlowN], palette[automaton.RouteN])
}

func TestParameters(t *testing.T) {
	world := smallWorld(t, func(c *Config) { c.Backend = automaton.ParallelName; c.Workers = 2 })
	snap := world.Parameters()

	p, ok := snap.Lookup("strategy")
	require.True(t, ok)
	assert.Equal(t, "kruskal", p.Value)
	p, ok = snap.Lookup("backend")
	require.True(t, ok)
	assert.Equal(t, "parallel", p.Value)

	assert.False(t, world.SetIntParameter("steps", 0))
	assert.False(t, world.SetIntParameter("w", 50))
	require.True(t, world.SetIntParameter("steps", 4))
	world.Step()
	assert.Equal(t, 4, world.Generation())

	p, ok = world.Parameters().Lookup("generation")
	require.True(t, ok)
	assert.Equal(t, "4", p.Value)
}

func TestNormalizesConfig(t *testing.T) {
	world := NewWithConfig(Config{Width: -3, Strategy: "", Backend: "bogus"})
	assert.Equal(t, core.Size{W: 1, H: 1}, world.Size())
	assert.Equal(t, automaton.SequentialName, world.Solver().Backend().Name())
	world.Step()
	assert.True(t, world.Done())
}
