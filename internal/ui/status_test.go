package ui

import (
	"fmt"
	"image/color"
	"testing"

	"maze-ca/internal/core"
	"maze-ca/internal/sims/mazesolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainSim struct{}

func (plainSim) Name() string    { return "" }
func (plainSim) Size() core.Size { return core.Size{W: 2, H: 2} }
func (plainSim) Reset(int64)     {}
func (plainSim) Step()           {}
func (plainSim) Cells() []uint8  { return make([]uint8, 4) }

func openWorld(t *testing.T) *mazesolve.World {
	t.Helper()
	cfg := mazesolve.DefaultConfig()
	cfg.Width, cfg.Height, cfg.StepsPerTick = 5, 5, 100
	return mazesolve.NewWithConfig(cfg)
}

func TestStatusLines(t *testing.T) {
	assert.Nil(t, statusLines(plainSim{}))

	world := openWorld(t)
	assert.Equal(t, []string{"Generation 0", "State: running"}, statusLines(world))

	world.Step()
	require.True(t, world.Done())
	path, err := world.Path()
	require.NoError(t, err)
	lines := statusLines(world)
	require.Len(t, lines, 3)
	assert.Equal(t, "State: done", lines[1])
	assert.Equal(t, fmt.Sprintf("Path: %d steps", len(path)-1), lines[2])

	world.Reset(0)
	world.Cancel()
	assert.Equal(t, "State: cancelled", statusLines(world)[1])
}

func TestBuildTitle(t *testing.T) {
	assert.Equal(t, "Controls", buildTitle(nil))
	assert.Equal(t, "Controls", buildTitle(plainSim{}))
	assert.Equal(t, "Maze Controls", buildTitle(openWorld(t)))
}

func TestPathMask(t *testing.T) {
	world := openWorld(t)
	assert.Nil(t, pathMask(world), "no mask before the solve finishes")
	assert.Nil(t, pathMask(plainSim{}))

	world.Step()
	mask := pathMask(world)
	require.Len(t, mask, 25)
	path, err := world.Path()
	require.NoError(t, err)

	count := 0
	for _, on := range mask {
		if on {
			count++
		}
	}
	assert.Equal(t, len(path), count)
	assert.True(t, mask[0])
	assert.True(t, mask[24])
}

func TestFillMask(t *testing.T) {
	buf := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	tint := color.RGBA{R: 1, G: 2, B: 3, A: 4}
	fillMask(buf, []bool{true, false}, tint)
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, buf)
}
