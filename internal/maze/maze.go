/*
Package maze generates perfect mazes on a rectangular marker grid.

Cells live at positions whose coordinates are both even. Positions with
exactly one odd coordinate are walls between two axis-adjacent cells and may
be opened; positions with two odd coordinates are always walls. Every
strategy opens a spanning tree over the cells, so any two cells are joined by
exactly one path.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"

	"maze-ca/internal/core"
)

// Marker values stored in Maze.Cells.
const (
	Open uint8 = 0
	Wall uint8 = 1
)

var (
	// ErrInvalidDimensions is returned for non-positive widths or heights.
	ErrInvalidDimensions = errors.New("maze: invalid dimensions")
	// ErrUnknownStrategy is returned for unrecognised strategy names.
	ErrUnknownStrategy = errors.New("maze: unknown strategy")
	// ErrNilSource is returned when no random source is supplied.
	ErrNilSource = errors.New("maze: nil random source")
	// ErrShapeMismatch is returned for ragged row input.
	ErrShapeMismatch = errors.New("maze: rows differ in length")
)

// Source supplies uniform random integers in [0, n). *rand.Rand from
// math/rand/v2 and *core.RNG both satisfy it.
type Source interface {
	IntN(n int) int
}

// Strategy names a generation algorithm.
type Strategy string

const (
	// Kruskal merges randomly ordered walls across a disjoint-set forest.
	Kruskal Strategy = "kruskal"
	// DepthFirst is a randomized recursive backtracker with long corridors.
	DepthFirst Strategy = "dfs"
	// Prim grows a tree from a random frontier, giving high branching.
	Prim Strategy = "prim"
)

// Strategies lists every supported strategy, primary first.
func Strategies() []Strategy { return []Strategy{Kruskal, DepthFirst, Prim} }

// ParseStrategy maps a name to a Strategy. The empty string selects Kruskal.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case "":
		return Kruskal, nil
	case Kruskal, DepthFirst, Prim:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Maze is a flat row-major array of Open/Wall markers.
type Maze struct {
	W, H  int
	Cells []uint8
}

// Generate builds a w x h maze with the given strategy, drawing all
// randomness from src.
func Generate(w, h int, strategy Strategy, src Source) (*Maze, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	if src == nil {
		return nil, ErrNilSource
	}
	m := newCellGrid(w, h)
	switch strategy {
	case Kruskal, "":
		m.kruskal(src)
	case DepthFirst:
		m.depthFirst(src)
	case Prim:
		m.prim(src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	return m, nil
}

// newCellGrid returns a grid with every cell open and every other position walled.
func newCellGrid(w, h int) *Maze {
	m := &Maze{W: w, H: h, Cells: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isCell(x, y) {
				m.Cells[y*w+x] = Open
			} else {
				m.Cells[y*w+x] = Wall
			}
		}
	}
	return m
}

// OpenGrid returns a w x h grid with every position open.
func OpenGrid(w, h int) (*Maze, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	return &Maze{W: w, H: h, Cells: make([]uint8, w*h)}, nil
}

// FromRows parses a maze drawn as text: '#' is a wall, any other byte is open.
func FromRows(rows ...string) (*Maze, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDimensions)
	}
	w, h := len(rows[0]), len(rows)
	m := &Maze{W: w, H: h, Cells: make([]uint8, w*h)}
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, y, len(row), w)
		}
		for x := 0; x < w; x++ {
			if row[x] == '#' {
				m.Cells[y*w+x] = Wall
			}
		}
	}
	return m, nil
}

func isCell(x, y int) bool { return x%2 == 0 && y%2 == 0 }

// IsCell reports whether (x, y) is a cell position inside the grid.
func (m *Maze) IsCell(x, y int) bool { return m.inBounds(x, y) && isCell(x, y) }

func (m *Maze) inBounds(x, y int) bool { return x >= 0 && x < m.W && y >= 0 && y < m.H }

// At returns the marker at (x, y); positions outside the grid are walls.
func (m *Maze) At(x, y int) uint8 {
	if !m.inBounds(x, y) {
		return Wall
	}
	return m.Cells[y*m.W+x]
}

func (m *Maze) set(x, y int, v uint8) { m.Cells[y*m.W+x] = v }

// CellCount returns the number of cell positions in the grid.
func (m *Maze) CellCount() int { return ((m.W + 1) / 2) * ((m.H + 1) / 2) }

// OpenedWalls counts wall positions (exactly one odd coordinate) that are open.
func (m *Maze) OpenedWalls() int {
	n := 0
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if (x%2)+(y%2) == 1 && m.At(x, y) == Open {
				n++
			}
		}
	}
	return n
}

// Size returns the maze dimensions.
func (m *Maze) Size() core.Size { return core.Size{W: m.W, H: m.H} }

// Clone returns a deep copy of the maze.
func (m *Maze) Clone() *Maze {
	c := &Maze{W: m.W, H: m.H, Cells: make([]uint8, len(m.Cells))}
	copy(c.Cells, m.Cells)
	return c
}

// String renders walls as '#' and open positions as spaces, one row per line.
func (m *Maze) String() string {
	var b strings.Builder
	b.Grow((m.W + 1) * m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.At(x, y) == Wall {
				b.WriteByte('#')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
