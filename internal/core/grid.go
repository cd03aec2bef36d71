package core

// Point is an (x, y) grid coordinate.
type Point struct {
	X, Y int
}

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy int) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Grid stores a 2D grid of cell values in row-major order. Reads outside the
// grid return the sentinel value instead of failing.
type Grid[T comparable] struct {
	W, H     int
	sentinel T
	data     []T
}

// NewGrid allocates a grid with the given dimensions. Callers validate
// dimensions; non-positive sizes are clamped to 1 as a last resort.
func NewGrid[T comparable](w, h int, sentinel T) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid[T]{W: w, H: h, sentinel: sentinel, data: make([]T, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[T]) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) lies inside [0,W)x[0,H).
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the value at (x, y), or the sentinel when out of range.
func (g *Grid[T]) At(x, y int) T {
	if !g.InBounds(x, y) {
		return g.sentinel
	}
	return g.data[y*g.W+x]
}

// Set writes v at (x, y). Out-of-range writes are ignored.
func (g *Grid[T]) Set(x, y int, v T) {
	if !g.InBounds(x, y) {
		return
	}
	g.data[y*g.W+x] = v
}

// Sentinel returns the out-of-range value.
func (g *Grid[T]) Sentinel() T { return g.sentinel }

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}
