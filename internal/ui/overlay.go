//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"maze-ca/internal/automaton"
	"maze-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type stateProvider interface {
	At(x, y int) automaton.State
}

// Overlay draws optional debugging visuals on top of the grid.
type Overlay struct {
	sim      core.Sim
	scale    int
	showPath bool
	showDirs bool
	maskImg  *ebiten.Image
	maskBuf  []byte

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlays from the keyboard.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showPath = !o.showPath
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showDirs = !o.showDirs
	}
}

// Draw renders the enabled overlays onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}

	if o.showPath {
		if mask := pathMask(o.sim); mask != nil {
			o.drawMask(screen, mask, size, scale, color.RGBA{R: 255, G: 210, B: 0, A: 200})
		}
	}
	// Direction ticks are unreadable below a few pixels per cell.
	if o.showDirs && scale >= 4 {
		if provider, ok := o.sim.(stateProvider); ok {
			o.drawDirections(screen, provider, size, scale)
		}
	}
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []bool, size core.Size, scale int, tint color.RGBA) {
	total := size.W * size.H
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
	}
	if len(o.maskBuf) != 4*total {
		o.maskBuf = make([]byte, 4*total)
	}
	fillMask(o.maskBuf, mask, tint)
	o.maskImg.WritePixels(o.maskBuf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}

// drawDirections draws a short tick from each flow or route cell towards the
// neighbor it points at.
func (o *Overlay) drawDirections(screen *ebiten.Image, provider stateProvider, size core.Size, scale int) {
	half := float64(scale) / 2
	thickness := math.Max(1, float64(scale)/6)
	flowCol := color.RGBA{R: 60, G: 110, B: 30, A: 220}
	routeCol := color.RGBA{R: 240, G: 240, B: 255, A: 230}
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			st := provider.At(x, y)
			if !st.IsFlow() && !st.IsRoute() {
				continue
			}
			col := flowCol
			if st.IsRoute() {
				col = routeCol
			}
			dx, dy := st.Dir().Delta()
			cx := float64(x*scale) + half
			cy := float64(y*scale) + half
			o.drawLine(screen, cx, cy, cx+float64(dx)*half, cy+float64(dy)*half, thickness, col)
		}
	}
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
