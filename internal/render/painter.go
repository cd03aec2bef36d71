//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads a cell grid into a texture and draws it scaled.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a w x h grid.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{w: w, h: h, img: ebiten.NewImage(w, h), buf: make([]byte, 4*w*h)}
}

// Blit paints cells through palette onto screen at the given scale.
func (p *GridPainter) Blit(screen *ebiten.Image, cells []uint8, palette []color.RGBA, scale int) {
	if len(cells) < p.w*p.h {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	fillPaletteRGBA(p.buf, cells[:p.w*p.h], palette)
	p.img.WritePixels(p.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(p.img, op)
}
