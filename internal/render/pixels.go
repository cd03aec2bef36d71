// Package render turns per-cell palette indices into pixels.
package render

import (
	"image"
	"image/color"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black. Indices
// past the end of the palette use its last entry.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Image renders a w x h cell grid into an RGBA image, each cell scale pixels
// square.
func Image(w, h int, cells []uint8, palette []color.RGBA, scale int) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	src := make([]byte, 4*w*h)
	fillPaletteRGBA(src, cells[:w*h], palette)
	if scale == 1 {
		return &image.RGBA{Pix: src, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	}

	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h*scale; y++ {
		row := img.Pix[y*img.Stride:]
		cy := y / scale
		for x := 0; x < w*scale; x++ {
			s := 4 * (cy*w + x/scale)
			copy(row[4*x:4*x+4], src[s:s+4])
		}
	}
	return img
}
