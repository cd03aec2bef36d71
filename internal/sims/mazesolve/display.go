package mazesolve

import (
	"image/color"

	"maze-ca/internal/automaton"
)

var mazePalette = buildMazePalette()

// Palette exposes the color palette indexed by automaton state.
func (w *World) Palette() []color.RGBA {
	return mazePalette
}

// StatePalette returns the palette shared by every World.
func StatePalette() []color.RGBA {
	return mazePalette
}

// Frame converts automaton states into palette indices.
func Frame(states []automaton.State) []uint8 {
	out := make([]uint8, len(states))
	for i, s := range states {
		out[i] = uint8(s)
	}
	return out
}

func buildMazePalette() []color.RGBA {
	palette := make([]color.RGBA, automaton.NumStates)
	for i := range palette {
		palette[i] = stateColor(automaton.State(i))
	}
	return palette
}

func stateColor(s automaton.State) color.RGBA {
	switch {
	case s == automaton.Open:
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	case s == automaton.Wall:
		return color.RGBA{A: 0xff}
	case s == automaton.Begin, s == automaton.End:
		return color.RGBA{R: 0xff, A: 0xff}
	case s.IsFlow():
		return color.RGBA{R: 0xaa, G: 0xff, B: 0x55, A: 0xff}
	case s.IsRoute():
		return color.RGBA{R: 0x33, G: 0x33, B: 0xff, A: 0xff}
	default:
		return color.RGBA{}
	}
}

func (w *World) rebuildDisplay() {
	for y := 0; y < w.h; y++ {
		row := y * w.w
		for x := 0; x < w.w; x++ {
			w.display[row+x] = uint8(w.solver.At(x, y))
		}
	}
}
