// Package ui draws the viewer's HUD panel and grid overlays.
package ui

import (
	"fmt"
	"image/color"
	"strings"

	"maze-ca/internal/core"
)

type statusProvider interface {
	Generation() int
	Done() bool
	Cancelled() bool
	Path() ([]core.Point, error)
}

type pathProvider interface {
	Done() bool
	Path() ([]core.Point, error)
}

func statusLines(sim core.Sim) []string {
	sp, ok := sim.(statusProvider)
	if !ok {
		return nil
	}
	state := "running"
	switch {
	case sp.Cancelled():
		state = "cancelled"
	case sp.Done():
		state = "done"
	}
	lines := []string{
		fmt.Sprintf("Generation %d", sp.Generation()),
		"State: " + state,
	}
	if sp.Done() {
		path, err := sp.Path()
		if err != nil {
			lines = append(lines, "Path: none")
		} else {
			lines = append(lines, fmt.Sprintf("Path: %d steps", len(path)-1))
		}
	}
	return lines
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	name := sim.Name()
	return strings.ToUpper(name[:1]) + name[1:] + " Controls"
}

// pathMask marks the cells on the solved route, or returns nil when there is
// none yet.
func pathMask(sim core.Sim) []bool {
	pp, ok := sim.(pathProvider)
	if !ok || !pp.Done() {
		return nil
	}
	path, err := pp.Path()
	if err != nil {
		return nil
	}
	size := sim.Size()
	mask := make([]bool, size.W*size.H)
	for _, p := range path {
		if p.X >= 0 && p.Y >= 0 && p.X < size.W && p.Y < size.H {
			mask[p.Y*size.W+p.X] = true
		}
	}
	return mask
}

// fillMask writes tint into buf for every set cell and clears the rest.
func fillMask(buf []byte, mask []bool, tint color.RGBA) {
	for i, on := range mask {
		base := i * 4
		if !on {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		buf[base+0] = tint.R
		buf[base+1] = tint.G
		buf[base+2] = tint.B
		buf[base+3] = tint.A
	}
}
