//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strconv"

	"maze-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the status and parameter panel to the right of the grid.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	status     []string

	controls     []hudControlState
	intSetter    core.IntParameterSetter
	panelOffsetX int
	title        string

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.title = buildTitle(sim)
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		controls := provider.ParameterControls()
		h.controls = make([]hudControlState, len(controls))
		for i, ctrl := range controls {
			h.controls[i] = hudControlState{control: ctrl, value: "--"}
		}
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	return h
}

// Update refreshes the cached snapshot and handles button clicks.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.status = statusLines(h.sim)
	h.layoutControls()
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
	h.refreshControlValues()
	h.handleInput()
}

// Draw paints the HUD panel anchored to the right edge of the grid view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height < minPanelHeight {
		height = minPanelHeight
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawStatus()
	h.drawControls()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok || param.Type != core.ParamTypeInt {
			state.hasValue = false
			state.value = "--"
			continue
		}
		parsed, err := strconv.Atoi(param.Value)
		if err != nil {
			state.hasValue = false
			state.value = "--"
			continue
		}
		state.intValue = parsed
		state.value = strconv.Itoa(parsed)
		state.hasValue = true
	}
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 || h.intSetter == nil {
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.applyAdjustment(state, -1)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.applyAdjustment(state, 1)
			return
		}
	}
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) {
	target := state.control.Clamp(state.intValue, direction)
	if target == state.intValue {
		return
	}
	if h.intSetter.SetIntParameter(state.control.Key, target) {
		state.intValue = target
		state.value = strconv.Itoa(target)
	}
}

func (h *HUD) canAdjust(state *hudControlState, direction int) bool {
	return h.intSetter != nil && state.control.Clamp(state.intValue, direction) != state.intValue
}

func (h *HUD) drawStatus() {
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	for _, line := range h.status {
		y += textLine
		text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	}
	for _, group := range h.snapshot.Groups {
		if group.Name == "Run" {
			continue
		}
		y += textLine
		text.Draw(h.panel, group.Name, face, panelPadding, y, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		for _, p := range group.Params {
			y += textLine
			text.Draw(h.panel, "  "+p.Label+": "+p.Value, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		}
	}
	y += textLine * 2
	for _, help := range keyHelp {
		text.Draw(h.panel, help, face, panelPadding, y, color.RGBA{R: 140, G: 140, B: 150, A: 255})
		y += textLine
	}
}

var keyHelp = []string{
	"Space pause  N step",
	"R reset  S new seed",
	"C cancel  1 path overlay",
	"Q/Esc quit",
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		valueColor := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if !state.hasValue {
			valueColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
		}
		bounds := text.BoundString(face, state.value)
		valueX := state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		h.drawButton(state.minusRect, "-", state.hasValue && h.canAdjust(state, -1))
		h.drawButton(state.plusRect, "+", state.hasValue && h.canAdjust(state, 1))
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

// layoutControls anchors the control rows to the bottom of the panel.
func (h *HUD) layoutControls() {
	if len(h.controls) == 0 || h.width <= 0 || h.lastHeight == 0 {
		return
	}
	for i := range h.controls {
		top := h.lastHeight - panelPadding - (len(h.controls)-i)*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	intValue int
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	textLine       = 16
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	minPanelHeight = 420
)
