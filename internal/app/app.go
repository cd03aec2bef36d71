//go:build ebiten

package app

import (
	"image/color"
	"time"

	"maze-ca/internal/core"
	"maze-ca/internal/render"
	"maze-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type canceller interface {
	Cancel()
}

type doneReporter interface {
	Done() bool
	Generation() int
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	log     logrus.FieldLogger

	palette []color.RGBA

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
	reported bool
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale, hudWidth int, seed int64, log logrus.FieldLogger) *Game {
	if scale <= 0 {
		scale = 1
	}
	size := sim.Size()
	palette := []color.RGBA{{A: 0xff}, {R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
	if p, ok := sim.(paletteProvider); ok {
		palette = p.Palette()
	}
	return &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(sim, scale),
		hud:      ui.NewHUD(sim, hudWidth),
		log:      log,
		palette:  palette,
		scale:    scale,
		hudWidth: hudWidth,
		seed:     seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	g.reported = false
	g.log.WithField("seed", seed).Info("reset")
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if c, ok := g.sim.(canceller); ok {
			c.Cancel()
			g.log.Info("cancel requested")
		}
	}

	g.overlay.Update()
	g.hud.Update(g.gridWidth())

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	if d, ok := g.sim.(doneReporter); ok && d.Done() && !g.reported {
		g.reported = true
		g.log.WithField("generations", d.Generation()).Info("solve finished")
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.gridWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.gridWidth() + g.hudWidth, g.sim.Size().H * g.scale
}

func (g *Game) gridWidth() int { return g.sim.Size().W * g.scale }
