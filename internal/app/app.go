//go:build ebiten

package app

import (
	"context"
	"errors"
	"image/color"

	"lifegrid/internal/core"
	"lifegrid/internal/render"
	"lifegrid/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keymap binds keys to viewer actions.
var keymap = []struct {
	key    ebiten.Key
	action Action
}{
	{ebiten.KeySpace, ActionTogglePause},
	{ebiten.KeyEnter, ActionStep},
	{ebiten.KeyUp, ActionZoomIn},
	{ebiten.KeyDown, ActionZoomOut},
	{ebiten.KeyLeft, ActionSlower},
	{ebiten.KeyRight, ActionFaster},
	{ebiten.KeyK, ActionPanUp},
	{ebiten.KeyJ, ActionPanDown},
	{ebiten.KeyH, ActionPanLeft},
	{ebiten.KeyL, ActionPanRight},
	{ebiten.KeyR, ActionReset},
	{ebiten.KeyQ, ActionQuit},
	{ebiten.KeyEscape, ActionQuit},
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	ctx      context.Context
	sim      core.Sim
	seed     []core.Coord
	grid     *core.ByteGrid
	cam      *render.Camera
	painter  *render.GridPainter
	overlay  *ui.Overlay
	controls *Controls
	inspect  *core.Coord

	onColor  color.Color
	offColor color.Color
	scale    int
}

// New constructs a Game for the provided simulation. seed is replayed when
// the viewer asks for a reset.
func New(ctx context.Context, sim core.Sim, seed []core.Coord, cfg *Config) *Game {
	size := sim.Size()
	g := &Game{
		ctx:      ctx,
		sim:      sim,
		seed:     seed,
		grid:     core.NewByteGrid(size.W, size.H),
		cam:      render.NewCamera(size.W, size.H),
		painter:  render.NewGridPainter(),
		overlay:  ui.NewOverlay(sim),
		controls: NewControls(int64(cfg.Speed), cfg.Paused),
		onColor:  color.Black,
		offColor: color.White,
		scale:    cfg.Scale,
	}
	g.grid.Capture(sim)
	return g
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	for _, b := range keymap {
		if inpututil.IsKeyJustPressed(b.key) {
			g.controls.Apply(b.action, g.cam)
		}
	}
	if g.controls.Quit() {
		return ebiten.Termination
	}
	g.overlay.Update()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		px, py := ebiten.CursorPosition()
		c := CellUnder(g.cam, px, py, g.scale)
		g.inspect = &c
	}

	if g.controls.TakeReset() {
		g.sim.Seed(g.seed)
	}
	if n := g.controls.Generations(); n > 0 {
		if err := g.sim.AdvanceBy(g.ctx, n); err != nil {
			if errors.Is(err, context.Canceled) {
				return ebiten.Termination
			}
			return err
		}
	}
	g.grid.Capture(g.sim)
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.grid, g.cam, g.onColor, g.offColor, g.scale)
	st := ui.Status{
		Paused: g.controls.Paused,
		Speed:  g.controls.Speed,
		Zoom:   g.cam.Zoom,
	}
	if c := g.inspect; c != nil {
		st.Inspected = c
		st.InspectedAlive = g.grid.At(c.X, c.Y) != 0
	}
	g.overlay.Draw(screen, st)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W * g.scale, s.H * g.scale
}
