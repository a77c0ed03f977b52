//go:build ebiten

package ui

import (
	"image/color"
	"strings"

	"lifegrid/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const lineHeight = 14

// Overlay draws the engine's parameters and the playback state in the top
// left corner. Tab toggles it.
type Overlay struct {
	sim     core.Sim
	visible bool
	panel   *ebiten.Image
}

// NewOverlay constructs a visible overlay for sim.
func NewOverlay(sim core.Sim) *Overlay {
	o := &Overlay{sim: sim, visible: true}
	o.panel = ebiten.NewImage(1, 1)
	o.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 200})
	return o
}

// Update handles the visibility toggle.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		o.visible = !o.visible
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image, st Status) {
	if !o.visible {
		return
	}
	var snap core.ParameterSnapshot
	if p, ok := o.sim.(core.ParameterProvider); ok {
		snap = p.Parameters()
	}
	lines := Lines(snap, st)

	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(width*7+12), float64(len(lines)*lineHeight+8))
	screen.DrawImage(o.panel, op)

	text.Draw(screen, strings.Join(lines, "\n"), basicfont.Face7x13, 6, 14, color.RGBA{R: 230, G: 230, B: 230, A: 255})
}
