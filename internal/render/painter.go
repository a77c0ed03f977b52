//go:build ebiten

package render

import (
	"image/color"

	"lifegrid/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads the visible part of a grid into an image and draws it
// scaled by the camera zoom.
type GridPainter struct {
	img  *ebiten.Image
	buf  []byte
	cols int
	rows int
}

// NewGridPainter allocates an empty painter; buffers are sized on first use.
func NewGridPainter() *GridPainter {
	return &GridPainter{}
}

// Blit draws the cells under cam onto dst. scale is the number of screen
// pixels per unzoomed cell.
func (gp *GridPainter) Blit(dst *ebiten.Image, grid *core.ByteGrid, cam *Camera, on, off color.Color, scale int) {
	win := cam.Window()
	if win.Cols <= 0 || win.Rows <= 0 {
		return
	}
	if gp.img == nil || gp.cols != win.Cols || gp.rows != win.Rows {
		gp.img = ebiten.NewImage(win.Cols, win.Rows)
		gp.buf = make([]byte, 4*win.Cols*win.Rows)
		gp.cols, gp.rows = win.Cols, win.Rows
	}
	fillWindowRGBA(gp.buf, grid, win, on, off)
	gp.img.WritePixels(gp.buf)

	px := cam.Zoom * float64(scale)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-win.FracX, -win.FracY)
	op.GeoM.Scale(px, px)
	dst.DrawImage(gp.img, op)
}
