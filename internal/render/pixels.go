package render

import (
	"image/color"

	"lifegrid/internal/core"
)

// fillWindowRGBA converts the cells inside win into RGBA pixels in buf,
// one pixel per cell, wrapping around the grid edges.
func fillWindowRGBA(buf []byte, grid *core.ByteGrid, win Window, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	cells := grid.Cells()
	base := 0
	for row := 0; row < win.Rows; row++ {
		for col := 0; col < win.Cols; col++ {
			x, y := grid.Wrap(win.X0+col, win.Y0+row)
			if cells[grid.Index(x, y)] != 0 {
				buf[base+0] = uint8(rOn >> 8)
				buf[base+1] = uint8(gOn >> 8)
				buf[base+2] = uint8(bOn >> 8)
				buf[base+3] = uint8(aOn >> 8)
			} else {
				buf[base+0] = uint8(rOff >> 8)
				buf[base+1] = uint8(gOff >> 8)
				buf[base+2] = uint8(bOff >> 8)
				buf[base+3] = uint8(aOff >> 8)
			}
			base += 4
		}
	}
}
