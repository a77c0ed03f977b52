package render

import (
	"image/color"
	"slices"
	"testing"

	"lifegrid/internal/core"
)

func TestFillWindowRGBAWraps(t *testing.T) {
	grid := core.NewByteGrid(3, 2)
	cells := grid.Cells()
	cells[grid.Index(0, 0)] = 1
	cells[grid.Index(2, 1)] = 1

	win := Window{X0: 2, Y0: 1, Cols: 2, Rows: 2}
	buf := make([]byte, 4*win.Cols*win.Rows)
	fillWindowRGBA(buf, grid, win, color.White, color.Black)

	on := []byte{0xff, 0xff, 0xff, 0xff}
	off := []byte{0x00, 0x00, 0x00, 0xff}
	// (2,1) (0,1) / (2,0) (0,0)
	want := slices.Concat(on, off, off, on)
	if !slices.Equal(buf, want) {
		t.Fatalf("unexpected pixels %v", buf)
	}
}
