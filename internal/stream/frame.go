// Package stream publishes engine generations to websocket viewers.
package stream

import "lifegrid/internal/core"

// Frame is one generation as sent to viewers. Cells is a row-major bitset,
// least significant bit first; JSON encodes it as base64.
type Frame struct {
	Generation int64  `json:"generation"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Population int    `json:"population"`
	Cells      []byte `json:"cells"`
}

// NewFrame packs the grid into a frame.
func NewFrame(generation int64, grid *core.ByteGrid) Frame {
	cells := grid.Cells()
	bits := make([]byte, (len(cells)+7)/8)
	pop := 0
	for i, v := range cells {
		if v != 0 {
			bits[i/8] |= 1 << (i % 8)
			pop++
		}
	}
	return Frame{
		Generation: generation,
		Width:      grid.W,
		Height:     grid.H,
		Population: pop,
		Cells:      bits,
	}
}

// Alive reports the state of (x, y) in the frame.
func (f Frame) Alive(x, y int) bool {
	x, y = core.Wrap(x, y, f.Width, f.Height)
	i := y*f.Width + x
	return f.Cells[i/8]&(1<<(i%8)) != 0
}
