package core

import "context"

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Cells returns W*H.
func (s Size) Cells() int { return s.W * s.H }

// Coord addresses a single cell.
type Coord struct {
	X int
	Y int
}

// Sim is the narrow contract viewers and front-ends use to drive an
// automaton: advance it, then read the current generation.
type Sim interface {
	Name() string
	Size() Size
	Generation() int64
	AdvanceTo(ctx context.Context, generation int64) error
	AdvanceBy(ctx context.Context, n int64) error
	Alive(x, y int) bool
	Bitmap(dst []uint8) []uint8
	Seed(cells []Coord)
}
