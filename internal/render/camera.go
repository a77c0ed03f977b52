package render

import "math"

// Camera selects the window of cells shown on screen. Zoom is the number of
// screen cells per grid cell; X and Y are the top-left visible cell and may
// be fractional.
type Camera struct {
	W, H int
	Zoom float64
	X, Y float64
}

// NewCamera returns an unzoomed camera over a w*h grid.
func NewCamera(w, h int) *Camera {
	return &Camera{W: w, H: h, Zoom: 1}
}

// Pan moves the camera by (dx, dy) cells and keeps the view inside the grid.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
	c.clamp()
}

// SetZoom changes the zoom level, keeping the centre of the view fixed.
// Levels below 1 snap to 1, which also resets the view to the origin.
func (c *Camera) SetZoom(z float64) {
	if z < 1 {
		z = 1
	}
	if z == 1 {
		c.X, c.Y = 0, 0
	} else {
		c.X += (float64(c.W)/c.Zoom - float64(c.W)/z) / 2
		c.Y += (float64(c.H)/c.Zoom - float64(c.H)/z) / 2
	}
	c.Zoom = z
	c.clamp()
}

func (c *Camera) clamp() {
	maxX := float64(c.W) - float64(c.W)/c.Zoom
	maxY := float64(c.H) - float64(c.H)/c.Zoom
	c.X = math.Max(0, math.Min(c.X, maxX))
	c.Y = math.Max(0, math.Min(c.Y, maxY))
}

// Window describes the cells covered by the camera: the first visible cell,
// how many columns and rows are (partly) visible, and the fraction of the
// first cell that is scrolled off screen.
type Window struct {
	X0, Y0     int
	Cols, Rows int
	FracX      float64
	FracY      float64
}

// Window returns the visible cells.
func (c *Camera) Window() Window {
	x0, y0 := int(c.X), int(c.Y)
	return Window{
		X0:    x0,
		Y0:    y0,
		Cols:  min(c.W, int(float64(c.W)/c.Zoom)+1),
		Rows:  min(c.H, int(float64(c.H)/c.Zoom)+1),
		FracX: c.X - float64(x0),
		FracY: c.Y - float64(y0),
	}
}

// CellAt maps a screen position, in units of unzoomed cells, to the grid
// cell under it.
func (c *Camera) CellAt(sx, sy float64) (int, int) {
	return int(c.X + sx/c.Zoom), int(c.Y + sy/c.Zoom)
}
