package app

import (
	"lifegrid/internal/core"
	"lifegrid/internal/render"
)

// Action is a viewer command, independent of the key that triggered it.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionStep
	ActionZoomIn
	ActionZoomOut
	ActionSlower
	ActionFaster
	ActionPanUp
	ActionPanDown
	ActionPanLeft
	ActionPanRight
	ActionReset
	ActionQuit
)

// Controls holds the viewer's playback state.
type Controls struct {
	Paused bool
	// Speed is the number of generations advanced per frame.
	Speed int64

	stepOnce bool
	quit     bool
	reset    bool
}

// NewControls returns playback state with the given speed.
func NewControls(speed int64, paused bool) *Controls {
	if speed < 1 {
		speed = 1
	}
	return &Controls{Paused: paused, Speed: speed}
}

// Apply updates the playback state and camera for one action.
func (c *Controls) Apply(a Action, cam *render.Camera) {
	switch a {
	case ActionTogglePause:
		c.Paused = !c.Paused
	case ActionStep:
		c.Paused = true
		c.stepOnce = true
	case ActionZoomIn:
		cam.SetZoom(cam.Zoom * 2)
	case ActionZoomOut:
		cam.SetZoom(cam.Zoom / 2)
	case ActionSlower:
		if c.Speed > 1 {
			c.Speed--
		}
	case ActionFaster:
		c.Speed++
	case ActionPanUp:
		cam.Pan(0, -1)
	case ActionPanDown:
		cam.Pan(0, 1)
	case ActionPanLeft:
		cam.Pan(-1, 0)
	case ActionPanRight:
		cam.Pan(1, 0)
	case ActionReset:
		c.reset = true
	case ActionQuit:
		c.quit = true
	}
}

// Generations returns how far to advance this frame and consumes a pending
// single step.
func (c *Controls) Generations() int64 {
	if c.stepOnce {
		c.stepOnce = false
		return 1
	}
	if c.Paused {
		return 0
	}
	return c.Speed
}

// TakeReset reports and clears a pending reset request.
func (c *Controls) TakeReset() bool {
	r := c.reset
	c.reset = false
	return r
}

// Quit reports whether the viewer should exit.
func (c *Controls) Quit() bool { return c.quit }

// CellUnder returns the grid cell under screen pixel (px, py) for a window
// drawn at scale pixels per unzoomed cell.
func CellUnder(cam *render.Camera, px, py, scale int) core.Coord {
	if scale < 1 {
		scale = 1
	}
	x, y := cam.CellAt(float64(px)/float64(scale), float64(py)/float64(scale))
	x, y = core.Wrap(x, y, cam.W, cam.H)
	return core.Coord{X: x, Y: y}
}
