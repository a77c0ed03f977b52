package ui

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"lifegrid/internal/core"
)

// Status is the viewer state shown next to the engine parameters.
type Status struct {
	Paused bool
	Speed  int64
	Zoom   float64

	// Inspected is the last clicked cell, if any.
	Inspected *core.Coord
	// InspectedAlive is its state in the displayed generation.
	InspectedAlive bool
}

// Lines renders a parameter snapshot and the viewer status as text lines.
// Integer values are printed with thousands separators.
func Lines(snap core.ParameterSnapshot, st Status) []string {
	state := "running"
	if st.Paused {
		state = "paused"
	}
	lines := []string{fmt.Sprintf("%s  speed %d  zoom x%g", state, st.Speed, st.Zoom)}
	if c := st.Inspected; c != nil {
		cell := "dead"
		if st.InspectedAlive {
			cell = "alive"
		}
		lines = append(lines, fmt.Sprintf("cell (%d, %d): %s", c.X, c.Y, cell))
	}
	for _, g := range snap.Groups {
		lines = append(lines, "["+g.Name+"]")
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("  %s: %s", p.Label, formatValue(p)))
		}
	}
	return lines
}

func formatValue(p core.Parameter) string {
	if p.Type != core.ParamTypeInt {
		return p.Value
	}
	n, err := strconv.ParseInt(p.Value, 10, 64)
	if err != nil {
		return p.Value
	}
	return humanize.Comma(n)
}
