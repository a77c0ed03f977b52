// Package life is a straightforward full-grid Life stepper on a torus. It
// re-evaluates every cell each generation and serves as the reference the
// incremental engine is checked against.
package life

// Life implements Conway's Game of Life with toroidal wrapping.
type Life struct {
	w, h int
	cur  []uint8
	nxt  []uint8
}

// New returns a Life simulation with the provided dimensions.
func New(w, h int) *Life {
	cells := make([]uint8, w*h)
	return &Life{w: w, h: h, cur: cells, nxt: make([]uint8, len(cells))}
}

// Size returns the grid dimensions.
func (l *Life) Size() (int, int) { return l.w, l.h }

// Cells exposes the current grid values as 0/1 bytes.
func (l *Life) Cells() []uint8 { return l.cur }

// Set marks (x, y) alive after wrapping the coordinates.
func (l *Life) Set(x, y int) {
	x = (x%l.w + l.w) % l.w
	y = (y%l.h + l.h) % l.h
	l.cur[y*l.w+x] = 1
}

// Step advances the simulation by one generation.
func (l *Life) Step() {
	w, h := l.w, l.h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx := (x + dx + w) % w
					ny := (y + dy + h) % h
					neighbors += int(l.cur[ny*w+nx])
				}
			}
			idx := y*w + x
			alive := l.cur[idx] == 1
			l.nxt[idx] = 0
			if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
				l.nxt[idx] = 1
			}
		}
	}
	l.cur, l.nxt = l.nxt, l.cur
}
