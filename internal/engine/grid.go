package engine

// Adjacency slot order. Slot 0 is the cell itself; the table encodes slot 0
// into the highest bit.
const (
	SlotSelf = iota
	SlotE
	SlotNE
	SlotN
	SlotNW
	SlotW
	SlotSW
	SlotS
	SlotSE

	// Neighborhood is the number of adjacency entries per cell.
	Neighborhood
)

// offsets lists the (dx, dy) for each adjacency slot.
var offsets = [Neighborhood][2]int{
	SlotSelf: {0, 0},
	SlotE:    {1, 0},
	SlotNE:   {1, 1},
	SlotN:    {0, 1},
	SlotNW:   {-1, 1},
	SlotW:    {-1, 0},
	SlotSW:   {-1, -1},
	SlotS:    {0, -1},
	SlotSE:   {1, -1},
}

// Grid is a fixed toroidal arena of cells. Every cell is addressed by its
// row-major index and carries the indices of its 9-cell neighborhood.
type Grid struct {
	W, H int
	adj  [][Neighborhood]int32
}

// NewGrid wires the adjacency of a w*h torus. Non-positive dimensions are
// clamped to 1.
func NewGrid(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	g := &Grid{W: w, H: h, adj: make([][Neighborhood]int32, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := &g.adj[g.Index(x, y)]
			for slot, d := range offsets {
				nx, ny := g.Wrap(x+d[0], y+d[1])
				a[slot] = int32(g.Index(nx, ny))
			}
		}
	}
	return g
}

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.adj) }

// Index returns the arena index for in-range coordinates.
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// Coord is the inverse of Index.
func (g *Grid) Coord(i int) (int, int) { return i % g.W, i / g.W }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// Adjacent returns the neighborhood of cell i, self first.
func (g *Grid) Adjacent(i int) [Neighborhood]int32 { return g.adj[i] }
