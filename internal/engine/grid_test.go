package engine

import "testing"

func TestWrapEdges(t *testing.T) {
	g := NewGrid(7, 5)
	cases := []struct {
		x, y   int
		wx, wy int
	}{
		{-1, 0, 6, 0},
		{7, 0, 0, 0},
		{0, -1, 0, 4},
		{0, 5, 0, 0},
		{-1, -1, 6, 4},
		{7, 5, 0, 0},
		{3, 2, 3, 2},
		{-8, 11, 6, 1},
	}
	for _, tc := range cases {
		x, y := g.Wrap(tc.x, tc.y)
		if x != tc.wx || y != tc.wy {
			t.Fatalf("Wrap(%d,%d) = (%d,%d), want (%d,%d)", tc.x, tc.y, x, y, tc.wx, tc.wy)
		}
	}
}

func TestAdjacencyWrapsAtCorners(t *testing.T) {
	g := NewGrid(6, 4)
	adj := g.Adjacent(g.Index(0, 0))

	want := map[int][2]int{
		SlotSelf: {0, 0},
		SlotE:    {1, 0},
		SlotNE:   {1, 1},
		SlotN:    {0, 1},
		SlotNW:   {5, 1},
		SlotW:    {5, 0},
		SlotSW:   {5, 3},
		SlotS:    {0, 3},
		SlotSE:   {1, 3},
	}
	for slot, xy := range want {
		if got := int(adj[slot]); got != g.Index(xy[0], xy[1]) {
			x, y := g.Coord(got)
			t.Fatalf("slot %d of (0,0) is (%d,%d), want (%d,%d)", slot, x, y, xy[0], xy[1])
		}
	}

	adj = g.Adjacent(g.Index(5, 3))
	if x, y := g.Coord(int(adj[SlotNE])); x != 0 || y != 0 {
		t.Fatalf("NE of (5,3) is (%d,%d), want (0,0)", x, y)
	}
}

func TestAdjacencyIsCompleteAndSymmetric(t *testing.T) {
	g := NewGrid(9, 7)
	for i := 0; i < g.Len(); i++ {
		adj := g.Adjacent(i)
		if int(adj[SlotSelf]) != i {
			t.Fatalf("cell %d: slot 0 is %d, want itself", i, adj[SlotSelf])
		}
		seen := map[int32]bool{}
		for _, n := range adj {
			if n < 0 || int(n) >= g.Len() {
				t.Fatalf("cell %d: neighbor %d out of range", i, n)
			}
			if seen[n] {
				t.Fatalf("cell %d: neighbor %d listed twice", i, n)
			}
			seen[n] = true

			back := g.Adjacent(int(n))
			found := false
			for _, m := range back {
				if int(m) == i {
					found = true
				}
			}
			if !found {
				t.Fatalf("cell %d lists %d but not the reverse", i, n)
			}
		}
	}
}

func TestCoordRoundTrip(t *testing.T) {
	g := NewGrid(13, 3)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if cx, cy := g.Coord(g.Index(x, y)); cx != x || cy != y {
				t.Fatalf("Coord(Index(%d,%d)) = (%d,%d)", x, y, cx, cy)
			}
		}
	}
}
