package engine

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"lifegrid/internal/core"
	pcore "lifegrid/pkg/core"
	"lifegrid/pkg/sims/life"
)

func newEngine(t *testing.T, w, h, workers int, mode DedupMode) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Workers = workers
	cfg.Dedup = mode
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func advance(t *testing.T, e *Engine, gen int64) {
	t.Helper()
	if err := e.AdvanceTo(context.Background(), gen); err != nil {
		t.Fatalf("AdvanceTo(%d): %v", gen, err)
	}
}

func soup(w, h int, density float64, seed int64) []core.Coord {
	rng := pcore.NewRNG(seed)
	var cells []core.Coord
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if rng.Chance(density) {
				cells = append(cells, core.Coord{X: x, Y: y})
			}
		}
	}
	return cells
}

func aliveSet(e *Engine) map[core.Coord]bool {
	set := map[core.Coord]bool{}
	size := e.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			if e.Alive(x, y) {
				set[core.Coord{X: x, Y: y}] = true
			}
		}
	}
	return set
}

func expectAlive(t *testing.T, e *Engine, want ...core.Coord) {
	t.Helper()
	got := aliveSet(e)
	if len(got) != len(want) {
		t.Fatalf("generation %d: %d live cells, want %d (%v)", e.Generation(), len(got), len(want), got)
	}
	for _, c := range want {
		if !got[c] {
			t.Fatalf("generation %d: expected (%d,%d) alive, have %v", e.Generation(), c.X, c.Y, got)
		}
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	seed := soup(96, 64, 0.35, 11)

	var first []uint8
	for run := 0; run < 3; run++ {
		e := newEngine(t, 96, 64, 4, DedupStrict)
		e.Seed(seed)
		advance(t, e, 150)
		bitmap := e.Bitmap(nil)
		if first == nil {
			first = bitmap
			continue
		}
		if !slices.Equal(first, bitmap) {
			t.Fatalf("run %d diverged from run 0", run)
		}
	}
}

func TestWorkerCountInvariance(t *testing.T) {
	seed := soup(120, 90, 0.3, 2024)

	var baseline []uint8
	for _, workers := range []int{1, 2, 4, 8} {
		for _, mode := range []DedupMode{DedupStrict, DedupRelaxed} {
			e := newEngine(t, 120, 90, workers, mode)
			e.Seed(seed)
			advance(t, e, 200)
			bitmap := e.Bitmap(nil)
			if baseline == nil {
				baseline = bitmap
				continue
			}
			if !slices.Equal(baseline, bitmap) {
				t.Fatalf("workers=%d dedup=%s differs from workers=1", workers, mode)
			}
		}
	}
}

func TestMatchesReferenceStepper(t *testing.T) {
	const w, h = 64, 48
	seed := soup(w, h, 0.3, 7)

	ref := life.New(w, h)
	for _, c := range seed {
		ref.Set(c.X, c.Y)
	}
	e := newEngine(t, w, h, 3, DedupStrict)
	e.Seed(seed)

	for gen := int64(1); gen <= 120; gen++ {
		ref.Step()
		advance(t, e, gen)
		if !slices.Equal(ref.Cells(), e.Bitmap(nil)) {
			t.Fatalf("generation %d differs from the full-grid stepper", gen)
		}
	}
}

func TestGliderCrossesTorusEdge(t *testing.T) {
	const w, h = 12, 10
	glider := []core.Coord{{X: 10, Y: 8}, {X: 11, Y: 9}, {X: 9, Y: 0}, {X: 10, Y: 0}, {X: 11, Y: 0}}

	ref := life.New(w, h)
	for _, c := range glider {
		ref.Set(c.X, c.Y)
	}
	e := newEngine(t, w, h, 2, DedupStrict)
	e.Seed(glider)

	for gen := int64(1); gen <= 4*w*h/2; gen++ {
		ref.Step()
		advance(t, e, gen)
		if !slices.Equal(ref.Cells(), e.Bitmap(nil)) {
			t.Fatalf("generation %d differs from the full-grid stepper", gen)
		}
	}
	if got := e.Stats().Population; got != 5 {
		t.Fatalf("glider population %d, want 5", got)
	}
}

func TestQuiescence(t *testing.T) {
	e := newEngine(t, 40, 30, 4, DedupStrict)

	if got := e.Stats().Dirty; got != 40*30 {
		t.Fatalf("seeding pass logged %d cells, want %d", got, 40*30)
	}
	advance(t, e, 1)
	if s := e.Stats(); s.Dirty != 0 || s.Population != 0 {
		t.Fatalf("after first pass dirty=%d population=%d, want 0/0", s.Dirty, s.Population)
	}
	advance(t, e, 64)
	if s := e.Stats(); s.Dirty != 0 || s.Population != 0 {
		t.Fatalf("after 64 generations dirty=%d population=%d, want 0/0", s.Dirty, s.Population)
	}
}

func TestStillLifeBlock(t *testing.T) {
	e := newEngine(t, 32, 32, 4, DedupStrict)
	block := []core.Coord{{X: 15, Y: 15}, {X: 16, Y: 15}, {X: 15, Y: 16}, {X: 16, Y: 16}}
	e.Seed(block)

	for gen := int64(1); gen <= 100; gen++ {
		advance(t, e, gen)
		expectAlive(t, e, block...)
	}
	if got := e.Stats().Dirty; got != 0 {
		t.Fatalf("still life left %d dirty cells", got)
	}
}

func TestBlinkerPeriodTwo(t *testing.T) {
	e := newEngine(t, 20, 20, 4, DedupStrict)
	vertical := []core.Coord{{X: 10, Y: 9}, {X: 10, Y: 10}, {X: 10, Y: 11}}
	horizontal := []core.Coord{{X: 9, Y: 10}, {X: 10, Y: 10}, {X: 11, Y: 10}}
	e.Seed(vertical)

	expectAlive(t, e, vertical...)
	for gen := int64(1); gen <= 20; gen++ {
		advance(t, e, gen)
		if gen%2 == 1 {
			expectAlive(t, e, horizontal...)
		} else {
			expectAlive(t, e, vertical...)
		}
	}
}

func TestIsolatedCellDies(t *testing.T) {
	e := newEngine(t, 16, 16, 2, DedupStrict)
	e.Seed([]core.Coord{{X: 4, Y: 4}})

	for gen := int64(1); gen <= 4; gen++ {
		advance(t, e, gen)
		expectAlive(t, e)
	}
}

func TestSingleWorkerLogHasNoDuplicates(t *testing.T) {
	for _, mode := range []DedupMode{DedupStrict, DedupRelaxed} {
		t.Run(mode.String(), func(t *testing.T) {
			e := newEngine(t, 50, 40, 1, mode)
			e.Seed(soup(50, 40, 0.4, 99))

			for gen := int64(1); gen <= 60; gen++ {
				advance(t, e, gen)
				seen := make(map[int32]bool)
				for _, i := range e.log.Current(e.cur) {
					if seen[i] {
						t.Fatalf("generation %d: cell %d logged twice", gen, i)
					}
					seen[i] = true
				}
			}
		})
	}
}

func TestAdvanceByAndReseed(t *testing.T) {
	e := newEngine(t, 20, 20, 2, DedupStrict)
	e.Seed([]core.Coord{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}})

	if err := e.AdvanceBy(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	if got := e.Generation(); got != 3 {
		t.Fatalf("generation %d, want 3", got)
	}
	if err := e.AdvanceTo(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	if got := e.Generation(); got != 3 {
		t.Fatalf("advancing to a past generation moved the counter to %d", got)
	}

	e.Seed([]core.Coord{{X: -1, Y: -1}})
	if got := e.Generation(); got != 0 {
		t.Fatalf("reseed left generation at %d", got)
	}
	expectAlive(t, e, core.Coord{X: 19, Y: 19})
}

func TestConcurrentAdvanceByAccumulates(t *testing.T) {
	const callers, k = 4, 5
	e := newEngine(t, 8, 8, 2, DedupStrict)
	e.Seed(soup(8, 8, 0.4, 3))

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- e.AdvanceBy(context.Background(), k)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("AdvanceBy: %v", err)
		}
	}
	if got := e.Generation(); got != callers*k {
		t.Fatalf("generation %d after %d concurrent AdvanceBy(%d), want %d", got, callers, k, callers*k)
	}
}

func TestLogHoldsNeighborhoodsOfChangedCells(t *testing.T) {
	e := newEngine(t, 20, 20, 3, DedupStrict)
	e.Seed([]core.Coord{{X: 10, Y: 9}, {X: 10, Y: 10}, {X: 10, Y: 11}})
	advance(t, e, 1)

	// The vertical blinker's ends die and the horizontal ends are born.
	changed := []core.Coord{{X: 10, Y: 9}, {X: 10, Y: 11}, {X: 9, Y: 10}, {X: 11, Y: 10}}
	want := make(map[int32]bool)
	for _, c := range changed {
		for _, n := range e.grid.Adjacent(e.grid.Index(c.X, c.Y)) {
			want[n] = true
		}
	}
	expected := make([]int32, 0, len(want))
	for i := range want {
		expected = append(expected, i)
	}
	slices.Sort(expected)

	got := slices.Clone(e.log.Current(e.cur))
	slices.Sort(got)
	if !slices.Equal(got, expected) {
		t.Fatalf("logged cells %v, want %v", got, expected)
	}
}

func TestAdvanceStopsOnCancelledContext(t *testing.T) {
	e := newEngine(t, 10, 10, 2, DedupStrict)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := e.AdvanceTo(ctx, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("AdvanceTo with cancelled context = %v, want context.Canceled", err)
	}
	if got := e.Generation(); got != 0 {
		t.Fatalf("cancelled advance ran to generation %d", got)
	}
}

func TestClosedEngineRefusesToAdvance(t *testing.T) {
	e := newEngine(t, 10, 10, 3, DedupStrict)
	advance(t, e, 2)
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := e.AdvanceTo(context.Background(), 3); !errors.Is(err, ErrClosed) {
		t.Fatalf("AdvanceTo after Close = %v, want ErrClosed", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{Width: 0, Height: 10, Workers: 1},
		{Width: 10, Height: -1, Workers: 1},
		{Width: 10, Height: 10, Workers: 0},
		{Width: 10, Height: 10, Workers: 1, Dedup: 9},
		{Width: 10, Height: 10, Workers: 1, StallTimeout: -time.Second},
	}
	for _, cfg := range cases {
		if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("New(%+v) = %v, want ErrInvalidConfig", cfg, err)
		}
	}
}

func TestParametersReportState(t *testing.T) {
	e := newEngine(t, 8, 6, 2, DedupRelaxed)
	e.Seed([]core.Coord{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}})
	advance(t, e, 3)

	params := e.Parameters()
	for key, want := range map[string]string{
		"w":          "8",
		"h":          "6",
		"workers":    "2",
		"dedup":      "relaxed",
		"generation": "3",
		"population": "4",
	} {
		p, ok := params.Lookup(key)
		if !ok {
			t.Fatalf("missing parameter %q", key)
		}
		if p.Value != want {
			t.Fatalf("parameter %q = %q, want %q", key, p.Value, want)
		}
	}
	if p, ok := params.Lookup("live"); !ok || p.Type != core.ParamTypeFloat || !strings.HasPrefix(p.Value, "0.0833") {
		t.Fatalf("unexpected live fraction %+v", p)
	}
}
