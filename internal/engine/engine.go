// Package engine advances a toroidal Life grid incrementally. Only cells
// whose neighborhood changed in the previous generation are re-evaluated;
// the work is split across a fixed pool of worker goroutines.
//
// State is double-buffered. During a generation workers read the buffer
// selected by the current parity and write the other one together with the
// dirty log for the next generation. The coordinator flips the parity only
// after every worker has finished.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"lifegrid/internal/core"
)

// ErrClosed is returned by AdvanceTo once the engine has been closed.
var ErrClosed = errors.New("engine closed")

var _ core.Sim = (*Engine)(nil)

// seedGeneration stamps the seeding pass, one before the first generation.
const seedGeneration = -1

// Engine owns the grid, both state buffers, the dirty log and the worker
// pool. AdvanceTo, AdvanceBy, Seed, Bitmap and Stats may be called from
// any goroutine; Alive must not race with an advance.
type Engine struct {
	cfg    Config
	grid   *Grid
	table  *Table
	state  [2][]bool
	locks  []sync.Mutex
	log    *DirtyLog
	pool   *pool
	logger logrus.FieldLogger

	mu     sync.Mutex
	cur    Parity
	gen    atomic.Int64
	closed atomic.Bool
}

// New validates cfg, wires the grid and starts the worker pool. The grid
// starts empty and seeded, so it can be advanced immediately.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	logger = logger.WithField("component", "engine")

	grid := NewGrid(cfg.Width, cfg.Height)
	n := grid.Len()
	e := &Engine{
		cfg:    cfg,
		grid:   grid,
		table:  NewTable(),
		state:  [2][]bool{make([]bool, n), make([]bool, n)},
		locks:  make([]sync.Mutex, n),
		log:    NewDirtyLog(n, cfg.Dedup),
		logger: logger,
	}
	e.pool = startPool(cfg.Workers, e.process)
	e.Seed(nil)

	logger.WithFields(logrus.Fields{
		"width":   cfg.Width,
		"height":  cfg.Height,
		"workers": cfg.Workers,
		"dedup":   cfg.Dedup.String(),
	}).Debug("engine started")
	return e, nil
}

// Name identifies the automaton.
func (e *Engine) Name() string { return "life" }

// Size returns the grid dimensions.
func (e *Engine) Size() core.Size { return core.Size{W: e.grid.W, H: e.grid.H} }

// Workers returns the size of the worker pool.
func (e *Engine) Workers() int { return e.pool.size() }

// Generation returns the number of completed generations since the last seed.
func (e *Engine) Generation() int64 { return e.gen.Load() }

// Seed resets the engine to generation 0 with the given live cells.
// Coordinates are wrapped onto the torus. The live set is written to both
// buffers and every cell is logged dirty, so the first generation evaluates
// the whole grid.
func (e *Engine) Seed(cells []core.Coord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clear(e.state[0])
	clear(e.state[1])
	for _, c := range cells {
		x, y := e.grid.Wrap(c.X, c.Y)
		i := e.grid.Index(x, y)
		e.state[0][i] = true
		e.state[1][i] = true
	}
	e.cur = 0
	e.gen.Store(0)
	e.log.Reset()
	e.log.Fill(e.cur, seedGeneration)

	e.logger.WithField("alive", len(cells)).Debug("seeded")
}

// AdvanceTo runs generations until the counter reaches target. It returns
// early only between generations, when ctx is done or the engine is closed.
func (e *Engine) AdvanceTo(ctx context.Context, target int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.advanceTo(ctx, target)
}

// AdvanceBy runs n more generations. The target is taken under the engine
// lock, so concurrent calls add up.
func (e *Engine) AdvanceBy(ctx context.Context, n int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.advanceTo(ctx, e.gen.Load()+n)
}

// advanceTo steps until target. Callers hold e.mu.
func (e *Engine) advanceTo(ctx context.Context, target int64) error {
	for e.gen.Load() < target {
		if e.closed.Load() {
			return ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		e.step()
	}
	return nil
}

// step runs one compute phase and then the swap. Callers hold e.mu.
func (e *Engine) step() {
	cur, gen := e.cur, e.gen.Load()

	e.pool.dispatch(e.log.Len(cur), cur, gen)
	e.pool.wait(e.cfg.StallTimeout, func(d time.Duration) {
		e.logger.WithFields(logrus.Fields{
			"generation": gen,
			"waited":     d,
		}).Warn("workers have not reached the generation barrier")
	})

	e.log.Rotate(cur)
	e.cur = cur.Other()
	e.gen.Store(gen + 1)
}

// process evaluates one worker's slice of the current dirty log.
func (e *Engine) process(j job) {
	nxt := j.cur.Other()
	alive, next := e.state[j.cur], e.state[nxt]
	for _, i := range e.log.Current(j.cur)[j.lo:j.hi] {
		adj := &e.grid.adj[i]
		v := e.table.Next(Encode(alive, adj))

		mu := &e.locks[i]
		mu.Lock()
		if next[i] != v {
			for _, n := range adj {
				e.log.Mark(nxt, n, j.gen)
			}
			next[i] = v
		}
		mu.Unlock()
	}
}

// Alive reports whether (x, y) is alive in the current generation.
// Coordinates are wrapped. It must not be called during an advance.
func (e *Engine) Alive(x, y int) bool {
	x, y = e.grid.Wrap(x, y)
	return e.state[e.cur][e.grid.Index(x, y)]
}

// Bitmap copies the current generation into dst as 0/1 bytes in row-major
// order, growing dst when needed.
func (e *Engine) Bitmap(dst []uint8) []uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.grid.Len()
	if cap(dst) < n {
		dst = make([]uint8, n)
	}
	dst = dst[:n]
	for i, alive := range e.state[e.cur] {
		if alive {
			dst[i] = 1
		} else {
			dst[i] = 0
		}
	}
	return dst
}

// Stats describes the engine after the last completed generation.
type Stats struct {
	Generation int64
	Population int
	Dirty      int
	Cells      int
	Workers    int
}

// Stats counts the live population and pending dirty cells.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	pop := 0
	for _, alive := range e.state[e.cur] {
		if alive {
			pop++
		}
	}
	return Stats{
		Generation: e.gen.Load(),
		Population: pop,
		Dirty:      e.log.Len(e.cur),
		Cells:      e.grid.Len(),
		Workers:    e.pool.size(),
	}
}

// Parameters describes the engine for display.
func (e *Engine) Parameters() core.ParameterSnapshot {
	s := e.Stats()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.IntParam("w", "Width", e.grid.W),
				core.IntParam("h", "Height", e.grid.H),
				core.IntParam("cells", "Cells", s.Cells),
			},
		},
		{
			Name: "Engine",
			Params: []core.Parameter{
				core.IntParam("workers", "Workers", s.Workers),
				{Key: "dedup", Label: "Dedup", Type: core.ParamTypeString, Value: e.cfg.Dedup.String()},
			},
		},
		{
			Name: "Generation",
			Params: []core.Parameter{
				{Key: "generation", Label: "Generation", Type: core.ParamTypeInt, Value: strconv.FormatInt(s.Generation, 10)},
				core.IntParam("population", "Population", s.Population),
				core.FloatParam("live", "Live fraction", float64(s.Population)/float64(s.Cells)),
				core.IntParam("dirty", "Dirty cells", s.Dirty),
			},
		},
	}}
}

// Close stops the worker pool. An advance in progress returns ErrClosed at
// its next generation boundary.
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.stop()
}
