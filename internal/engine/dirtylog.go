package engine

import (
	"math"
	"sync"
	"sync/atomic"
)

// Parity selects one of the two alive-state buffers and dirty logs.
type Parity uint8

// Other returns the opposite parity.
func (p Parity) Other() Parity { return p ^ 1 }

// DedupMode controls how the dirty log suppresses repeated entries.
type DedupMode uint8

const (
	// DedupStrict claims a cell's stamp with compare-and-swap, so a cell is
	// logged at most once per generation.
	DedupStrict DedupMode = iota
	// DedupRelaxed checks and then sets the stamp. Two workers may both pass
	// the check and log the same cell twice; the second evaluation is wasted
	// work and never changes the outcome.
	DedupRelaxed
)

// String returns the config spelling of the mode.
func (m DedupMode) String() string {
	if m == DedupRelaxed {
		return "relaxed"
	}
	return "strict"
}

const neverLogged = math.MinInt64

// DirtyLog records the cells that must be re-evaluated in the next
// generation. One buffer is the read-only snapshot for the running
// generation; the other collects entries for the following one.
type DirtyLog struct {
	mode    DedupMode
	mu      sync.Mutex
	entries [2][]int32
	stamps  []atomic.Int64
}

// NewDirtyLog allocates a log sized for cells entries per generation.
func NewDirtyLog(cells int, mode DedupMode) *DirtyLog {
	capacity := cells
	if mode == DedupRelaxed {
		capacity += cells/8 + 1
	}
	l := &DirtyLog{
		mode:   mode,
		stamps: make([]atomic.Int64, cells),
	}
	l.entries[0] = make([]int32, 0, capacity)
	l.entries[1] = make([]int32, 0, capacity)
	l.Reset()
	return l
}

// Mark appends cell i to the log selected by next unless it has already been
// logged during generation gen. It reports whether the cell was appended.
func (l *DirtyLog) Mark(next Parity, i int32, gen int64) bool {
	stamp := &l.stamps[i]
	last := stamp.Load()
	if last == gen {
		return false
	}
	if l.mode == DedupStrict {
		if !stamp.CompareAndSwap(last, gen) {
			return false
		}
	} else {
		stamp.Store(gen)
	}

	l.mu.Lock()
	l.entries[next] = append(l.entries[next], i)
	l.mu.Unlock()
	return true
}

// Fill logs every cell into the buffer selected by p, stamped with gen. It
// is the seeding pass and is not safe for concurrent use.
func (l *DirtyLog) Fill(p Parity, gen int64) {
	buf := l.entries[p][:0]
	for i := range l.stamps {
		l.stamps[i].Store(gen)
		buf = append(buf, int32(i))
	}
	l.entries[p] = buf
}

// Current returns the snapshot selected by p. It must not be modified and is
// only valid until the next Rotate.
func (l *DirtyLog) Current(p Parity) []int32 { return l.entries[p] }

// Len returns the number of entries in the buffer selected by p.
func (l *DirtyLog) Len(p Parity) int { return len(l.entries[p]) }

// Rotate empties the buffer that was current, turning it into the write
// target for the generation that follows. The buffer that was being written
// becomes the snapshot with its length unchanged.
func (l *DirtyLog) Rotate(old Parity) {
	l.entries[old] = l.entries[old][:0]
}

// Reset clears both buffers and forgets every stamp.
func (l *DirtyLog) Reset() {
	l.entries[0] = l.entries[0][:0]
	l.entries[1] = l.entries[1][:0]
	for i := range l.stamps {
		l.stamps[i].Store(neverLogged)
	}
}
