package engine

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPartitionCoversLogWithoutOverlap(t *testing.T) {
	for workers := 1; workers <= 8; workers++ {
		for length := 0; length <= 50; length++ {
			next := 0
			for tid := 0; tid < workers; tid++ {
				lo, hi := partition(length, tid, workers)
				if lo != next {
					t.Fatalf("workers=%d length=%d: tid %d starts at %d, want %d", workers, length, tid, lo, next)
				}
				if size := hi - lo; size < length/workers || size > length/workers+1 {
					t.Fatalf("workers=%d length=%d: tid %d got %d entries", workers, length, tid, size)
				}
				next = hi
			}
			if next != length {
				t.Fatalf("workers=%d length=%d: ranges end at %d", workers, length, next)
			}
		}
	}
}

func TestPoolRunsEveryJobBeforeWaitReturns(t *testing.T) {
	var processed atomic.Int64
	p := startPool(4, func(j job) {
		processed.Add(int64(j.hi - j.lo))
	})
	defer p.stop()

	for gen := int64(0); gen < 10; gen++ {
		p.dispatch(103, 0, gen)
		p.wait(0, nil)
		if got := processed.Load(); got != 103*(gen+1) {
			t.Fatalf("after generation %d processed %d entries", gen, got)
		}
	}
}

func TestPoolWatchdogReportsStall(t *testing.T) {
	release := make(chan struct{})
	p := startPool(2, func(j job) {
		if j.lo == 0 {
			<-release
		}
	})
	defer p.stop()

	stalls := 0
	p.dispatch(10, 0, 0)
	p.wait(5*time.Millisecond, func(d time.Duration) {
		stalls++
		if d != 5*time.Millisecond {
			t.Errorf("stall reported after %s", d)
		}
		close(release)
	})
	if stalls != 1 {
		t.Fatalf("watchdog fired %d times, want 1", stalls)
	}
}
