package engine

import (
	"sync"
	"testing"
)

func TestMarkDeduplicatesWithinGeneration(t *testing.T) {
	for _, mode := range []DedupMode{DedupStrict, DedupRelaxed} {
		t.Run(mode.String(), func(t *testing.T) {
			l := NewDirtyLog(8, mode)
			if !l.Mark(1, 3, 0) {
				t.Fatal("first mark should append")
			}
			if l.Mark(1, 3, 0) {
				t.Fatal("second mark in the same generation should be dropped")
			}
			if !l.Mark(0, 3, 1) {
				t.Fatal("mark in a later generation should append")
			}
			if got := l.Len(1); got != 1 {
				t.Fatalf("log 1 has %d entries, want 1", got)
			}
			if got := l.Len(0); got != 1 {
				t.Fatalf("log 0 has %d entries, want 1", got)
			}
		})
	}
}

func TestStrictMarkIsExclusiveAcrossGoroutines(t *testing.T) {
	const cells = 512
	l := NewDirtyLog(cells, DedupStrict)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := int32(0); i < cells; i++ {
				l.Mark(1, i, 7)
			}
		}()
	}
	wg.Wait()

	if got := l.Len(1); got != cells {
		t.Fatalf("log has %d entries, want %d", got, cells)
	}
	seen := make([]bool, cells)
	for _, i := range l.Current(1) {
		if seen[i] {
			t.Fatalf("cell %d logged twice", i)
		}
		seen[i] = true
	}
}

func TestRotateKeepsWrittenBuffer(t *testing.T) {
	l := NewDirtyLog(4, DedupStrict)
	l.Fill(0, -1)
	l.Mark(1, 2, 0)
	l.Mark(1, 0, 0)

	l.Rotate(0)
	if got := l.Len(0); got != 0 {
		t.Fatalf("rotated buffer has %d entries, want 0", got)
	}
	if got := l.Current(1); len(got) != 2 || got[0] != 2 || got[1] != 0 {
		t.Fatalf("snapshot = %v, want [2 0]", got)
	}
}

func TestFillLogsEveryCellOnce(t *testing.T) {
	l := NewDirtyLog(10, DedupStrict)
	l.Fill(1, -1)
	if got := l.Len(1); got != 10 {
		t.Fatalf("Fill logged %d cells, want 10", got)
	}
	if l.Mark(1, 4, -1) {
		t.Fatal("Fill should stamp cells for its generation")
	}
	l.Reset()
	if l.Len(1) != 0 || !l.Mark(0, 4, -1) {
		t.Fatal("Reset should clear entries and stamps")
	}
}
