package engine

import (
	"testing"
	"time"
)

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"w":             "320",
		"h":             "200",
		"workers":       "6",
		"dedup":         "relaxed",
		"stall_timeout": "250ms",
	})
	if c.Width != 320 || c.Height != 200 || c.Workers != 6 {
		t.Fatalf("unexpected dimensions %+v", c)
	}
	if c.Dedup != DedupRelaxed {
		t.Fatalf("dedup = %s, want relaxed", c.Dedup)
	}
	if c.StallTimeout != 250*time.Millisecond {
		t.Fatalf("stall timeout = %s", c.StallTimeout)
	}
}

func TestFromMapIgnoresInvalidValues(t *testing.T) {
	def := DefaultConfig()
	c := FromMap(map[string]string{
		"w":             "-4",
		"h":             "tall",
		"workers":       "0",
		"dedup":         "sometimes",
		"stall_timeout": "soon",
	})
	if c != def {
		t.Fatalf("FromMap with invalid values = %+v, want defaults %+v", c, def)
	}
	if FromMap(nil) != def {
		t.Fatal("FromMap(nil) should return defaults")
	}
}

func TestEstimateBytesScalesWithCells(t *testing.T) {
	c := DefaultConfig()
	if got, want := c.EstimateBytes(), uint64(800*600*CellBytes); got != want {
		t.Fatalf("EstimateBytes = %d, want %d", got, want)
	}
}
