package engine

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid engine config")

// Config fixes the engine's dimensions and worker pool at construction.
type Config struct {
	Width   int
	Height  int
	Workers int

	Dedup DedupMode

	// StallTimeout enables a watchdog that logs a warning when the workers
	// have not all finished a generation within this duration. Zero disables.
	StallTimeout time.Duration

	Logger logrus.FieldLogger
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:   800,
		Height:  600,
		Workers: 4,
		Dedup:   DedupStrict,
	}
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["dedup"]; ok {
		if mode, err := ParseDedupMode(v); err == nil {
			c.Dedup = mode
		}
	}
	if v, ok := cfg["stall_timeout"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed >= 0 {
			c.StallTimeout = parsed
		}
	}
	return c
}

// ParseDedupMode parses "strict" or "relaxed".
func ParseDedupMode(s string) (DedupMode, error) {
	switch s {
	case "", "strict":
		return DedupStrict, nil
	case "relaxed":
		return DedupRelaxed, nil
	}
	return DedupStrict, fmt.Errorf("unknown dedup mode %q: %w", s, ErrInvalidConfig)
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("grid %dx%d: %w", c.Width, c.Height, ErrInvalidConfig)
	}
	if int64(c.Width)*int64(c.Height) > 1<<31-1 {
		return fmt.Errorf("grid %dx%d exceeds int32 indexing: %w", c.Width, c.Height, ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers %d: %w", c.Workers, ErrInvalidConfig)
	}
	if c.Dedup != DedupStrict && c.Dedup != DedupRelaxed {
		return fmt.Errorf("dedup mode %d: %w", c.Dedup, ErrInvalidConfig)
	}
	if c.StallTimeout < 0 {
		return fmt.Errorf("stall timeout %s: %w", c.StallTimeout, ErrInvalidConfig)
	}
	return nil
}

// CellBytes approximates the memory the engine needs per cell: adjacency,
// two alive slots, a stamp, a mutex and two log entries.
const CellBytes = Neighborhood*4 + 2 + 8 + 8 + 2*4

// EstimateBytes returns the approximate footprint of an engine for cfg.
func (c Config) EstimateBytes() uint64 {
	return uint64(c.Width) * uint64(c.Height) * CellBytes
}
