package app

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pbnjay/memory"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"lifegrid/internal/core"
	"lifegrid/internal/engine"
	"lifegrid/internal/patterns"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Width        int
	Height       int
	Workers      int
	Dedup        string
	StallTimeout time.Duration

	Pattern string
	Density float64
	Seed    int64

	Scale  int
	TPS    int
	Speed  int
	Paused bool

	LogLevel  string
	LogFormat string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	def := engine.DefaultConfig()
	return &Config{
		Width:     def.Width,
		Height:    def.Height,
		Workers:   DefaultWorkers(),
		Dedup:     def.Dedup.String(),
		Pattern:   "large-block",
		Density:   0.3,
		Seed:      42,
		Scale:     1,
		TPS:       60,
		Speed:     1,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultWorkers returns the number of physical cores, or the logical CPU
// count when that cannot be determined.
func DefaultWorkers() int {
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "height", c.Height, "grid height in cells")
	fs.IntVar(&c.Workers, "workers", c.Workers, "worker goroutines per generation")
	fs.StringVar(&c.Dedup, "dedup", c.Dedup, "dirty log dedup mode (strict|relaxed)")
	fs.DurationVar(&c.StallTimeout, "stall-timeout", c.StallTimeout, "warn when a generation takes longer than this (0 disables)")
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, "initial pattern name, or \"random\"")
	fs.Float64Var(&c.Density, "density", c.Density, "live cell probability for the random pattern")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the random pattern")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.Speed, "speed", c.Speed, "generations per tick")
	fs.BoolVar(&c.Paused, "paused", c.Paused, "start paused")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (text|json)")
}

// Load reads the bound keys back from v, which layers flags, environment and
// config file values.
func (c *Config) Load(v *viper.Viper) {
	c.Width = v.GetInt("width")
	c.Height = v.GetInt("height")
	c.Workers = v.GetInt("workers")
	c.Dedup = v.GetString("dedup")
	c.StallTimeout = v.GetDuration("stall-timeout")
	c.Pattern = v.GetString("pattern")
	c.Density = v.GetFloat64("density")
	c.Seed = v.GetInt64("seed")
	c.Scale = v.GetInt("scale")
	c.TPS = v.GetInt("tps")
	c.Speed = v.GetInt("speed")
	c.Paused = v.GetBool("paused")
	c.LogLevel = v.GetString("log-level")
	c.LogFormat = v.GetString("log-format")
}

// Engine converts the configuration into an engine config.
func (c *Config) Engine(logger logrus.FieldLogger) (engine.Config, error) {
	mode, err := engine.ParseDedupMode(c.Dedup)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Width:        c.Width,
		Height:       c.Height,
		Workers:      c.Workers,
		Dedup:        mode,
		StallTimeout: c.StallTimeout,
		Logger:       logger,
	}, nil
}

// ErrTooLarge reports a grid that would not fit in memory.
var ErrTooLarge = errors.New("grid too large for this machine")

// Validate checks the configuration before anything is allocated.
func (c *Config) Validate() error {
	ec, err := c.Engine(nil)
	if err != nil {
		return err
	}
	if err := ec.Validate(); err != nil {
		return err
	}
	if c.Density < 0 || c.Density > 1 {
		return fmt.Errorf("density %v outside [0, 1]", c.Density)
	}
	if c.Scale <= 0 || c.TPS <= 0 || c.Speed <= 0 {
		return fmt.Errorf("scale, tps and speed must be positive (got %d, %d, %d)", c.Scale, c.TPS, c.Speed)
	}
	return checkMemory(ec.EstimateBytes(), memory.TotalMemory())
}

// checkMemory rejects grids needing more than half of total memory. A total
// of zero means unknown and always passes.
func checkMemory(need, total uint64) error {
	if total == 0 || need <= total/2 {
		return nil
	}
	return fmt.Errorf("%w: needs about %s of %s", ErrTooLarge, humanize.Bytes(need), humanize.Bytes(total))
}

// Build creates the engine described by c and seeds it.
func Build(c *Config, logger logrus.FieldLogger) (*engine.Engine, []core.Coord, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	ec, err := c.Engine(logger)
	if err != nil {
		return nil, nil, err
	}
	e, err := engine.New(ec)
	if err != nil {
		return nil, nil, err
	}
	seed, err := patterns.Builtin().Resolve(c.Pattern, e.Size(), c.Density, c.Seed)
	if err != nil {
		e.Close()
		return nil, nil, err
	}
	e.Seed(seed)
	return e, seed, nil
}
