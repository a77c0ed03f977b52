package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lifegrid/internal/core"
	"lifegrid/internal/engine"
	"lifegrid/internal/patterns"
)

type benchResult struct {
	workers  int
	elapsed  time.Duration
	bitmap   []uint8
	stats    engine.Stats
	matching bool
}

func newBenchCmd(e *env) *cobra.Command {
	var (
		frames   int64
		counts   string
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare worker counts on the same seed and check they agree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, err := parseCounts(counts)
			if err != nil {
				return err
			}
			return runBench(cmd.Context(), e, frames, workers, parallel, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int64VarP(&frames, "frames", "f", 200, "generations per run")
	cmd.Flags().StringVar(&counts, "counts", "1,2,4,8", "comma-separated worker counts")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "runs to execute concurrently")
	return cmd
}

func parseCounts(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid worker count %q", field)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no worker counts in %q", s)
	}
	return out, nil
}

func runBench(ctx context.Context, e *env, frames int64, workers []int, parallel int, out io.Writer) error {
	if frames < 0 {
		return fmt.Errorf("frames %d must not be negative", frames)
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	base, err := e.cfg.Engine(e.logger)
	if err != nil {
		return err
	}
	size := base.Width * base.Height
	seed, err := patterns.Builtin().Resolve(e.cfg.Pattern, core.Size{W: base.Width, H: base.Height}, e.cfg.Density, e.cfg.Seed)
	if err != nil {
		return err
	}
	if parallel < 1 {
		parallel = 1
	}

	results := make([]benchResult, len(workers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, n := range workers {
		g.Go(func() error {
			cfg := base
			cfg.Workers = n
			sim, err := engine.New(cfg)
			if err != nil {
				return err
			}
			defer sim.Close()
			sim.Seed(seed)

			start := time.Now()
			if err := sim.AdvanceTo(ctx, frames); err != nil {
				return err
			}
			results[i] = benchResult{
				workers: n,
				elapsed: time.Since(start),
				bitmap:  sim.Bitmap(make([]uint8, 0, size)),
				stats:   sim.Stats(),
			}
			e.logger.WithFields(logrus.Fields{
				"workers": n,
				"elapsed": results[i].elapsed,
			}).Debug("bench run finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			return errInterrupted
		}
		return err
	}

	agree := true
	for i := range results {
		results[i].matching = slices.Equal(results[i].bitmap, results[0].bitmap)
		agree = agree && results[i].matching
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "workers\telapsed\tgen/s\tspeedup\tpopulation\tmatches")
	for _, r := range results {
		rate, speedup := 0.0, 0.0
		if r.elapsed > 0 {
			rate = float64(frames) / r.elapsed.Seconds()
			speedup = results[0].elapsed.Seconds() / r.elapsed.Seconds()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2fx\t%s\t%v\n",
			r.workers,
			r.elapsed.Round(time.Millisecond),
			humanize.CommafWithDigits(rate, 1),
			speedup,
			humanize.Comma(int64(r.stats.Population)),
			r.matching)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !agree {
		return fmt.Errorf("worker counts disagree after %d generations", frames)
	}
	return nil
}
