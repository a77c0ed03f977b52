package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lifegrid/internal/app"
)

func newRunCmd(e *env) *cobra.Command {
	var frames int64
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Advance the grid without a window and report throughput",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd.Context(), e, frames, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int64VarP(&frames, "frames", "f", 1000, "generations to compute")
	return cmd
}

func runHeadless(ctx context.Context, e *env, frames int64, out io.Writer) error {
	if frames < 0 {
		return fmt.Errorf("frames %d must not be negative", frames)
	}
	sim, _, err := app.Build(e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer sim.Close()

	e.logger.WithFields(logrus.Fields{
		"width":   e.cfg.Width,
		"height":  e.cfg.Height,
		"workers": sim.Workers(),
		"pattern": e.cfg.Pattern,
		"frames":  frames,
	}).Info("running headless")

	start := time.Now()
	err = sim.AdvanceTo(ctx, frames)
	elapsed := time.Since(start)
	if errors.Is(err, context.Canceled) {
		e.logger.WithField("generation", sim.Generation()).Warn("interrupted")
		err = errInterrupted
	}

	stats := sim.Stats()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(stats.Generation) / elapsed.Seconds()
	}
	fmt.Fprintf(out, "generations: %s\n", humanize.Comma(stats.Generation))
	fmt.Fprintf(out, "population:  %s of %s cells\n", humanize.Comma(int64(stats.Population)), humanize.Comma(int64(stats.Cells)))
	fmt.Fprintf(out, "elapsed:     %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "rate:        %s gen/s\n", humanize.CommafWithDigits(rate, 1))
	return err
}
