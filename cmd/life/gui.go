//go:build ebiten

package main

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"lifegrid/internal/app"
)

func newGUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open a window and run the grid interactively (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd.Context(), e)
		},
	}
}

func runGUI(ctx context.Context, e *env) error {
	sim, seed, err := app.Build(e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer sim.Close()

	game := app.New(ctx, sim, seed, e.cfg)
	size := sim.Size()

	ebiten.SetWindowTitle("life")
	ebiten.SetTPS(e.cfg.TPS)
	ebiten.SetWindowSize(size.W*e.cfg.Scale, size.H*e.cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
