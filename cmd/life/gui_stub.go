//go:build !ebiten

package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var errNoGUI = errors.New("the GUI requires the ebiten build tag; rebuild with `-tags ebiten` or use run, bench or serve")

func newGUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open a window (requires the ebiten build tag)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd.Context(), e)
		},
	}
}

func runGUI(context.Context, *env) error {
	return errNoGUI
}
