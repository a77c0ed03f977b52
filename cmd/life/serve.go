package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lifegrid/internal/app"
	"lifegrid/internal/stream"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream generations to websocket viewers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), e, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func runServe(ctx context.Context, e *env, addr string) error {
	sim, _, err := app.Build(e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer sim.Close()

	hub := stream.NewHub(e.logger)
	mux := http.NewServeMux()
	mux.Handle("/ws", stream.Handler(hub, e.logger))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		b := stream.NewBroadcaster(sim, hub, e.cfg.TPS, int64(e.cfg.Speed), e.logger)
		if e.cfg.Paused {
			if _, err := b.Publish(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			<-ctx.Done()
			return nil
		}
		return b.Run(ctx)
	})
	g.Go(func() error {
		e.logger.WithFields(logrus.Fields{
			"addr": addr,
			"tps":  e.cfg.TPS,
		}).Info("serving websocket stream on /ws")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	return g.Wait()
}
