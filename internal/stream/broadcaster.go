package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"lifegrid/internal/core"
)

// Broadcaster advances a simulation at a fixed tick rate and publishes every
// resulting generation to a hub.
type Broadcaster struct {
	sim    core.Sim
	hub    *Hub
	pacer  *core.FixedStep
	speed  int64
	grid   *core.ByteGrid
	logger logrus.FieldLogger
}

// NewBroadcaster returns a broadcaster running speed generations per tick at
// tps ticks per second.
func NewBroadcaster(sim core.Sim, hub *Hub, tps int, speed int64, logger logrus.FieldLogger) *Broadcaster {
	if speed < 1 {
		speed = 1
	}
	size := sim.Size()
	return &Broadcaster{
		sim:    sim,
		hub:    hub,
		pacer:  core.NewFixedStep(tps),
		speed:  speed,
		grid:   core.NewByteGrid(size.W, size.H),
		logger: logger.WithField("component", "broadcaster"),
	}
}

// Publish captures the current generation and hands it to the hub.
func (b *Broadcaster) Publish(ctx context.Context) (Frame, error) {
	gen := b.sim.Generation()
	b.grid.Capture(b.sim)
	frame := NewFrame(gen, b.grid)
	msg, err := json.Marshal(frame)
	if err != nil {
		return frame, fmt.Errorf("encode frame %d: %w", gen, err)
	}
	return frame, b.hub.Broadcast(ctx, msg)
}

// Run publishes the seed generation and then advances and publishes once per
// tick until ctx is done. Cancellation and hub shutdown are not reported
// as errors.
func (b *Broadcaster) Run(ctx context.Context) error {
	err := b.run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrStopped) {
		return nil
	}
	return err
}

func (b *Broadcaster) run(ctx context.Context) error {
	if _, err := b.Publish(ctx); err != nil {
		return err
	}
	for {
		if err := b.pacer.Wait(ctx); err != nil {
			return err
		}
		if err := b.sim.AdvanceBy(ctx, b.speed); err != nil {
			return err
		}
		frame, err := b.Publish(ctx)
		if err != nil {
			return err
		}
		b.logger.WithFields(logrus.Fields{
			"generation": frame.Generation,
			"population": frame.Population,
			"viewers":    b.hub.Clients(),
		}).Trace("frame published")
	}
}
