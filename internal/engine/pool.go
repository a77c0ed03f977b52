package engine

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// job is one worker's share of a generation: the half-open range [lo, hi)
// of the snapshot log selected by cur.
type job struct {
	lo, hi int
	cur    Parity
	gen    int64
}

// pool is a fixed set of worker goroutines, each fed through its own channel.
// The coordinator dispatches one job per worker and waits on barrier before
// touching shared state again.
type pool struct {
	jobs    []chan job
	barrier sync.WaitGroup

	group  *errgroup.Group
	cancel context.CancelFunc
}

func startPool(workers int, work func(job)) *pool {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	p := &pool{
		jobs:   make([]chan job, workers),
		group:  g,
		cancel: cancel,
	}
	for tid := range p.jobs {
		ch := make(chan job)
		p.jobs[tid] = ch
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case j := <-ch:
					work(j)
					p.barrier.Done()
				}
			}
		})
	}
	return p
}

// size returns the number of workers.
func (p *pool) size() int { return len(p.jobs) }

// partition returns worker tid's range over a log of the given length.
func partition(length, tid, workers int) (int, int) {
	return length * tid / workers, length * (tid + 1) / workers
}

// dispatch hands every worker its slice of a log of the given length.
func (p *pool) dispatch(length int, cur Parity, gen int64) {
	n := len(p.jobs)
	p.barrier.Add(n)
	for tid, ch := range p.jobs {
		lo, hi := partition(length, tid, n)
		ch <- job{lo: lo, hi: hi, cur: cur, gen: gen}
	}
}

// wait blocks until every dispatched job has finished. With a positive
// timeout, onStall is called once if the barrier is still open after it
// expires; waiting then continues.
func (p *pool) wait(timeout time.Duration, onStall func(time.Duration)) {
	if timeout <= 0 {
		p.barrier.Wait()
		return
	}
	done := make(chan struct{})
	go func() {
		p.barrier.Wait()
		close(done)
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		onStall(timeout)
		<-done
	}
}

// stop terminates idle workers. It must not be called while jobs are
// outstanding.
func (p *pool) stop() error {
	p.cancel()
	return p.group.Wait()
}
