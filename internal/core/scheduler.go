// Package core
package core

import (
	"context"
	"sync"
	"time"

	"pulseboard/internal/domain"
	"pulseboard/internal/logger"
)

type SampleFunc func(ctx context.Context) (domain.Snapshot, error)
type SinkFunc func(domain.Snapshot)

// Scheduler drives periodic sampling. Start replaces any running loop, so
// restarting always adopts the newest interval; Stop is a no-op when idle.
// A failed tick is logged and dropped, the loop keeps running.
type Scheduler struct {
	log    logger.Logger
	sample SampleFunc
	sink   SinkFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(log logger.Logger, sample SampleFunc, sink SinkFunc) *Scheduler {
	return &Scheduler{log: log, sample: sample, sink: sink}
}

func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.run(runCtx, interval, done)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// stopLocked cancels the loop and waits for it to drain so the ticker is
// released before a replacement starts.
func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	snap, err := s.sample(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error("sampling tick failed, retrying next tick", "error", err)
		}
		return
	}
	// A sample that finishes after Stop is discarded rather than delivered
	// late; the next Start produces fresh data. At-most-once per tick.
	if ctx.Err() != nil {
		return
	}
	s.sink(snap)
}
