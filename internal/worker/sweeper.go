package worker

import (
	"context"
	"time"

	"fitzone/internal/logger"
)

// Sweeper runs a maintenance task on a fixed interval until its context ends.
type Sweeper struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) (int64, error)
}

// NewSweeper builds a sweeper. task returns how many rows it touched.
func NewSweeper(name string, interval time.Duration, task func(ctx context.Context) (int64, error)) *Sweeper {
	return &Sweeper{name: name, interval: interval, task: task}
}

// Start blocks, running the task once immediately and then on every tick.
func (s *Sweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		logger.Warn("sweeper disabled", "sweeper", s.name)
		return
	}

	logger.Info("sweeper started", "sweeper", s.name, "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.RunOnce(ctx)
		select {
		case <-ctx.Done():
			logger.Info("sweeper stopped", "sweeper", s.name)
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) RunOnce(ctx context.Context) int64 {
	n, err := s.task(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.WithError(err).Error("sweep failed", "sweeper", s.name)
		}
		return 0
	}
	if n > 0 {
		logger.Info("sweep finished", "sweeper", s.name, "rows", n)
	}
	return n
}
