package syncer

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Scheduler drives the engine on a fixed interval from a single goroutine,
// which is what keeps the single-writer assumption true in normal operation.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	log      *slog.Logger
}

func NewScheduler(engine *Engine, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{engine: engine, interval: interval, log: log.With("component", "scheduler")}
}

// Start blocks until ctx is cancelled. Run it in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			if err := s.engine.Run(ctx); err != nil {
				if errors.Is(err, ErrAlreadyRunning) {
					s.log.Warn("skipping tick, previous run still in flight")
					continue
				}
				// Already recorded on the run row; next tick retries the window.
				s.log.Error("scheduled sync failed", "err", err)
			}
		}
	}
}
