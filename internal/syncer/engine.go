// Package syncer pulls transactions from the external feed into local
// storage, derives per-user aggregates, and records every run's outcome.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/scrpay/txsync-backend/internal/metrics"
	"github.com/scrpay/txsync-backend/internal/source"
)

// ErrAlreadyRunning is returned when Run is called while a previous run is
// still in flight. Only one run may write at a time.
var ErrAlreadyRunning = errors.New("sync already running")

const (
	defaultMaxPerRun = 1000
	pageSizeCap      = 1000
)

type Engine struct {
	source    source.Client
	limiter   *RateLimiter
	committer *Committer
	recalc    *Recalculator
	tracker   *Tracker
	maxPerRun int
	log       *slog.Logger

	runMu sync.Mutex
}

func NewEngine(src source.Client, limiter *RateLimiter, committer *Committer, recalc *Recalculator, tracker *Tracker, maxPerRun int, log *slog.Logger) *Engine {
	if maxPerRun <= 0 {
		maxPerRun = defaultMaxPerRun
	}
	return &Engine{
		source:    src,
		limiter:   limiter,
		committer: committer,
		recalc:    recalc,
		tracker:   tracker,
		maxPerRun: maxPerRun,
		log:       log.With("component", "sync_engine"),
	}
}

// Run performs one full synchronization pass. Any failure finalizes the run
// record as failed with the error message and leaves the watermark where it
// was, so the next run re-covers the same window; page commits are
// idempotent, so the overlap is harmless.
func (e *Engine) Run(ctx context.Context) error {
	if !e.runMu.TryLock() {
		return ErrAlreadyRunning
	}
	defer e.runMu.Unlock()

	run, err := e.tracker.Start(ctx)
	if err != nil {
		return fmt.Errorf("start sync run: %w", err)
	}

	e.log.Info("synchronization started", "run_id", run.ID)

	processed, watermark, err := e.sync(ctx)
	if err != nil {
		e.log.Error("synchronization failed", "run_id", run.ID, "err", err)
		if ferr := e.tracker.Fail(ctx, run.ID, err.Error()); ferr != nil {
			e.log.Error("failed to finalize sync run", "run_id", run.ID, "err", ferr)
		}
		metrics.SyncRunsTotal.WithLabelValues("failed").Inc()
		return err
	}

	if err := e.tracker.Complete(ctx, run.ID, processed, watermark); err != nil {
		metrics.SyncRunsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("finalize sync run: %w", err)
	}

	metrics.SyncRunsTotal.WithLabelValues("completed").Inc()
	metrics.SyncTransactionsTotal.Add(float64(processed))
	e.log.Info("synchronization completed", "run_id", run.ID, "transactions", processed)
	return nil
}

func (e *Engine) sync(ctx context.Context) (int, time.Time, error) {
	start, err := e.tracker.LastCompletedWatermark(ctx)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("load watermark: %w", err)
	}
	// Captured once so the window does not drift while paging.
	end := time.Now().UTC()

	total := 0
	page := 1

	for total < e.maxPerRun {
		if err := e.limiter.Acquire(ctx); err != nil {
			return 0, time.Time{}, fmt.Errorf("rate limiter: %w", err)
		}

		limit := e.maxPerRun - total
		if limit > pageSizeCap {
			limit = pageSizeCap
		}

		resp, err := e.source.FetchPage(ctx, start, end, page, limit)
		if err != nil {
			return 0, time.Time{}, fmt.Errorf("fetch page %d: %w", page, err)
		}
		metrics.SyncPagesFetched.Inc()

		if len(resp.Items) == 0 {
			break
		}

		n, err := e.committer.Commit(ctx, resp.Items)
		if err != nil {
			return 0, time.Time{}, fmt.Errorf("page %d: %w", page, err)
		}
		total += n

		e.log.Debug("page committed", "page", page, "new_transactions", n)

		if page >= resp.Meta.TotalPages {
			break
		}
		page++
	}

	// Always recompute, even for an empty run, so out-of-band data changes
	// still land in the aggregates.
	if err := e.recalc.RecomputeAll(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("recompute aggregates: %w", err)
	}

	return total, end, nil
}
