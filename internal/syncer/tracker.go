package syncer

import (
	"context"
	"time"

	"github.com/scrpay/txsync-backend/internal/models"
	repo "github.com/scrpay/txsync-backend/internal/repository"
)

// defaultLookback bounds the first-ever fetch window.
const defaultLookback = 7 * 24 * time.Hour

// Tracker records the lifecycle of synchronization runs and hands the last
// successful watermark to the next run.
type Tracker struct {
	runs repo.SyncRuns
}

func NewTracker(runs repo.SyncRuns) *Tracker {
	return &Tracker{runs: runs}
}

// Start inserts a running row. The wall clock is only a placeholder
// watermark; Complete overwrites it with the window end.
func (t *Tracker) Start(ctx context.Context) (models.SyncRun, error) {
	return t.runs.Create(ctx, time.Now().UTC())
}

// Complete and Fail transition one run to its terminal state. Each must be
// called at most once per run; that is the engine's responsibility.
func (t *Tracker) Complete(ctx context.Context, id int64, processed int, watermark time.Time) error {
	return t.runs.Complete(ctx, id, processed, watermark)
}

func (t *Tracker) Fail(ctx context.Context, id int64, errorMessage string) error {
	return t.runs.Fail(ctx, id, errorMessage)
}

// LastCompletedWatermark returns where the previous successful run left off,
// or now-7d when the history is empty.
func (t *Tracker) LastCompletedWatermark(ctx context.Context) (time.Time, error) {
	run, ok, err := t.runs.LastCompleted(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Now().UTC().Add(-defaultLookback), nil
	}
	return run.LastSyncDate, nil
}
