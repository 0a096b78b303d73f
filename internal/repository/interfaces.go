package repository

import (
	"context"
	"time"

	"github.com/scrpay/txsync-backend/internal/models"
)

type Transactions interface {
	// ExistingIDs returns which of the given ids are already stored.
	ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error)

	// CommitPage persists one page's new transactions and their paired payout
	// requests as a single atomic unit: all rows or none.
	CommitPage(ctx context.Context, txs []models.Transaction, payouts []models.PayoutRequest) error

	DistinctUserIDs(ctx context.Context) ([]string, error)
	SumByType(ctx context.Context, userID string) (models.TypeTotals, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
	Count(ctx context.Context) (int64, error)
}

type PayoutRequests interface {
	PendingTotals(ctx context.Context) ([]models.PayoutTotal, error)
	PendingTotalsForUser(ctx context.Context, userID string) ([]models.PayoutTotal, error)
	ListPendingByUser(ctx context.Context, userID string) ([]models.PayoutRequest, error)
	UpdateStatus(ctx context.Context, id int64, status models.PayoutStatus) error
	Stats(ctx context.Context) ([]models.PayoutStat, error)
}

type Aggregates interface {
	Upsert(ctx context.Context, a models.UserAggregate) error
	Get(ctx context.Context, userID string) (models.UserAggregate, error)
	GetMany(ctx context.Context, userIDs []string) ([]models.UserAggregate, error)
	Count(ctx context.Context) (int64, error)
}

type SyncRuns interface {
	// Create inserts a running row stamped with the given placeholder
	// watermark and returns it with id and created_at filled in.
	Create(ctx context.Context, lastSyncDate time.Time) (models.SyncRun, error)

	Complete(ctx context.Context, id int64, processed int, lastSyncDate time.Time) error
	Fail(ctx context.Context, id int64, errorMessage string) error

	// LastCompleted returns the most recent completed run, ok=false if none.
	LastCompleted(ctx context.Context) (models.SyncRun, bool, error)
	Latest(ctx context.Context) (models.SyncRun, bool, error)
	ListRecent(ctx context.Context, limit int) ([]models.SyncRun, error)
}
