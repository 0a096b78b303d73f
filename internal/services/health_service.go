package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scrpay/txsync-backend/internal/models"
	repo "github.com/scrpay/txsync-backend/internal/repository"
)

// staleAfter marks synchronization as degraded when no run has happened for
// this long.
const staleAfter = 5 * time.Minute

type SyncHealth struct {
	Status                string     `json:"status"` // healthy|warning|critical
	LastSyncDate          *time.Time `json:"last_sync_date,omitempty"`
	LastSyncStatus        string     `json:"last_sync_status,omitempty"`
	MinutesSinceLastSync  int        `json:"minutes_since_last_sync"`
	TransactionsProcessed int        `json:"transactions_processed"`
	ErrorMessage          *string    `json:"error_message,omitempty"`
}

type Health struct {
	Status          string     `json:"status"` // up|down
	Timestamp       time.Time  `json:"timestamp"`
	Database        string     `json:"database"`
	Synchronization SyncHealth `json:"synchronization"`
	Transactions    int64      `json:"transactions"`
	Users           int64      `json:"users"`
}

type HealthService struct {
	pool *pgxpool.Pool
	runs repo.SyncRuns
	txs  repo.Transactions
	aggs repo.Aggregates
}

func NewHealthService(pool *pgxpool.Pool, runs repo.SyncRuns, txs repo.Transactions, aggs repo.Aggregates) *HealthService {
	return &HealthService{pool: pool, runs: runs, txs: txs, aggs: aggs}
}

// Status is what an operator needs without log access: is the DB reachable,
// when did the last sync run, and did it fail.
func (s *HealthService) Status(ctx context.Context) Health {
	h := Health{Status: "up", Timestamp: time.Now().UTC(), Database: "up"}

	if err := s.pool.Ping(ctx); err != nil {
		h.Status = "down"
		h.Database = "down"
		return h
	}

	h.Synchronization = s.syncHealth(ctx)
	if h.Synchronization.Status == "critical" {
		h.Status = "down"
	}

	if n, err := s.txs.Count(ctx); err == nil {
		h.Transactions = n
	}
	if n, err := s.aggs.Count(ctx); err == nil {
		h.Users = n
	}
	return h
}

func (s *HealthService) syncHealth(ctx context.Context) SyncHealth {
	run, ok, err := s.runs.Latest(ctx)
	if err != nil {
		return SyncHealth{Status: "critical"}
	}
	if !ok {
		return SyncHealth{Status: "warning"}
	}

	since := int(time.Since(run.CreatedAt).Minutes())
	status := "healthy"
	if run.Status == models.SyncFailed {
		status = "critical"
	} else if time.Since(run.CreatedAt) > staleAfter {
		status = "warning"
	}

	return SyncHealth{
		Status:                status,
		LastSyncDate:          &run.LastSyncDate,
		LastSyncStatus:        string(run.Status),
		MinutesSinceLastSync:  since,
		TransactionsProcessed: run.TransactionsProcessed,
		ErrorMessage:          run.ErrorMessage,
	}
}
