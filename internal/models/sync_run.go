package models

import "time"

type SyncRunStatus string

const (
	SyncRunning   SyncRunStatus = "running"
	SyncCompleted SyncRunStatus = "completed"
	SyncFailed    SyncRunStatus = "failed"
)

// SyncRun is one row of the append-only synchronization history. A run is
// created in running state and finalized exactly once to completed or failed.
type SyncRun struct {
	ID                    int64         `json:"id"`
	LastSyncDate          time.Time     `json:"last_sync_date"`
	Status                SyncRunStatus `json:"status"`
	ErrorMessage          *string       `json:"error_message,omitempty"`
	TransactionsProcessed int           `json:"transactions_processed"`
	CreatedAt             time.Time     `json:"created_at"`
}
