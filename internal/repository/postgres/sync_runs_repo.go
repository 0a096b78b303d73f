package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scrpay/txsync-backend/internal/models"
)

type syncRunsRepo struct{ pool *pgxpool.Pool }

func (r *syncRunsRepo) Create(ctx context.Context, lastSyncDate time.Time) (models.SyncRun, error) {
	run := models.SyncRun{
		LastSyncDate: lastSyncDate,
		Status:       models.SyncRunning,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sync_runs (last_sync_date, status, transactions_processed)
		 VALUES ($1,$2,0)
		 RETURNING id, created_at`,
		lastSyncDate, models.SyncRunning,
	).Scan(&run.ID, &run.CreatedAt)
	return run, err
}

func (r *syncRunsRepo) Complete(ctx context.Context, id int64, processed int, lastSyncDate time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE sync_runs
		    SET status=$2, transactions_processed=$3, last_sync_date=$4, error_message=NULL
		  WHERE id=$1`,
		id, models.SyncCompleted, processed, lastSyncDate,
	)
	return err
}

func (r *syncRunsRepo) Fail(ctx context.Context, id int64, errorMessage string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE sync_runs SET status=$2, error_message=$3 WHERE id=$1`,
		id, models.SyncFailed, errorMessage,
	)
	return err
}

func (r *syncRunsRepo) LastCompleted(ctx context.Context) (models.SyncRun, bool, error) {
	return r.latestWhere(ctx,
		`SELECT id, last_sync_date, status, error_message, transactions_processed, created_at
		   FROM sync_runs
		  WHERE status=$1
		  ORDER BY created_at DESC
		  LIMIT 1`,
		models.SyncCompleted,
	)
}

func (r *syncRunsRepo) Latest(ctx context.Context) (models.SyncRun, bool, error) {
	return r.latestWhere(ctx,
		`SELECT id, last_sync_date, status, error_message, transactions_processed, created_at
		   FROM sync_runs
		  ORDER BY created_at DESC
		  LIMIT 1`,
	)
}

func (r *syncRunsRepo) latestWhere(ctx context.Context, q string, args ...any) (models.SyncRun, bool, error) {
	var run models.SyncRun
	err := r.pool.QueryRow(ctx, q, args...).
		Scan(&run.ID, &run.LastSyncDate, &run.Status, &run.ErrorMessage, &run.TransactionsProcessed, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.SyncRun{}, false, nil
	}
	if err != nil {
		return models.SyncRun{}, false, err
	}
	return run, true, nil
}

func (r *syncRunsRepo) ListRecent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, last_sync_date, status, error_message, transactions_processed, created_at
		   FROM sync_runs
		  ORDER BY created_at DESC
		  LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SyncRun
	for rows.Next() {
		var run models.SyncRun
		if err := rows.Scan(&run.ID, &run.LastSyncDate, &run.Status, &run.ErrorMessage, &run.TransactionsProcessed, &run.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
