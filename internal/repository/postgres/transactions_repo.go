package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scrpay/txsync-backend/internal/models"
	"github.com/shopspring/decimal"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

func (r *transactionsRepo) ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM transactions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

// CommitPage runs all inserts for one page in a single DB transaction so a
// payout transaction can never become durable without its payout request.
func (r *transactionsRepo) CommitPage(ctx context.Context, txs []models.Transaction, payouts []models.PayoutRequest) error {
	dbtx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	defer func() { _ = dbtx.Rollback(ctx) }()

	for _, t := range txs {
		if _, err := dbtx.Exec(ctx,
			`INSERT INTO transactions (id, user_id, created_at, type, amount)
			 VALUES ($1,$2,$3,$4,$5)`,
			t.ID, t.UserID, t.CreatedAt, t.Type, t.Amount,
		); err != nil {
			return err
		}
	}
	for _, p := range payouts {
		if _, err := dbtx.Exec(ctx,
			`INSERT INTO payout_requests (user_id, transaction_id, amount, created_at, status)
			 VALUES ($1,$2,$3,$4,$5)`,
			p.UserID, p.TransactionID, p.Amount, p.CreatedAt, p.Status,
		); err != nil {
			return err
		}
	}
	return dbtx.Commit(ctx)
}

func (r *transactionsRepo) DistinctUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT user_id FROM transactions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) SumByType(ctx context.Context, userID string) (models.TypeTotals, error) {
	totals := models.TypeTotals{
		Earned: decimal.Zero,
		Spent:  decimal.Zero,
		Payout: decimal.Zero,
	}
	rows, err := r.pool.Query(ctx,
		`SELECT type, COALESCE(SUM(amount), 0)
		   FROM transactions
		  WHERE user_id=$1
		  GROUP BY type`,
		userID,
	)
	if err != nil {
		return totals, err
	}
	defer rows.Close()

	for rows.Next() {
		var typ models.TransactionType
		var sum decimal.Decimal
		if err := rows.Scan(&typ, &sum); err != nil {
			return totals, err
		}
		switch typ {
		case models.TxnEarned:
			totals.Earned = sum
		case models.TxnSpent:
			totals.Spent = sum
		case models.TxnPayout:
			totals.Payout = sum
		}
	}
	return totals, rows.Err()
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, created_at, type, amount, processed_at
		   FROM transactions
		  WHERE user_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.Type, &t.Amount, &t.ProcessedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n)
	return n, err
}
