package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scrpay/txsync-backend/internal/models"
)

type payoutRequestsRepo struct{ pool *pgxpool.Pool }

func (r *payoutRequestsRepo) PendingTotals(ctx context.Context) ([]models.PayoutTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, SUM(amount) AS total_amount
		   FROM payout_requests
		  WHERE status=$1
		  GROUP BY user_id
		  ORDER BY total_amount DESC`,
		models.PayoutPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PayoutTotal
	for rows.Next() {
		var t models.PayoutTotal
		if err := rows.Scan(&t.UserID, &t.TotalAmount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *payoutRequestsRepo) PendingTotalsForUser(ctx context.Context, userID string) ([]models.PayoutTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, SUM(amount) AS total_amount
		   FROM payout_requests
		  WHERE user_id=$1 AND status=$2
		  GROUP BY user_id`,
		userID, models.PayoutPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PayoutTotal
	for rows.Next() {
		var t models.PayoutTotal
		if err := rows.Scan(&t.UserID, &t.TotalAmount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *payoutRequestsRepo) ListPendingByUser(ctx context.Context, userID string) ([]models.PayoutRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, transaction_id, amount, created_at, status
		   FROM payout_requests
		  WHERE user_id=$1 AND status=$2
		  ORDER BY created_at DESC`,
		userID, models.PayoutPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PayoutRequest
	for rows.Next() {
		var p models.PayoutRequest
		if err := rows.Scan(&p.ID, &p.UserID, &p.TransactionID, &p.Amount, &p.CreatedAt, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *payoutRequestsRepo) UpdateStatus(ctx context.Context, id int64, status models.PayoutStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE payout_requests SET status=$2 WHERE id=$1`,
		id, status,
	)
	return err
}

func (r *payoutRequestsRepo) Stats(ctx context.Context) ([]models.PayoutStat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(amount), 0)
		   FROM payout_requests
		  GROUP BY status`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PayoutStat
	for rows.Next() {
		var s models.PayoutStat
		if err := rows.Scan(&s.Status, &s.Count, &s.TotalAmount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
