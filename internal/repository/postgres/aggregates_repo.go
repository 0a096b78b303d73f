package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scrpay/txsync-backend/internal/models"
)

type aggregatesRepo struct{ pool *pgxpool.Pool }

func (r *aggregatesRepo) Upsert(ctx context.Context, a models.UserAggregate) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_aggregates (user_id, balance, earned, spent, payout, paid_out, last_updated)
		 VALUES ($1,$2,$3,$4,$5,$6, now())
		 ON CONFLICT (user_id) DO UPDATE
		 SET balance=EXCLUDED.balance,
		     earned=EXCLUDED.earned,
		     spent=EXCLUDED.spent,
		     payout=EXCLUDED.payout,
		     paid_out=EXCLUDED.paid_out,
		     last_updated=now()`,
		a.UserID, a.Balance, a.Earned, a.Spent, a.Payout, a.PaidOut,
	)
	return err
}

func (r *aggregatesRepo) Get(ctx context.Context, userID string) (models.UserAggregate, error) {
	var a models.UserAggregate
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, balance, earned, spent, payout, paid_out, last_updated
		   FROM user_aggregates
		  WHERE user_id=$1`,
		userID,
	).Scan(&a.UserID, &a.Balance, &a.Earned, &a.Spent, &a.Payout, &a.PaidOut, &a.LastUpdated)
	return a, err
}

func (r *aggregatesRepo) GetMany(ctx context.Context, userIDs []string) ([]models.UserAggregate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, balance, earned, spent, payout, paid_out, last_updated
		   FROM user_aggregates
		  WHERE user_id = ANY($1)`,
		userIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserAggregate
	for rows.Next() {
		var a models.UserAggregate
		if err := rows.Scan(&a.UserID, &a.Balance, &a.Earned, &a.Spent, &a.Payout, &a.PaidOut, &a.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *aggregatesRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_aggregates`).Scan(&n)
	return n, err
}
