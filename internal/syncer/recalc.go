package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scrpay/txsync-backend/internal/models"
	repo "github.com/scrpay/txsync-backend/internal/repository"
	"github.com/shopspring/decimal"
)

// Recalculator rebuilds every user aggregate from the full transaction log.
// A full recompute keeps the projection exactly reproducible from the log no
// matter what partial runs or manual data fixes happened in between.
type Recalculator struct {
	txs  repo.Transactions
	aggs repo.Aggregates
	log  *slog.Logger
}

func NewRecalculator(txs repo.Transactions, aggs repo.Aggregates, log *slog.Logger) *Recalculator {
	return &Recalculator{txs: txs, aggs: aggs, log: log.With("component", "recalculator")}
}

func (r *Recalculator) RecomputeAll(ctx context.Context) error {
	userIDs, err := r.txs.DistinctUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list user ids: %w", err)
	}

	for _, userID := range userIDs {
		if err := r.recomputeUser(ctx, userID); err != nil {
			return fmt.Errorf("recompute user %s: %w", userID, err)
		}
	}

	r.log.Debug("recomputed aggregates", "users", len(userIDs))
	return nil
}

func (r *Recalculator) recomputeUser(ctx context.Context, userID string) error {
	totals, err := r.txs.SumByType(ctx, userID)
	if err != nil {
		return err
	}

	return r.aggs.Upsert(ctx, models.UserAggregate{
		UserID:  userID,
		Balance: totals.Earned.Sub(totals.Spent).Sub(totals.Payout),
		Earned:  totals.Earned,
		Spent:   totals.Spent,
		Payout:  totals.Payout,
		// Processing a payout request flips its status only; nothing moves
		// into paid_out yet.
		PaidOut: decimal.Zero,
	})
}
