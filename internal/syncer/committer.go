package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scrpay/txsync-backend/internal/models"
	repo "github.com/scrpay/txsync-backend/internal/repository"
	"github.com/scrpay/txsync-backend/internal/source"
)

// Committer persists one fetched page. Records whose id is already stored are
// skipped silently; upstream windows overlap after a failed run, so re-seeing
// a transaction is expected, not an error.
type Committer struct {
	txs repo.Transactions
	log *slog.Logger
}

func NewCommitter(txs repo.Transactions, log *slog.Logger) *Committer {
	return &Committer{txs: txs, log: log.With("component", "committer")}
}

// Commit returns the number of newly inserted transactions. All inserts for
// the page go through one atomic storage commit, so a payout transaction can
// never land without its pending PayoutRequest.
func (c *Committer) Commit(ctx context.Context, items []source.TransactionRecord) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	existing, err := c.txs.ExistingIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("lookup existing ids: %w", err)
	}

	var (
		newTxs  []models.Transaction
		payouts []models.PayoutRequest
		seen    = make(map[string]struct{}, len(items))
	)
	for _, it := range items {
		if _, ok := existing[it.ID]; ok {
			continue
		}
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}

		typ, err := models.ParseTransactionType(it.Type)
		if err != nil {
			return 0, fmt.Errorf("record %s: %w", it.ID, err)
		}

		newTxs = append(newTxs, models.Transaction{
			ID:        it.ID,
			UserID:    it.UserID,
			CreatedAt: it.CreatedAt,
			Type:      typ,
			Amount:    it.Amount,
		})
		if typ == models.TxnPayout {
			payouts = append(payouts, models.PayoutRequest{
				UserID:        it.UserID,
				TransactionID: it.ID,
				Amount:        it.Amount,
				CreatedAt:     it.CreatedAt,
				Status:        models.PayoutPending,
			})
		}
	}

	if len(newTxs) == 0 {
		c.log.Debug("page contained no new transactions", "items", len(items))
		return 0, nil
	}

	if err := c.txs.CommitPage(ctx, newTxs, payouts); err != nil {
		return 0, fmt.Errorf("commit page: %w", err)
	}
	return len(newTxs), nil
}
