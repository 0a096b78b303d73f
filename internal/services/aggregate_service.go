package services

import (
	"context"

	"github.com/scrpay/txsync-backend/internal/models"
	repo "github.com/scrpay/txsync-backend/internal/repository"
)

// AggregateService is the read side of the user projection. Writes happen
// only inside the sync engine's recompute.
type AggregateService struct {
	aggs repo.Aggregates
	txs  repo.Transactions
}

func NewAggregateService(aggs repo.Aggregates, txs repo.Transactions) *AggregateService {
	return &AggregateService{aggs: aggs, txs: txs}
}

func (s *AggregateService) Get(ctx context.Context, userID string) (models.UserAggregate, error) {
	return s.aggs.Get(ctx, userID)
}

func (s *AggregateService) GetMany(ctx context.Context, userIDs []string) ([]models.UserAggregate, error) {
	return s.aggs.GetMany(ctx, userIDs)
}

func (s *AggregateService) Transactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	return s.txs.ListByUser(ctx, userID, limit, offset)
}
