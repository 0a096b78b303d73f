package services

import (
	"context"
	"log/slog"

	"github.com/scrpay/txsync-backend/internal/models"
	repo "github.com/scrpay/txsync-backend/internal/repository"
	"github.com/scrpay/txsync-backend/internal/worker"
)

type PayoutService struct {
	payouts repo.PayoutRequests
	wp      *worker.Pool
	log     *slog.Logger
}

func NewPayoutService(payouts repo.PayoutRequests, wp *worker.Pool, log *slog.Logger) *PayoutService {
	return &PayoutService{payouts: payouts, wp: wp, log: log.With("component", "payout_service")}
}

// PendingTotals aggregates pending payout amounts into one figure per user.
func (s *PayoutService) PendingTotals(ctx context.Context) ([]models.PayoutTotal, error) {
	return s.payouts.PendingTotals(ctx)
}

func (s *PayoutService) PendingTotalsForUser(ctx context.Context, userID string) ([]models.PayoutTotal, error) {
	return s.payouts.PendingTotalsForUser(ctx, userID)
}

func (s *PayoutService) PendingDetails(ctx context.Context, userID string) ([]models.PayoutRequest, error) {
	return s.payouts.ListPendingByUser(ctx, userID)
}

func (s *PayoutService) Stats(ctx context.Context) ([]models.PayoutStat, error) {
	return s.payouts.Stats(ctx)
}

// Process flips the request to processed. The write happens on the worker
// pool; real payment execution would hang off this hook, so the caller only
// gets an acknowledgement, not a completion.
func (s *PayoutService) Process(id int64) {
	s.wp.Submit(func() {
		if err := s.payouts.UpdateStatus(context.Background(), id, models.PayoutProcessed); err != nil {
			s.log.Error("mark payout processed", "payout_id", id, "err", err)
		}
	})
}
