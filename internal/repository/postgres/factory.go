package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	repo "github.com/scrpay/txsync-backend/internal/repository"
)

type Repositories struct {
	Transactions   repo.Transactions
	PayoutRequests repo.PayoutRequests
	Aggregates     repo.Aggregates
	SyncRuns       repo.SyncRuns
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Transactions:   &transactionsRepo{pool},
		PayoutRequests: &payoutRequestsRepo{pool},
		Aggregates:     &aggregatesRepo{pool},
		SyncRuns:       &syncRunsRepo{pool},
	}
}
