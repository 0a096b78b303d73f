package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutProcessed PayoutStatus = "processed"
	PayoutFailed    PayoutStatus = "failed"
)

// PayoutRequest is created exactly once, together with its originating payout
// transaction. Only the status ever changes afterwards.
type PayoutRequest struct {
	ID            int64           `json:"id"`
	UserID        string          `json:"user_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
	Status        PayoutStatus    `json:"status"`
}

// PayoutTotal is the pending amount aggregated per user.
type PayoutTotal struct {
	UserID      string          `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PayoutStat counts and sums payout requests per status.
type PayoutStat struct {
	Status      PayoutStatus    `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
