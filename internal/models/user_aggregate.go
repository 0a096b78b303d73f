package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserAggregate is the derived per-user projection over the transaction log.
// Invariant after every successful recompute: Balance = Earned - Spent - Payout.
// The sync engine is the only writer.
type UserAggregate struct {
	UserID      string          `json:"user_id"`
	Balance     decimal.Decimal `json:"balance"`
	Earned      decimal.Decimal `json:"earned"`
	Spent       decimal.Decimal `json:"spent"`
	Payout      decimal.Decimal `json:"payout"`
	PaidOut     decimal.Decimal `json:"paid_out"`
	LastUpdated time.Time       `json:"last_updated"`
}
