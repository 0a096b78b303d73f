package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxnEarned TransactionType = "earned"
	TxnSpent  TransactionType = "spent"
	TxnPayout TransactionType = "payout"
)

// ParseTransactionType rejects anything outside the closed set. The upstream
// feed is not trusted to only send known types.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TxnEarned, TxnSpent, TxnPayout:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Transaction is an immutable fact record from the upstream feed. ID is
// assigned by the source and is the dedup key; rows are never updated or
// deleted once stored.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// TypeTotals holds the per-type sums for one user.
type TypeTotals struct {
	Earned decimal.Decimal
	Spent  decimal.Decimal
	Payout decimal.Decimal
}
