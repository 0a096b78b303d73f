package syncer

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/scrpay/txsync-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func seedTxn(store *memStore, id, userID string, typ models.TransactionType, amount string) {
	store.txs[id] = models.Transaction{
		ID:        id,
		UserID:    userID,
		Type:      typ,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: time.Now().UTC(),
	}
}

func TestRecalculator_BalanceInvariant(t *testing.T) {
	store := newMemStore()
	seedTxn(store, "1", "U1", models.TxnEarned, "100.50")
	seedTxn(store, "2", "U1", models.TxnEarned, "20.25")
	seedTxn(store, "3", "U1", models.TxnSpent, "30.00")
	seedTxn(store, "4", "U1", models.TxnPayout, "15.75")
	seedTxn(store, "5", "U2", models.TxnSpent, "5.00")

	r := NewRecalculator(store, aggStore{store}, testLogger())
	assert.NoError(t, r.RecomputeAll(context.Background()))

	for userID, agg := range store.aggs {
		want := agg.Earned.Sub(agg.Spent).Sub(agg.Payout)
		assert.True(t, agg.Balance.Equal(want), "user %s: balance %s != %s", userID, agg.Balance, want)
		assert.True(t, agg.PaidOut.IsZero())
	}

	u1 := store.aggs["U1"]
	assert.True(t, u1.Balance.Equal(decimal.RequireFromString("75.00")), "U1 balance = %s", u1.Balance)

	u2 := store.aggs["U2"]
	assert.True(t, u2.Balance.Equal(decimal.RequireFromString("-5.00")), "spent-only users can go negative")
}

func TestRecalculator_OverwritesStaleAggregate(t *testing.T) {
	store := newMemStore()
	store.aggs["U1"] = models.UserAggregate{
		UserID:  "U1",
		Balance: decimal.RequireFromString("999.99"),
		Earned:  decimal.RequireFromString("999.99"),
	}
	seedTxn(store, "1", "U1", models.TxnEarned, "10.00")

	r := NewRecalculator(store, aggStore{store}, testLogger())
	assert.NoError(t, r.RecomputeAll(context.Background()))

	u1 := store.aggs["U1"]
	assert.True(t, u1.Earned.Equal(decimal.RequireFromString("10.00")), "full recompute, not a delta")
	assert.True(t, u1.Balance.Equal(decimal.RequireFromString("10.00")))
}

func TestRecalculator_OneRowPerUser(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 20; i++ {
		user := "U" + strconv.Itoa(i%4)
		seedTxn(store, strconv.Itoa(i), user, models.TxnEarned, "1.00")
	}

	r := NewRecalculator(store, aggStore{store}, testLogger())
	assert.NoError(t, r.RecomputeAll(context.Background()))
	assert.Len(t, store.aggs, 4)
}
