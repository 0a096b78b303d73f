package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTransactionType(t *testing.T) {
	for _, s := range []string{"earned", "spent", "payout"} {
		typ, err := ParseTransactionType(s)
		assert.NoError(t, err)
		assert.Equal(t, TransactionType(s), typ)
	}

	_, err := ParseTransactionType("bonus")
	assert.Error(t, err)

	_, err = ParseTransactionType("EARNED")
	assert.Error(t, err, "types are case sensitive")
}
