package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	assert.Nil(t, Required("user_id", "074092"))
	assert.NotNil(t, Required("user_id", ""))
	assert.NotNil(t, Required("user_id", "   "))
}

func TestMinInt(t *testing.T) {
	assert.Nil(t, MinInt("id", 5, 1))
	assert.NotNil(t, MinInt("id", 0, 1))
}

func TestISODate(t *testing.T) {
	assert.Nil(t, ISODate("startDate", "2026-08-31T12:00:00Z"))
	assert.NotNil(t, ISODate("startDate", "31/08/2026"))
}

func TestErrsError(t *testing.T) {
	errs := Errs{
		{Field: "a", Msg: "required"},
		{Field: "b", Msg: "must be >= 1"},
	}
	assert.Equal(t, "a: required; b: must be >= 1", errs.Error())
}
