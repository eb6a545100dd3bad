package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/wingman-crm/pkg/money"
)

func TestFromCentsToCents(t *testing.T) {
	assert.True(t, decimal.NewFromInt(100000).Equal(money.FromCents(10000000)))
	assert.Equal(t, int64(10000000), money.ToCents(decimal.NewFromInt(100000)))
}

func TestFormatCOP(t *testing.T) {
	assert.Equal(t, "$100.000 COP", money.FormatCOP(decimal.NewFromInt(100000)))
	assert.Equal(t, "$15.000 COP", money.FormatCOP(decimal.RequireFromString("15000.00")))
}
