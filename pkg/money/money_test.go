package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ecosystem-api/pkg/money"
)

func TestBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", money.BRL(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "R$ 6,00", money.BRL(decimal.NewFromInt(6)))
	assert.Equal(t, "R$ 0,24", money.BRL(decimal.RequireFromString("0.2381")))
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, "1.500", money.Quantity(1500))
	assert.Equal(t, "7", money.Quantity(7))
}
