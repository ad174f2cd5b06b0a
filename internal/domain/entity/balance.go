package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance es el saldo derivado del ledger para un material.
//
// EntradaQty y EntradaValue acumulan solo las entradas: el precio medio se
// obtiene dividiendo ambos, de modo que las salidas no lo alteran y no hay
// deriva de redondeo al encadenar muchas entradas pequeñas.
type Balance struct {
	MaterialID   int64
	Quantity     int64
	EntradaQty   int64
	EntradaValue decimal.Decimal
	UpdatedAt    time.Time
}

// PriceScale número de decimales con que se expone el precio medio.
const PriceScale = 4

// AveragePrice devuelve Σ(q×p)/Σq de las entradas, 0 si no hubo entradas.
func (b Balance) AveragePrice() decimal.Decimal {
	if b.EntradaQty <= 0 {
		return decimal.Zero
	}
	return b.EntradaValue.DivRound(decimal.NewFromInt(b.EntradaQty), PriceScale)
}

// TotalValue valor del stock actual al precio medio.
func (b Balance) TotalValue() decimal.Decimal {
	return b.AveragePrice().Mul(decimal.NewFromInt(b.Quantity)).Round(2)
}

// Apply incorpora un movimiento al saldo (forma incremental del proyector).
func (b *Balance) Apply(e MovementEntry) {
	switch e.Type {
	case MovementEntrada:
		b.Quantity += e.Quantity
		b.EntradaQty += e.Quantity
		if e.UnitPrice != nil {
			b.EntradaValue = b.EntradaValue.Add(e.UnitPrice.Mul(decimal.NewFromInt(e.Quantity)))
		}
	case MovementSaida:
		b.Quantity -= e.Quantity
	}
	if e.CreatedAt.After(b.UpdatedAt) {
		b.UpdatedAt = e.CreatedAt
	}
}
