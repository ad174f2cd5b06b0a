package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de estoque.
type MovementType string

// Tipos de movimiento.
const (
	MovementEntrada MovementType = "entrada" // entrada de material, lleva precio unitario
	MovementSaida   MovementType = "saida"   // salida de material, sin precio
)

// Valid indica si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	return t == MovementEntrada || t == MovementSaida
}

// MovementEntry es un registro del ledger. Una vez persistido nunca se modifica.
// UnitPrice es nil en las salidas.
type MovementEntry struct {
	ID         int64
	BatchID    string
	MaterialID int64
	Type       MovementType
	Quantity   int64
	UnitPrice  *decimal.Decimal
	CreatedAt  time.Time
	CreatedBy  string
}

// MovementRequest es una línea de un lote solicitado por el cliente (unión etiquetada por Type).
type MovementRequest struct {
	MaterialID int64
	Type       MovementType
	Quantity   int64
	UnitPrice  *decimal.Decimal
}
