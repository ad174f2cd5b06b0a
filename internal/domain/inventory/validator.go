package inventory

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
)

// ValidateLine aplica las reglas de un movimiento, en orden:
//  1. el material existe               -> ErrNotFound
//  2. cantidad > 0                     -> ErrValidation
//  3. entrada con precio > 0 y sin desbordar el saldo -> ErrValidation
//  4. salida sin precio y con saldo >= cantidad -> ErrValidation / ErrInsufficientStock
//
// Devuelve nil si la línea es válida frente a current.
func ValidateLine(idx int, line entity.MovementRequest, current entity.Balance, exists bool) *domain.LineError {
	if !exists {
		return domain.NewLineError(idx, line.MaterialID, domain.ErrNotFound, "material no encontrado")
	}
	if line.Quantity <= 0 {
		return domain.NewLineError(idx, line.MaterialID, domain.ErrValidation, "la cantidad debe ser mayor que cero")
	}
	switch line.Type {
	case entity.MovementEntrada:
		if line.UnitPrice == nil || !line.UnitPrice.GreaterThan(decimal.Zero) {
			return domain.NewLineError(idx, line.MaterialID, domain.ErrValidation, "el precio unitario debe ser mayor que cero")
		}
		// Quantity y EntradaQty son int64: la suma no puede pasar de MaxInt64
		if current.Quantity > math.MaxInt64-line.Quantity || current.EntradaQty > math.MaxInt64-line.Quantity {
			return domain.NewLineError(idx, line.MaterialID, domain.ErrValidation,
				fmt.Sprintf("la entrada de %d excede el saldo máximo admitido", line.Quantity))
		}
	case entity.MovementSaida:
		if line.UnitPrice != nil {
			return domain.NewLineError(idx, line.MaterialID, domain.ErrValidation, "una salida no lleva precio unitario")
		}
		if current.Quantity < line.Quantity {
			return domain.NewLineError(idx, line.MaterialID, domain.ErrInsufficientStock,
				fmt.Sprintf("saldo %d insuficiente para salida de %d", current.Quantity, line.Quantity))
		}
	default:
		return domain.NewLineError(idx, line.MaterialID, domain.ErrValidation, fmt.Sprintf("tipo de movimiento desconocido %q", line.Type))
	}
	return nil
}
