package inventory

import (
	"github.com/jhoicas/ecosystem-api/internal/application/dto"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
)

// ToBalanceResponse une el saldo con los datos descriptivos del material.
func ToBalanceResponse(b entity.Balance, m *entity.Material) dto.BalanceResponse {
	out := dto.BalanceResponse{
		MaterialID: b.MaterialID,
		Quantidade: b.Quantity,
		PrecoMedio: b.AveragePrice(),
		ValorTotal: b.TotalValue(),
	}
	if m != nil {
		out.Material = m.Nome
		out.Unidade = m.Unidade
	}
	return out
}

func toMovementResponse(e entity.MovementEntry) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            e.ID,
		BatchID:       e.BatchID,
		MaterialID:    e.MaterialID,
		Tipo:          string(e.Type),
		Quantidade:    e.Quantity,
		PrecoUnitario: e.UnitPrice,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
}
