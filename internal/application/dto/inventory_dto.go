package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLineRequest línea de entrada o salida. Preco es el alias enviado por el cliente móvil.
type MovementLineRequest struct {
	MaterialID    int64            `json:"materialId"`
	Quantidade    int64            `json:"quantidade"`
	PrecoUnitario *decimal.Decimal `json:"precoUnitario,omitempty"`
	Preco         *decimal.Decimal `json:"preco,omitempty"`
}

// UnitPrice devuelve PrecoUnitario o, en su defecto, Preco.
func (l MovementLineRequest) UnitPrice() *decimal.Decimal {
	if l.PrecoUnitario != nil {
		return l.PrecoUnitario
	}
	return l.Preco
}

// MovementBatchRequest body de POST /api/estoque/entrada y /api/estoque/saida.
type MovementBatchRequest struct {
	Movimentacoes []MovementLineRequest `json:"movimentacoes" validate:"required,min=1,max=200"`
}

// MovementResponse registro del ledger.
type MovementResponse struct {
	ID            int64            `json:"id"`
	BatchID       string           `json:"batchId"`
	MaterialID    int64            `json:"materialId"`
	Tipo          string           `json:"tipo"`
	Quantidade    int64            `json:"quantidade"`
	PrecoUnitario *decimal.Decimal `json:"precoUnitario,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	CreatedBy     string           `json:"createdBy,omitempty"`
}

// BalanceResponse saldo de un material (SaldoMaterial en el cliente).
type BalanceResponse struct {
	MaterialID int64           `json:"materialId"`
	Material   string          `json:"material"`
	Unidade    string          `json:"unidade"`
	Quantidade int64           `json:"quantidade"`
	PrecoMedio decimal.Decimal `json:"precoMedio"`
	ValorTotal decimal.Decimal `json:"valorTotal"`
}

// BatchResponse resultado de un lote confirmado.
type BatchResponse struct {
	BatchID       string             `json:"batchId"`
	Movimentacoes []MovementResponse `json:"movimentacoes"`
	Saldos        []BalanceResponse  `json:"saldos"`
}

// MovementListRequest filtros de GET /api/estoque/movimentacoes.
type MovementListRequest struct {
	MaterialID int64  `query:"materialId" validate:"min=0"`
	Tipo       string `query:"tipo" validate:"omitempty,oneof=entrada saida"`
	PageRequest
}
