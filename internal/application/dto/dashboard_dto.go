package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/resumo.
type DashboardSummaryDTO struct {
	TotalMateriais     int               `json:"totalMateriais"`
	MateriaisComSaldo  int               `json:"materiaisComSaldo"`
	ValorTotalEstoque  decimal.Decimal   `json:"valorTotalEstoque"`
	LimiteBaixoEstoque int64             `json:"limiteBaixoEstoque"`
	ItensBaixoEstoque  []BalanceResponse `json:"itensBaixoEstoque"` // 0 < quantidade < limite
}
