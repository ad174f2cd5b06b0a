// Package analytics contiene el resumen del estoque para el dashboard.
package analytics

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecosystem-api/internal/application/dto"
)

// BalanceLister fuente de los saldos actuales (inventory.BalanceUseCase).
type BalanceLister interface {
	ListBalances(ctx context.Context) ([]dto.BalanceResponse, error)
}

// DashboardUseCase genera el resumen del estoque: valor total y materiales con saldo bajo.
type DashboardUseCase struct {
	balances  BalanceLister
	threshold int64
}

// NewDashboardUseCase construye el caso de uso. threshold <= 0 usa 10.
func NewDashboardUseCase(balances BalanceLister, threshold int64) *DashboardUseCase {
	if threshold <= 0 {
		threshold = 10
	}
	return &DashboardUseCase{balances: balances, threshold: threshold}
}

// GetSummary construye el DashboardSummaryDTO.
//
// ValorTotalEstoque = Σ quantidade × precoMedio de cada material.
// ItensBaixoEstoque incluye solo materiales con 0 < quantidade < limite; los
// agotados no cuentan como "bajos".
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	rows, err := uc.balances.ListBalances(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryDTO{
		TotalMateriais:     len(rows),
		ValorTotalEstoque:  decimal.Zero,
		LimiteBaixoEstoque: uc.threshold,
		ItensBaixoEstoque:  make([]dto.BalanceResponse, 0),
	}
	for _, r := range rows {
		if r.Quantidade <= 0 {
			continue
		}
		out.MateriaisComSaldo++
		out.ValorTotalEstoque = out.ValorTotalEstoque.Add(r.ValorTotal)
		if r.Quantidade < uc.threshold {
			out.ItensBaixoEstoque = append(out.ItensBaixoEstoque, r)
		}
	}
	out.ValorTotalEstoque = out.ValorTotalEstoque.Round(2)
	return out, nil
}
