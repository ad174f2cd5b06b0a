package inventory

import (
	"context"

	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
)

// TxFunc recibe repositorios atados a una misma transacción.
type TxFunc func(
	materials repository.MaterialRepository,
	movements repository.MovementRepository,
	balances repository.BalanceRepository,
) error

// TxRunner ejecuta una función dentro de una transacción de BD.
// Garantiza atomicidad para el ledger y la tabla de saldos.
type TxRunner interface {
	// Run abre una transacción de escritura: Commit si fn devuelve nil, Rollback en otro caso.
	Run(ctx context.Context, fn TxFunc) error
	// ReadOnly abre una transacción de solo lectura con una vista consistente.
	ReadOnly(ctx context.Context, fn TxFunc) error
}

// Metrics registra el resultado de los lotes (implementado con Prometheus).
type Metrics interface {
	BatchCommitted(tipo string, lines int)
	BatchRejected(tipo, reason string)
}

type nopMetrics struct{}

func (nopMetrics) BatchCommitted(string, int)   {}
func (nopMetrics) BatchRejected(string, string) {}
