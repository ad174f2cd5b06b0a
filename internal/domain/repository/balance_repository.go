package repository

import (
	"context"

	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
)

// BalanceRepository puerto de la tabla de saldos materializada, actualizada en la misma
// transacción que el ledger.
type BalanceRepository interface {
	// Init crea el saldo cero de un material recién creado.
	Init(ctx context.Context, materialID int64) error
	// LockForUpdate bloquea (SELECT FOR UPDATE) los saldos de los materiales activos indicados.
	// Los ids de materiales inexistentes o dados de baja no aparecen en el mapa.
	LockForUpdate(ctx context.Context, materialIDs []int64) (map[int64]entity.Balance, error)
	Get(ctx context.Context, materialID int64) (*entity.Balance, error)
	// List devuelve los saldos de los materiales activos.
	List(ctx context.Context) ([]entity.Balance, error)
	Save(ctx context.Context, balances []entity.Balance) error
}
