package repository

import (
	"context"

	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
)

// MovementFilter criterios para listar el ledger. Limit 0 = sin límite.
type MovementFilter struct {
	MaterialID *int64
	Type       entity.MovementType
	Limit      int
	Offset     int
}

// MovementRepository puerto del ledger append-only: no hay Update ni Delete.
type MovementRepository interface {
	// Append inserta las entradas en orden y devuelve las mismas con ID asignado.
	Append(ctx context.Context, entries []entity.MovementEntry) ([]entity.MovementEntry, error)
	List(ctx context.Context, f MovementFilter) ([]entity.MovementEntry, error)
}
