package repository

import (
	"context"

	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material (DIP).
// Las búsquedas ignoran materiales dados de baja.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	// GetByName busca por nombre sin distinguir mayúsculas.
	GetByName(ctx context.Context, nome string) (*entity.Material, error)
	Update(ctx context.Context, m *entity.Material) error
	// Delete da de baja el material; el ledger se conserva.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*entity.Material, error)
}
