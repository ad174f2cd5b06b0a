package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ecosystem-api/internal/application/dto"
	"github.com/jhoicas/ecosystem-api/internal/application/inventory"
	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
)

// MaterialUseCase casos de uso del catálogo de materiales. El saldo se maneja vía movimientos.
type MaterialUseCase struct {
	txRunner inventory.TxRunner
	now      func() time.Time
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(txRunner inventory.TxRunner) *MaterialUseCase {
	return &MaterialUseCase{txRunner: txRunner, now: time.Now}
}

// Create crea un material con saldo cero. ErrConflict si el nombre ya existe (sin distinguir mayúsculas).
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.MaterialRequest) (*dto.MaterialResponse, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	m := &entity.Material{
		Nome:      in.Nome,
		Descricao: in.Descricao,
		Unidade:   in.Unidade,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(materials repository.MaterialRepository, _ repository.MovementRepository, balances repository.BalanceRepository) error {
		existing, err := materials.GetByName(ctx, m.Nome)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ya existe un material %q", domain.ErrConflict, existing.Nome)
		}
		if err := materials.Create(ctx, m); err != nil {
			return err
		}
		return balances.Init(ctx, m.ID)
	})
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// Get obtiene un material activo por ID.
func (uc *MaterialUseCase) Get(ctx context.Context, id int64) (*dto.MaterialResponse, error) {
	var out *dto.MaterialResponse
	err := uc.txRunner.ReadOnly(ctx, func(materials repository.MaterialRepository, _ repository.MovementRepository, _ repository.BalanceRepository) error {
		m, err := materials.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		out = toMaterialResponse(m)
		return nil
	})
	return out, err
}

// Update actualiza los campos descriptivos. ErrNotFound si el id no existe.
func (uc *MaterialUseCase) Update(ctx context.Context, id int64, in dto.MaterialRequest) (*dto.MaterialResponse, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	var out *dto.MaterialResponse
	err = uc.txRunner.Run(ctx, func(materials repository.MaterialRepository, _ repository.MovementRepository, _ repository.BalanceRepository) error {
		m, err := materials.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		other, err := materials.GetByName(ctx, in.Nome)
		if err != nil {
			return err
		}
		if other != nil && other.ID != id {
			return fmt.Errorf("%w: ya existe un material %q", domain.ErrConflict, other.Nome)
		}
		m.Nome = in.Nome
		m.Descricao = in.Descricao
		m.Unidade = in.Unidade
		m.UpdatedAt = uc.now()
		if err := materials.Update(ctx, m); err != nil {
			return err
		}
		out = toMaterialResponse(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete da de baja un material. ErrConflict si su saldo proyectado es mayor que cero.
// El saldo se bloquea para que ningún lote concurrente registre una entrada mientras tanto.
func (uc *MaterialUseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.Run(ctx, func(materials repository.MaterialRepository, _ repository.MovementRepository, balances repository.BalanceRepository) error {
		snap, err := balances.LockForUpdate(ctx, []int64{id})
		if err != nil {
			return err
		}
		b, ok := snap[id]
		if !ok {
			return domain.ErrNotFound
		}
		if b.Quantity > 0 {
			return fmt.Errorf("%w: el material tiene saldo %d en estoque", domain.ErrConflict, b.Quantity)
		}
		return materials.Delete(ctx, id)
	})
}

// List lista los materiales activos ordenados por nombre.
func (uc *MaterialUseCase) List(ctx context.Context) ([]dto.MaterialResponse, error) {
	var out []dto.MaterialResponse
	err := uc.txRunner.ReadOnly(ctx, func(materials repository.MaterialRepository, _ repository.MovementRepository, _ repository.BalanceRepository) error {
		list, err := materials.List(ctx)
		if err != nil {
			return err
		}
		out = make([]dto.MaterialResponse, 0, len(list))
		for _, m := range list {
			out = append(out, *toMaterialResponse(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func normalize(in dto.MaterialRequest) (dto.MaterialRequest, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Descricao = strings.TrimSpace(in.Descricao)
	in.Unidade = strings.TrimSpace(in.Unidade)
	if in.Nome == "" || in.Descricao == "" || in.Unidade == "" {
		return in, fmt.Errorf("%w: nome, descricao y unidade son obligatorios", domain.ErrValidation)
	}
	return in, nil
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.MaterialResponse{
		ID:        m.ID,
		Nome:      m.Nome,
		Descricao: m.Descricao,
		Unidade:   m.Unidade,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
