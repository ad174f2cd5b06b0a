package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/ecosystem-api/internal/application/dto"
	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/inventory"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
)

// BalanceUseCase consulta los saldos. Las lecturas corren en una transacción de solo
// lectura, de modo que nunca observan un lote a medio confirmar.
type BalanceUseCase struct {
	txRunner TxRunner
}

// NewBalanceUseCase construye el caso de uso.
func NewBalanceUseCase(txRunner TxRunner) *BalanceUseCase {
	return &BalanceUseCase{txRunner: txRunner}
}

// GetBalance devuelve el saldo de un material activo.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, materialID int64) (*dto.BalanceResponse, error) {
	var out *dto.BalanceResponse
	err := uc.txRunner.ReadOnly(ctx, func(materials repository.MaterialRepository, _ repository.MovementRepository, balances repository.BalanceRepository) error {
		m, err := materials.GetByID(ctx, materialID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		b, err := balances.Get(ctx, materialID)
		if err != nil {
			return err
		}
		if b == nil {
			b = &entity.Balance{MaterialID: materialID}
		}
		resp := ToBalanceResponse(*b, m)
		out = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListBalances devuelve el saldo de todos los materiales activos ordenado por nombre.
func (uc *BalanceUseCase) ListBalances(ctx context.Context) ([]dto.BalanceResponse, error) {
	var out []dto.BalanceResponse
	err := uc.txRunner.ReadOnly(ctx, func(materials repository.MaterialRepository, _ repository.MovementRepository, balances repository.BalanceRepository) error {
		var err error
		out, err = listBalances(ctx, materials, balances)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func listBalances(ctx context.Context, materials repository.MaterialRepository, balances repository.BalanceRepository) ([]dto.BalanceResponse, error) {
	mats, err := materials.List(ctx)
	if err != nil {
		return nil, err
	}
	list, err := balances.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]entity.Balance, len(list))
	for _, b := range list {
		byID[b.MaterialID] = b
	}
	out := make([]dto.BalanceResponse, 0, len(mats))
	for _, m := range mats {
		b, ok := byID[m.ID]
		if !ok {
			b = entity.Balance{MaterialID: m.ID}
		}
		out = append(out, ToBalanceResponse(b, m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Material) < strings.ToLower(out[j].Material)
	})
	return out, nil
}

// RebuildResult resumen de la reconstrucción de saldos.
type RebuildResult struct {
	Materials int
	Entries   int
	Drifted   []int64 // materiales cuyo saldo almacenado no coincidía con el ledger
}

// RebuildBalances recalcula la tabla de saldos a partir del ledger completo con
// inventory.ProjectAll y corrige las filas que no coinciden.
func (uc *BalanceUseCase) RebuildBalances(ctx context.Context) (*RebuildResult, error) {
	res := &RebuildResult{}
	err := uc.txRunner.Run(ctx, func(materials repository.MaterialRepository, movements repository.MovementRepository, balances repository.BalanceRepository) error {
		mats, err := materials.List(ctx)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(mats))
		for _, m := range mats {
			ids = append(ids, m.ID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		stored, err := balances.LockForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		entries, err := movements.List(ctx, repository.MovementFilter{})
		if err != nil {
			return err
		}
		projected := inventory.ProjectAll(entries)

		fixed := make([]entity.Balance, 0)
		for _, id := range ids {
			want := projected[id]
			want.MaterialID = id
			have := stored[id]
			if have.Quantity != want.Quantity || have.EntradaQty != want.EntradaQty || !have.EntradaValue.Equal(want.EntradaValue) {
				res.Drifted = append(res.Drifted, id)
				fixed = append(fixed, want)
			}
		}
		res.Materials = len(ids)
		res.Entries = len(entries)
		if len(fixed) == 0 {
			return nil
		}
		return balances.Save(ctx, fixed)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
