package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
)

var (
	_ repository.MaterialRepository = (*materialRepo)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
	_ repository.BalanceRepository  = (*balanceRepo)(nil)
)

// ── Materiales ───────────────────────────────────────────────────────────────

type materialRepo struct{ tx *txView }

func (r *materialRepo) active(id int64) (materialRow, bool) {
	row, ok := r.tx.st.materials[id]
	if !ok || row.deletedAt != nil {
		return materialRow{}, false
	}
	return row, true
}

func (r *materialRepo) nameTaken(nome string, except int64) bool {
	for id, row := range r.tx.st.materials {
		if id != except && row.deletedAt == nil && strings.EqualFold(row.m.Nome, nome) {
			return true
		}
	}
	return false
}

func (r *materialRepo) Create(_ context.Context, m *entity.Material) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if r.nameTaken(m.Nome, 0) {
		return fmt.Errorf("%w: nombre duplicado", domain.ErrConflict)
	}
	r.tx.st.nextMaterialID++
	m.ID = r.tx.st.nextMaterialID
	r.tx.st.materials[m.ID] = materialRow{m: *m}
	return nil
}

func (r *materialRepo) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	row, ok := r.active(id)
	if !ok {
		return nil, nil
	}
	m := row.m
	return &m, nil
}

func (r *materialRepo) GetByName(_ context.Context, nome string) (*entity.Material, error) {
	for _, row := range r.tx.st.materials {
		if row.deletedAt == nil && strings.EqualFold(row.m.Nome, nome) {
			m := row.m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *materialRepo) Update(_ context.Context, m *entity.Material) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, ok := r.active(m.ID); !ok {
		return domain.ErrNotFound
	}
	if r.nameTaken(m.Nome, m.ID) {
		return fmt.Errorf("%w: nombre duplicado", domain.ErrConflict)
	}
	r.tx.st.materials[m.ID] = materialRow{m: *m}
	return nil
}

func (r *materialRepo) Delete(_ context.Context, id int64) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	row, ok := r.active(id)
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	row.deletedAt = &now
	r.tx.st.materials[id] = row
	return nil
}

func (r *materialRepo) List(_ context.Context) ([]*entity.Material, error) {
	out := make([]*entity.Material, 0, len(r.tx.st.materials))
	for _, row := range r.tx.st.materials {
		if row.deletedAt != nil {
			continue
		}
		m := row.m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Nome), strings.ToLower(out[j].Nome)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ── Ledger ───────────────────────────────────────────────────────────────────

type movementRepo struct{ tx *txView }

func (r *movementRepo) Append(_ context.Context, entries []entity.MovementEntry) ([]entity.MovementEntry, error) {
	if err := r.tx.writable(); err != nil {
		return nil, err
	}
	out := make([]entity.MovementEntry, 0, len(entries))
	for _, e := range entries {
		r.tx.st.nextMovementID++
		e.ID = r.tx.st.nextMovementID
		if e.UnitPrice != nil {
			p := *e.UnitPrice
			e.UnitPrice = &p
		}
		r.tx.st.movements = append(r.tx.st.movements, e)
		out = append(out, e)
	}
	return out, nil
}

// List devuelve el ledger más reciente primero.
func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]entity.MovementEntry, error) {
	all := r.tx.st.movements
	out := make([]entity.MovementEntry, 0)
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if f.MaterialID != nil && e.MaterialID != *f.MaterialID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		out = append(out, e)
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []entity.MovementEntry{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ── Saldos ───────────────────────────────────────────────────────────────────

type balanceRepo struct{ tx *txView }

func (r *balanceRepo) Init(_ context.Context, materialID int64) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, ok := r.tx.st.balances[materialID]; !ok {
		r.tx.st.balances[materialID] = entity.Balance{MaterialID: materialID}
	}
	return nil
}

// LockForUpdate no necesita bloquear: Run ya tiene el mutex exclusivo.
func (r *balanceRepo) LockForUpdate(_ context.Context, materialIDs []int64) (map[int64]entity.Balance, error) {
	out := make(map[int64]entity.Balance, len(materialIDs))
	for _, id := range materialIDs {
		row, ok := r.tx.st.materials[id]
		if !ok || row.deletedAt != nil {
			continue
		}
		b, ok := r.tx.st.balances[id]
		if !ok {
			continue
		}
		out[id] = b
	}
	return out, nil
}

func (r *balanceRepo) Get(_ context.Context, materialID int64) (*entity.Balance, error) {
	b, ok := r.tx.st.balances[materialID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *balanceRepo) List(_ context.Context) ([]entity.Balance, error) {
	out := make([]entity.Balance, 0, len(r.tx.st.balances))
	for id, b := range r.tx.st.balances {
		if row, ok := r.tx.st.materials[id]; ok && row.deletedAt == nil {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialID < out[j].MaterialID })
	return out, nil
}

func (r *balanceRepo) Save(_ context.Context, balances []entity.Balance) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	for _, b := range balances {
		r.tx.st.balances[b.MaterialID] = b
	}
	return nil
}
