package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger de movimientos sobre PostgreSQL. Solo INSERT y SELECT:
// un trigger rechaza UPDATE y DELETE en stock_movements.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el lote en un solo round-trip (pgx.Batch) preservando el orden.
func (r *MovementRepo) Append(ctx context.Context, entries []entity.MovementEntry) ([]entity.MovementEntry, error) {
	query := `
		INSERT INTO stock_movements (batch_id, material_id, tipo, quantidade, preco_unitario, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	batch := &pgx.Batch{}
	for _, e := range entries {
		var createdBy *string
		if e.CreatedBy != "" {
			createdBy = &e.CreatedBy
		}
		batch.Queue(query, e.BatchID, e.MaterialID, string(e.Type), e.Quantity, e.UnitPrice, e.CreatedAt, createdBy)
	}
	results := r.q.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	out := make([]entity.MovementEntry, len(entries))
	copy(out, entries)
	for i := range out {
		if err := results.QueryRow().Scan(&out[i].ID); err != nil {
			return nil, mapTxError(fmt.Sprintf("insert movement %d", i), err)
		}
	}
	return out, nil
}

// List lista el ledger más reciente primero con filtros opcionales.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]entity.MovementEntry, error) {
	query := `
		SELECT id, batch_id::text, material_id, tipo, quantidade, preco_unitario, created_at, created_by
		FROM stock_movements WHERE true`
	args := []any{}
	pos := 1
	if f.MaterialID != nil {
		query += fmt.Sprintf(" AND material_id = $%d", pos)
		args = append(args, *f.MaterialID)
		pos++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND tipo = $%d", pos)
		args = append(args, string(f.Type))
		pos++
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]entity.MovementEntry, 0)
	for rows.Next() {
		var (
			e         entity.MovementEntry
			tipo      string
			price     *decimal.Decimal
			createdBy *string
		)
		if err := rows.Scan(&e.ID, &e.BatchID, &e.MaterialID, &tipo, &e.Quantity, &price, &e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		e.Type = entity.MovementType(tipo)
		e.UnitPrice = price
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
