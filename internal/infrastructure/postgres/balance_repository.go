package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo tabla stock_balances, proyección materializada del ledger.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Init crea el saldo cero del material (idempotente).
func (r *BalanceRepo) Init(ctx context.Context, materialID int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_balances (material_id) VALUES ($1)
		ON CONFLICT (material_id) DO NOTHING`, materialID)
	if err != nil {
		return fmt.Errorf("init balance: %w", err)
	}
	return nil
}

// LockForUpdate bloquea saldo y material (SELECT FOR UPDATE) en orden ascendente de id.
// Bloquear también la fila del material serializa los lotes contra una baja concurrente.
func (r *BalanceRepo) LockForUpdate(ctx context.Context, materialIDs []int64) (map[int64]entity.Balance, error) {
	out := make(map[int64]entity.Balance, len(materialIDs))
	if len(materialIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT b.material_id, b.quantidade, b.entrada_qty, b.entrada_value, b.updated_at
		FROM stock_balances b
		JOIN materials m ON m.id = b.material_id
		WHERE b.material_id = ANY($1) AND m.deleted_at IS NULL
		ORDER BY b.material_id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, materialIDs)
	if err != nil {
		return nil, mapTxError("lock balances", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.MaterialID, &b.Quantity, &b.EntradaQty, &b.EntradaValue, &b.UpdatedAt); err != nil {
			return nil, mapTxError("scan balance", err)
		}
		out[b.MaterialID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, mapTxError("lock balances", err)
	}
	return out, nil
}

// Get devuelve el saldo almacenado o nil si no existe.
func (r *BalanceRepo) Get(ctx context.Context, materialID int64) (*entity.Balance, error) {
	var b entity.Balance
	err := r.q.QueryRow(ctx, `
		SELECT material_id, quantidade, entrada_qty, entrada_value, updated_at
		FROM stock_balances WHERE material_id = $1`, materialID).
		Scan(&b.MaterialID, &b.Quantity, &b.EntradaQty, &b.EntradaValue, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// List devuelve los saldos de los materiales activos.
func (r *BalanceRepo) List(ctx context.Context) ([]entity.Balance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT b.material_id, b.quantidade, b.entrada_qty, b.entrada_value, b.updated_at
		FROM stock_balances b
		JOIN materials m ON m.id = b.material_id
		WHERE m.deleted_at IS NULL
		ORDER BY b.material_id`)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.MaterialID, &b.Quantity, &b.EntradaQty, &b.EntradaValue, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Save escribe los saldos recalculados (filas ya bloqueadas por LockForUpdate).
func (r *BalanceRepo) Save(ctx context.Context, balances []entity.Balance) error {
	query := `
		INSERT INTO stock_balances (material_id, quantidade, entrada_qty, entrada_value, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (material_id) DO UPDATE
		SET quantidade = EXCLUDED.quantidade,
		    entrada_qty = EXCLUDED.entrada_qty,
		    entrada_value = EXCLUDED.entrada_value,
		    updated_at = now()`
	batch := &pgx.Batch{}
	for _, b := range balances {
		batch.Queue(query, b.MaterialID, b.Quantity, b.EntradaQty, b.EntradaValue)
	}
	results := r.q.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()
	for range balances {
		if _, err := results.Exec(); err != nil {
			return mapTxError("save balance", err)
		}
	}
	return nil
}
