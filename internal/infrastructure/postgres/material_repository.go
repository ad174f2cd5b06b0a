package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, nome, descricao, unidade, created_at, updated_at`

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create inserta el material y asigna su ID.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (nome, descricao, unidade, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, m.Nome, m.Descricao, m.Unidade, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: nombre duplicado", domain.ErrConflict)
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material activo por ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 AND deleted_at IS NULL`
	return r.scanOne(ctx, "get material", query, id)
}

// GetByName busca un material activo por nombre sin distinguir mayúsculas.
func (r *MaterialRepo) GetByName(ctx context.Context, nome string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE lower(nome) = lower($1) AND deleted_at IS NULL`
	return r.scanOne(ctx, "get material by name", query, nome)
}

// Update actualiza los campos descriptivos.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials SET nome = $2, descricao = $3, unidade = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, m.ID, m.Nome, m.Descricao, m.Unidade, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: nombre duplicado", domain.ErrConflict)
		}
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete marca deleted_at; los movimientos del material se conservan.
func (r *MaterialRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE materials SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve los materiales activos ordenados por nombre.
func (r *MaterialRepo) List(ctx context.Context) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE deleted_at IS NULL ORDER BY lower(nome), id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.Nome, &m.Descricao, &m.Unidade, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *MaterialRepo) scanOne(ctx context.Context, op, query string, arg any) (*entity.Material, error) {
	var m entity.Material
	err := r.q.QueryRow(ctx, query, arg).Scan(&m.ID, &m.Nome, &m.Descricao, &m.Unidade, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}
