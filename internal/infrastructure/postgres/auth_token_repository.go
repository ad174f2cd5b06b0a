package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
)

var (
	_ repository.PasswordResetRepository = (*PasswordResetRepo)(nil)
	_ repository.TokenRevocationStore    = (*RevokedTokenRepo)(nil)
)

// PasswordResetRepo tokens de recuperación (solo el hash SHA-256).
type PasswordResetRepo struct {
	q Querier
}

// NewPasswordResetRepository construye el adaptador.
func NewPasswordResetRepository(q Querier) *PasswordResetRepo {
	return &PasswordResetRepo{q: q}
}

func (r *PasswordResetRepo) Create(ctx context.Context, p *entity.PasswordReset) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO password_resets (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2::uuid, $3, $4)`, p.TokenHash, p.UserID, p.ExpiresAt, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}
	return nil
}

func (r *PasswordResetRepo) GetByHash(ctx context.Context, tokenHash string) (*entity.PasswordReset, error) {
	var p entity.PasswordReset
	err := r.q.QueryRow(ctx, `
		SELECT token_hash, user_id::text, expires_at, used_at, created_at
		FROM password_resets WHERE token_hash = $1`, tokenHash).
		Scan(&p.TokenHash, &p.UserID, &p.ExpiresAt, &p.UsedAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get password reset: %w", err)
	}
	return &p, nil
}

// MarkUsed consume el token; falla si ya se había usado (dos peticiones simultáneas con el mismo token).
func (r *PasswordResetRepo) MarkUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE password_resets SET used_at = $2
		WHERE token_hash = $1 AND used_at IS NULL`, tokenHash, usedAt)
	if err != nil {
		return fmt.Errorf("mark password reset used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidResetToken
	}
	return nil
}

// RevokedTokenRepo revocaciones de JWT en la tabla revoked_tokens.
type RevokedTokenRepo struct {
	q Querier
}

// NewRevokedTokenRepository construye el adaptador.
func NewRevokedTokenRepository(q Querier) *RevokedTokenRepo {
	return &RevokedTokenRepo{q: q}
}

func (r *RevokedTokenRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING`, jti, expiresAt)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *RevokedTokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1 AND expires_at > now())`, jti).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return exists, nil
}

func (r *RevokedTokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
