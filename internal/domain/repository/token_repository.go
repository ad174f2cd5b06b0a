package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
)

// TokenRevocationStore guarda los JWT revocados por logout hasta su expiración.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// PurgeExpired elimina revocaciones ya expiradas; devuelve cuántas se borraron.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// PasswordResetRepository persiste los tokens de recuperación de contraseña.
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *entity.PasswordReset) error
	GetByHash(ctx context.Context, tokenHash string) (*entity.PasswordReset, error)
	MarkUsed(ctx context.Context, tokenHash string, usedAt time.Time) error
}
