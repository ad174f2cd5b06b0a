package entity

import "time"

// PasswordReset token de recuperación de contraseña (se guarda solo el hash SHA-256).
type PasswordReset struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Usable indica si el token puede consumirse en el instante now.
func (p *PasswordReset) Usable(now time.Time) bool {
	return p != nil && p.UsedAt == nil && now.Before(p.ExpiresAt)
}
