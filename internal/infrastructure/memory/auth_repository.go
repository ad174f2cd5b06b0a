package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
)

var (
	_ repository.UserRepository          = (*UserRepository)(nil)
	_ repository.PasswordResetRepository = (*PasswordResetRepository)(nil)
	_ repository.TokenRevocationStore    = (*RevocationStore)(nil)
)

// UserRepository usuarios en memoria, indexados por ID.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

// NewUserRepository crea el repositorio vacío.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]entity.User)}
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	r.users[userID] = u
	return nil
}

// PasswordResetRepository tokens de recuperación en memoria.
type PasswordResetRepository struct {
	mu     sync.Mutex
	resets map[string]entity.PasswordReset
}

// NewPasswordResetRepository crea el repositorio vacío.
func NewPasswordResetRepository() *PasswordResetRepository {
	return &PasswordResetRepository{resets: make(map[string]entity.PasswordReset)}
}

func (r *PasswordResetRepository) Create(_ context.Context, reset *entity.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets[reset.TokenHash] = *reset
	return nil
}

func (r *PasswordResetRepository) GetByHash(_ context.Context, tokenHash string) (*entity.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.resets[tokenHash]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// MarkUsed falla con ErrInvalidResetToken si el token ya se consumió.
func (r *PasswordResetRepository) MarkUsed(_ context.Context, tokenHash string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.resets[tokenHash]
	if !ok || p.UsedAt != nil {
		return domain.ErrInvalidResetToken
	}
	p.UsedAt = &usedAt
	r.resets[tokenHash] = p
	return nil
}

// RevocationStore JWT revocados en memoria.
type RevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewRevocationStore crea el store vacío.
func NewRevocationStore() *RevocationStore {
	return &RevocationStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (s *RevocationStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = expiresAt
	return nil
}

func (s *RevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.revoked[jti]
	return ok && s.now().Before(exp), nil
}

func (s *RevocationStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for jti, exp := range s.revoked {
		if !now.Before(exp) {
			delete(s.revoked, jti)
			n++
		}
	}
	return n, nil
}
