package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ecosystem-api/internal/application/dto"
	"github.com/jhoicas/ecosystem-api/internal/application/usecase"
	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
	"github.com/jhoicas/ecosystem-api/pkg/jwt"
	"github.com/jhoicas/ecosystem-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ResetConfig opciones de recuperación de contraseña.
type ResetConfig struct {
	TTL     time.Duration
	BaseURL string // se le agrega ?token=...
}

// ResetNotifier entrega al usuario el enlace de recuperación.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, user *entity.User, link string, expiresAt time.Time) error
}

// LogResetNotifier escribe el enlace en el log; reemplazable por un envío de email.
type LogResetNotifier struct {
	Log *logger.Logger
}

// SendPasswordReset registra el enlace con nivel info.
func (n LogResetNotifier) SendPasswordReset(_ context.Context, user *entity.User, link string, expiresAt time.Time) error {
	n.Log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Str("link", link).
		Time("expires_at", expiresAt).
		Msg("enlace de recuperación de contraseña")
	return nil
}

// AuthUseCase casos de uso de autenticación: registro, login, logout y contraseñas.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	resets     repository.PasswordResetRepository
	revoked    repository.TokenRevocationStore
	notifier   ResetNotifier
	jwtCfg     JWTConfig
	resetCfg   ResetConfig
	log        *logger.Logger
	now        func() time.Time
	bcryptCost int
}

// NewAuthUseCase construye el caso de uso de auth. notifier nil usa LogResetNotifier.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	resets repository.PasswordResetRepository,
	revoked repository.TokenRevocationStore,
	notifier ResetNotifier,
	jwtCfg JWTConfig,
	resetCfg ResetConfig,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("auth")
	if notifier == nil {
		notifier = LogResetNotifier{Log: log}
	}
	if resetCfg.TTL <= 0 {
		resetCfg.TTL = time.Hour
	}
	return &AuthUseCase{
		userRepo:   userRepo,
		resets:     resets,
		revoked:    revoked,
		notifier:   notifier,
		jwtCfg:     jwtCfg,
		resetCfg:   resetCfg,
		log:        log,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost ajusta el costo de bcrypt (los tests usan bcrypt.MinCost).
func (uc *AuthUseCase) WithBcryptCost(cost int) *AuthUseCase {
	uc.bcryptCost = cost
	return uc
}

// Register crea un usuario con la contraseña hasheada y devuelve ya un token de sesión.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), uc.bcryptCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		nome = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Nome:         nome,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("usuario registrado")
	return uc.session(user)
}

// Login verifica email/senha, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Senha)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.session(user)
}

// Authenticate valida el token y comprueba que no haya sido revocado por logout.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	revoked, err := uc.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}
	return claims, nil
}

// Logout revoca el token (jti) hasta su expiración natural.
func (uc *AuthUseCase) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return domain.ErrUnauthorized
	}
	if expiresAt.IsZero() {
		expiresAt = uc.now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute)
	}
	return uc.revoked.Revoke(ctx, jti, expiresAt)
}

// RequestPasswordReset genera un token de un solo uso y lo envía al usuario.
// Responde igual exista o no el email para no revelar cuentas registradas.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, in dto.PasswordRecoveryRequest) error {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return err
	}
	if user == nil {
		uc.log.Debug().Msg("recuperación solicitada para email desconocido")
		return nil
	}
	token, err := randomToken()
	if err != nil {
		return err
	}
	now := uc.now()
	reset := &entity.PasswordReset{
		TokenHash: hashToken(token),
		UserID:    user.ID,
		ExpiresAt: now.Add(uc.resetCfg.TTL),
		CreatedAt: now,
	}
	if err := uc.resets.Create(ctx, reset); err != nil {
		return err
	}
	link := uc.resetCfg.BaseURL + "?token=" + token
	if err := uc.notifier.SendPasswordReset(ctx, user, link, reset.ExpiresAt); err != nil {
		return fmt.Errorf("notificar recuperación: %w", err)
	}
	return nil
}

// ResetPassword consume el token de recuperación y fija la nueva contraseña.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.PasswordResetRequest) error {
	h := hashToken(strings.TrimSpace(in.Token))
	reset, err := uc.resets.GetByHash(ctx, h)
	if err != nil {
		return err
	}
	now := uc.now()
	if !reset.Usable(now) {
		return domain.ErrInvalidResetToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NovaSenha), uc.bcryptCost)
	if err != nil {
		return err
	}
	// Primero la contraseña: si falla, el token sigue disponible para reintentar.
	// MarkUsed es condicional y garantiza el único uso.
	if err := uc.userRepo.UpdatePassword(ctx, reset.UserID, string(hash)); err != nil {
		return err
	}
	if err := uc.resets.MarkUsed(ctx, h, now); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", reset.UserID).Msg("contraseña redefinida")
	return nil
}

// ChangePassword cambia la contraseña del usuario autenticado verificando la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.SenhaAtual)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.ErrUnauthorized
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NovaSenha), uc.bcryptCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, user.ID, string(hash))
}

func (uc *AuthUseCase) session(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Nome, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Usuario: *usecase.EntityToUserResponse(user),
		Token:   token,
	}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
