package dto

import "time"

// RegisterRequest entrada para registro: nome, email, senha.
type RegisterRequest struct {
	Nome  string `json:"nome" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=6,max=72"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse salida de registro y login.
type AuthResponse struct {
	Usuario UserResponse `json:"usuario"`
	Token   string       `json:"token"`
}

// PasswordRecoveryRequest body de POST /api/auth/recuperacao.
type PasswordRecoveryRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetRequest body de POST /api/auth/redefinir-senha.
type PasswordResetRequest struct {
	Token     string `json:"token" validate:"required"`
	NovaSenha string `json:"novaSenha" validate:"required,min=6,max=72"`
}

// ChangePasswordRequest body de POST /api/auth/alterar-senha.
type ChangePasswordRequest struct {
	SenhaAtual string `json:"senhaAtual" validate:"required"`
	NovaSenha  string `json:"novaSenha" validate:"required,min=6,max=72"`
}
