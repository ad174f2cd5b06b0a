package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrValidation         = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrTokenRevoked       = errors.New("token revocado")
	ErrInvalidResetToken  = errors.New("token de recuperación inválido o expirado")
)

// LineError describe el fallo de una línea concreta de un lote de movimientos.
// Err es uno de los errores sentinela (ErrValidation, ErrNotFound, ErrInsufficientStock).
type LineError struct {
	Line       int // índice 0-based dentro del lote
	MaterialID int64
	Reason     string
	Err        error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("línea %d (material %d): %s", e.Line, e.MaterialID, e.Reason)
}

func (e *LineError) Unwrap() error { return e.Err }

// BatchError agrega los fallos por línea de un lote rechazado. Ninguna línea se persiste.
type BatchError struct {
	Lines []*LineError
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, l.Error())
	}
	return "lote rechazado: " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, ErrInsufficientStock) sobre el lote completo.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Lines))
	for _, l := range e.Lines {
		errs = append(errs, l)
	}
	return errs
}

// NewLineError construye un LineError con el motivo y la clase de error.
func NewLineError(line int, materialID int64, kind error, reason string) *LineError {
	return &LineError{Line: line, MaterialID: materialID, Reason: reason, Err: kind}
}
