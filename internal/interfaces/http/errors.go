package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecosystem-api/internal/application/dto"
	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/pkg/logger"
)

// Códigos de error expuestos al cliente.
const (
	CodeInvalidBody       = "INVALID_BODY"
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeEmailExists       = "EMAIL_EXISTS"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidResetToken = "INVALID_RESET_TOKEN"
	CodeInternal          = "INTERNAL"
)

func errorJSON(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// respondError traduce errores de dominio a HTTP. Los errores desconocidos se
// devuelven a Fiber para que ErrorHandler los registre y responda 500.
func respondError(c *fiber.Ctx, err error) error {
	var be *domain.BatchError
	if errors.As(err, &be) {
		return respondBatchError(c, be)
	}
	switch {
	case errors.Is(err, domain.ErrValidation):
		return errorJSON(c, fiber.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return errorJSON(c, fiber.StatusConflict, CodeEmailExists, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return errorJSON(c, fiber.StatusUnprocessableEntity, CodeInsufficientStock, err.Error())
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrTokenRevoked):
		return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "credenciales inválidas")
	case errors.Is(err, domain.ErrInvalidResetToken):
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidResetToken, err.Error())
	}
	return err
}

// respondBatchError responde con el detalle por línea. El status refleja la
// falla más grave: validación (400) > material inexistente (404) > saldo (422).
func respondBatchError(c *fiber.Ctx, be *domain.BatchError) error {
	status := fiber.StatusUnprocessableEntity
	code := CodeInsufficientStock
	details := make([]dto.LineErrorResponse, 0, len(be.Lines))
	for _, l := range be.Lines {
		lc := lineCode(l)
		switch {
		case lc == CodeValidation:
			status, code = fiber.StatusBadRequest, CodeValidation
		case lc == CodeNotFound && status != fiber.StatusBadRequest:
			status, code = fiber.StatusNotFound, CodeNotFound
		}
		details = append(details, dto.LineErrorResponse{
			Line:       l.Line,
			MaterialID: l.MaterialID,
			Code:       lc,
			Reason:     l.Reason,
		})
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:    code,
		Message: "lote rechazado: ninguna línea fue registrada",
		Details: details,
	})
}

func lineCode(l *domain.LineError) string {
	switch {
	case errors.Is(l, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(l, domain.ErrInsufficientStock):
		return CodeInsufficientStock
	default:
		return CodeValidation
	}
}

// ErrorHandler maneja lo que los handlers no tradujeron: *fiber.Error (404 de ruta,
// 405) y errores internos, que se registran sin exponer el detalle al cliente.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := CodeInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed, fiber.StatusRequestEntityTooLarge:
				code = CodeInvalidBody
			}
			return errorJSON(c, fe.Code, code, fe.Message)
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return errorJSON(c, fiber.StatusInternalServerError, CodeInternal, "error interno del servidor")
	}
}
