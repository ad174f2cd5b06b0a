package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseAndValidate decodifica el body JSON en out y aplica las etiquetas validate.
// Si ok es false la respuesta 400 ya fue escrita y el handler debe devolver err.
func parseAndValidate(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	return validateInput(c, out)
}

func validateInput(c *fiber.Ctx, in any) (bool, error) {
	if err := validate.Struct(in); err != nil {
		return false, errorJSON(c, fiber.StatusBadRequest, CodeValidation, validationMessage(err))
	}
	return true, nil
}

// validationMessage resume los fallos por campo: "email: email; senha: min=6".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", jsonFieldName(fe.Namespace()), rule))
	}
	return strings.Join(parts, "; ")
}

// jsonFieldName convierte "MovementBatchRequest.Movimentacoes" en "movimentacoes".
func jsonFieldName(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return ns
	}
	return strings.ToLower(ns[:1]) + ns[1:]
}
