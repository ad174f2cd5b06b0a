package http

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecosystem-api/internal/application/dto"
	"github.com/jhoicas/ecosystem-api/internal/application/inventory"
)

// InventoryHandler maneja entradas, salidas, saldos y el historial (protegido).
type InventoryHandler struct {
	movements *inventory.RegisterMovementUseCase
	balances  *inventory.BalanceUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements *inventory.RegisterMovementUseCase, balances *inventory.BalanceUseCase) *InventoryHandler {
	return &InventoryHandler{movements: movements, balances: balances}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de materiales
// @Description  Acepta una línea, un array de líneas o {movimentacoes:[...]}. El lote se
// @Description  registra completo o no se registra.
// @Tags         estoque
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementBatchRequest  true  "líneas con materialId, quantidade, precoUnitario"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/estoque/entrada [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	lines, ok, err := h.parseLines(c)
	if !ok {
		return err
	}
	out, err := h.movements.RegisterEntry(c.UserContext(), GetUserID(c), lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterExit godoc
// @Summary      Registrar salida de materiales
// @Description  Mismos formatos que la entrada, sin precio. Una salida mayor que el saldo
// @Description  rechaza el lote completo con 422.
// @Tags         estoque
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementBatchRequest  true  "líneas con materialId, quantidade"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/estoque/saida [post]
func (h *InventoryHandler) RegisterExit(c *fiber.Ctx) error {
	lines, ok, err := h.parseLines(c)
	if !ok {
		return err
	}
	out, err := h.movements.RegisterExit(c.UserContext(), GetUserID(c), lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBalances godoc
// @Summary      Saldo de todos los materiales
// @Tags         estoque
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/estoque/saldo [get]
func (h *InventoryHandler) ListBalances(c *fiber.Ctx) error {
	out, err := h.balances.ListBalances(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetBalance godoc
// @Summary      Saldo de un material
// @Tags         estoque
// @Security     BearerAuth
// @Produce      json
// @Param        materialId  path  int  true  "ID del material"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/estoque/saldo/{materialId} [get]
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	id, err := pathID(c, "materialId")
	if err != nil {
		return err
	}
	out, err := h.balances.GetBalance(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos (más reciente primero)
// @Tags         estoque
// @Security     BearerAuth
// @Produce      json
// @Param        materialId  query  int     false  "Filtrar por material"
// @Param        tipo        query  string  false  "entrada | saida"
// @Param        limit       query  int     false  "Máximo 500 (default 50)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/estoque/movimentacoes [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, CodeValidation, "parámetros de consulta inválidos")
	}
	if ok, err := validateInput(c, &in); !ok {
		return err
	}
	out, err := h.movements.ListMovements(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// movementBody cubre los formatos de objeto: una línea suelta o {movimentacoes:[...]}.
type movementBody struct {
	dto.MovementLineRequest
	Movimentacoes []dto.MovementLineRequest `json:"movimentacoes"`
}

// parseLines normaliza los tres formatos aceptados a un lote y valida su tamaño.
// Los valores de cada línea los valida el dominio para reportarlos por línea.
func (h *InventoryHandler) parseLines(c *fiber.Ctx) ([]dto.MovementLineRequest, bool, error) {
	body := bytes.TrimSpace(c.Body())
	invalid := func() ([]dto.MovementLineRequest, bool, error) {
		return nil, false, errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
	}
	if len(body) == 0 {
		return invalid()
	}

	var batch dto.MovementBatchRequest
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &batch.Movimentacoes); err != nil {
			return invalid()
		}
	case '{':
		var mb movementBody
		if err := json.Unmarshal(body, &mb); err != nil {
			return invalid()
		}
		if mb.Movimentacoes != nil {
			batch.Movimentacoes = mb.Movimentacoes
		} else {
			batch.Movimentacoes = []dto.MovementLineRequest{mb.MovementLineRequest}
		}
	default:
		return invalid()
	}
	if ok, err := validateInput(c, &batch); !ok {
		return nil, false, err
	}
	return batch.Movimentacoes, true, nil
}
