package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/ecosystem-api/internal/application/analytics"
)

// DashboardHandler maneja el resumen del estoque.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve totales del estoque y los materiales con saldo bajo.
// GET /api/dashboard/resumo
//
// @Summary      Resumen del estoque
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/resumo [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
