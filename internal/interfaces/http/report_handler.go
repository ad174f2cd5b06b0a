package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecosystem-api/internal/application/inventory"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler descarga los informes de saldo.
type ReportHandler struct {
	uc *inventory.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *inventory.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// ExportXLSX godoc
// @Summary      Planilla de saldos
// @Tags         relatorios
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/estoque/saldo/export.xlsx [get]
func (h *ReportHandler) ExportXLSX(c *fiber.Ctx) error {
	data, name, err := h.uc.ExportXLSX(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, xlsxContentType, name, data)
}

// ExportPDF godoc
// @Summary      Informe de estoque en PDF
// @Tags         relatorios
// @Security     BearerAuth
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/estoque/relatorio.pdf [get]
func (h *ReportHandler) ExportPDF(c *fiber.Ctx) error {
	data, name, err := h.uc.ExportPDF(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, "application/pdf", name, data)
}

func sendAttachment(c *fiber.Ctx, contentType, name string, data []byte) error {
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(fiber.StatusOK).Send(data)
}
