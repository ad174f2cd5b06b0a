package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/ecosystem-api/internal/application/analytics"
	"github.com/jhoicas/ecosystem-api/internal/application/auth"
	"github.com/jhoicas/ecosystem-api/internal/application/inventory"
	"github.com/jhoicas/ecosystem-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	UserUC           *usecase.UserUseCase
	MaterialUC       *usecase.MaterialUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	BalanceUC        *inventory.BalanceUseCase
	ReportUC         *inventory.ReportUseCase
	DashboardUC      *appanalytics.DashboardUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.AuthUC)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/registro", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/recuperacao", authHandler.RequestRecovery)
	authGroup.Post("/redefinir-senha", authHandler.ResetPassword)

	// Auth (protegido)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Post("/alterar-senha", requireAuth, authHandler.ChangePassword)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Materiais
	materials := api.Group("/materiais", requireAuth)
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Get("/", materialHandler.List)
	materials.Post("/", materialHandler.Create)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Delete("/:id", materialHandler.Delete)

	// Estoque
	stock := api.Group("/estoque", requireAuth)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.BalanceUC)
	reportHandler := NewReportHandler(deps.ReportUC)
	stock.Post("/entrada", inventoryHandler.RegisterEntry)
	stock.Post("/saida", inventoryHandler.RegisterExit)
	stock.Get("/movimentacoes", inventoryHandler.ListMovements)
	stock.Get("/saldo", inventoryHandler.ListBalances)
	// antes de /saldo/:materialId para que no lo capture el parámetro
	stock.Get("/saldo/export.xlsx", reportHandler.ExportXLSX)
	stock.Get("/saldo/:materialId", inventoryHandler.GetBalance)
	stock.Get("/relatorio.pdf", reportHandler.ExportPDF)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/resumo", requireAuth, dashboardHandler.GetSummary)
}
