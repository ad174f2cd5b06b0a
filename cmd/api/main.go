package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/jhoicas/ecosystem-api/docs"
	appanalytics "github.com/jhoicas/ecosystem-api/internal/application/analytics"
	"github.com/jhoicas/ecosystem-api/internal/application/auth"
	"github.com/jhoicas/ecosystem-api/internal/application/inventory"
	"github.com/jhoicas/ecosystem-api/internal/application/usecase"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
	"github.com/jhoicas/ecosystem-api/internal/infrastructure/memory"
	"github.com/jhoicas/ecosystem-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/ecosystem-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ecosystem-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ecosystem-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/ecosystem-api/internal/infrastructure/scheduler"
	infraxlsx "github.com/jhoicas/ecosystem-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/ecosystem-api/internal/interfaces/http"
	"github.com/jhoicas/ecosystem-api/pkg/config"
	"github.com/jhoicas/ecosystem-api/pkg/logger"
)

// @title                       Ecosystem API
// @version                     1.0
// @description                 Controle de estoque de materiais: entradas, saídas, saldo e preço médio.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// storage agrupa los repositorios según STORAGE_DRIVER.
type storage struct {
	txRunner inventory.TxRunner
	users    repository.UserRepository
	resets   repository.PasswordResetRepository
	revoked  repository.TokenRevocationStore
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Str("revocation", cfg.Auth.RevocationBackend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	if cfg.Auth.RevocationBackend == "redis" {
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		store.revoked = redisstore.NewRevocationStore(client)
	}

	m := metrics.New()

	userUC := usecase.NewUserUseCase(store.users)
	materialUC := usecase.NewMaterialUseCase(store.txRunner)
	registerMovementUC := inventory.NewRegisterMovementUseCase(store.txRunner, m, log)
	balanceUC := inventory.NewBalanceUseCase(store.txRunner)
	reportUC := inventory.NewReportUseCase(
		balanceUC,
		infraxlsx.NewBalanceExporter(),
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
	)
	dashboardUC := appanalytics.NewDashboardUseCase(balanceUC, cfg.Inventory.LowStockThreshold)
	authUC := auth.NewAuthUseCase(
		store.users, store.resets, store.revoked,
		auth.LogResetNotifier{Log: log.Component("auth")},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		auth.ResetConfig{
			TTL:     time.Duration(cfg.Auth.ResetTokenTTLMinutes) * time.Minute,
			BaseURL: cfg.Auth.ResetURL,
		},
		log,
	)

	// Purga periódica de revocaciones vencidas (no-op en Redis, donde expiran por TTL)
	sched := scheduler.New(log)
	if err := sched.AddTokenCleanup(cfg.Auth.CleanupSchedule, store.revoked); err != nil {
		log.Fatal().Err(err).Msg("programar limpieza de tokens")
	}
	sched.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log, m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ecosystem API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		UserUC:           userUC,
		MaterialUC:       materialUC,
		RegisterMovement: registerMovementUC,
		BalanceUC:        balanceUC,
		ReportUC:         reportUC,
		DashboardUC:      dashboardUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	sched.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando migraciones si corresponde) o el store en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			txRunner: memory.NewStore(),
			users:    memory.NewUserRepository(),
			resets:   memory.NewPasswordResetRepository(),
			revoked:  memory.NewRevocationStore(),
			close:    func() {},
		}, nil
	}

	if cfg.DB.RunMigrations {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return postgresStorage(pool), nil
}

func postgresStorage(pool *pgxpool.Pool) *storage {
	return &storage{
		txRunner: postgres.NewTxRunner(pool),
		users:    postgres.NewUserRepository(pool),
		resets:   postgres.NewPasswordResetRepository(pool),
		revoked:  postgres.NewRevokedTokenRepository(pool),
		close:    pool.Close,
	}
}
