// rebuild_balances recalcula la tabla stock_balances a partir del ledger completo
// y corrige las filas que no coinciden. Usa la misma configuración que la API.
//
// Uso: go run ./cmd/rebuild_balances
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/ecosystem-api/internal/application/inventory"
	"github.com/jhoicas/ecosystem-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ecosystem-api/pkg/config"
	"github.com/jhoicas/ecosystem-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "rebuild_balances"})

	if cfg.App.StorageDriver != "postgres" {
		log.Error().Str("storage", cfg.App.StorageDriver).Msg("solo aplica a PostgreSQL")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	res, err := inventory.NewBalanceUseCase(postgres.NewTxRunner(pool)).RebuildBalances(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconstruir saldos")
		pool.Close()
		os.Exit(1)
	}
	log.Info().
		Int("materials", res.Materials).
		Int("entries", res.Entries).
		Ints64("drifted", res.Drifted).
		Msg("saldos reconstruidos")
}
