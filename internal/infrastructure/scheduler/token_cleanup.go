// Package scheduler ejecuta tareas periódicas de mantenimiento con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
	"github.com/jhoicas/ecosystem-api/pkg/logger"
)

// Scheduler envuelve un cron con los jobs de la aplicación.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New crea el scheduler; los jobs que entran en pánico se recuperan y se registran.
func New(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("scheduler")
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cronLogger{log}))),
		log:  log,
	}
}

// AddTokenCleanup programa la purga de revocaciones expiradas con una expresión cron (ej. "@every 24h", "0 3 * * *").
func (s *Scheduler) AddTokenCleanup(expr string, store repository.TokenRevocationStore) error {
	_, err := s.cron.AddFunc(expr, func() { PurgeRevokedTokens(context.Background(), store, s.log, time.Now()) })
	if err != nil {
		return fmt.Errorf("scheduler: programar limpieza %q: %w", expr, err)
	}
	return nil
}

// Start arranca el cron en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el cron y espera a los jobs en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// PurgeRevokedTokens borra revocaciones expiradas; un fallo solo se registra.
func PurgeRevokedTokens(ctx context.Context, store repository.TokenRevocationStore, log *logger.Logger, now time.Time) int64 {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	n, err := store.PurgeExpired(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("limpieza de tokens revocados falló")
		return 0
	}
	log.Info().Int64("removed", n).Msg("tokens revocados expirados eliminados")
	return n
}

// cronLogger adapta logger.Logger a cron.Logger.
type cronLogger struct{ log *logger.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
