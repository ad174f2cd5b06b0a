package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ecosystem-api/internal/application/dto"
	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/inventory"
	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
	"github.com/jhoicas/ecosystem-api/pkg/logger"
)

// RegisterMovementUseCase registra lotes de entradas/salidas de forma transaccional:
// bloquea los saldos de los materiales tocados (SELECT FOR UPDATE), valida todas las
// líneas y anexa el lote completo al ledger o ninguna línea.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	metrics  Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewRegisterMovementUseCase(txRunner TxRunner, metrics Metrics, log *logger.Logger) *RegisterMovementUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		metrics:  metrics,
		log:      log.Component("estoque"),
		now:      time.Now,
	}
}

// RegisterEntry registra un lote de entradas (cada línea con precio unitario).
func (uc *RegisterMovementUseCase) RegisterEntry(ctx context.Context, userID string, lines []dto.MovementLineRequest) (*dto.BatchResponse, error) {
	return uc.AppendBatch(ctx, userID, toRequests(entity.MovementEntrada, lines))
}

// RegisterExit registra un lote de salidas.
func (uc *RegisterMovementUseCase) RegisterExit(ctx context.Context, userID string, lines []dto.MovementLineRequest) (*dto.BatchResponse, error) {
	return uc.AppendBatch(ctx, userID, toRequests(entity.MovementSaida, lines))
}

// AppendBatch valida y anexa un lote. Las líneas se validan en orden contra el saldo
// resultante de las anteriores (política secuencial). Si alguna falla devuelve
// *domain.BatchError y el ledger queda intacto.
func (uc *RegisterMovementUseCase) AppendBatch(ctx context.Context, userID string, lines []entity.MovementRequest) (*dto.BatchResponse, error) {
	tipo := batchType(lines)
	batchID := uuid.New().String()
	now := uc.now()

	var out *dto.BatchResponse
	err := uc.txRunner.Run(ctx, func(
		materials repository.MaterialRepository,
		movements repository.MovementRepository,
		balances repository.BalanceRepository,
	) error {
		// Bloquea en orden ascendente de id para evitar interbloqueos entre lotes concurrentes
		snap, err := balances.LockForUpdate(ctx, inventory.MaterialIDs(lines))
		if err != nil {
			return err
		}
		plan, err := inventory.PlanBatch(lines, snap, batchID, userID, now)
		if err != nil {
			return err
		}
		entries, err := movements.Append(ctx, plan.Entries)
		if err != nil {
			return err
		}
		if err := balances.Save(ctx, plan.Balances); err != nil {
			return err
		}

		resp := &dto.BatchResponse{
			BatchID:       batchID,
			Movimentacoes: make([]dto.MovementResponse, 0, len(entries)),
			Saldos:        make([]dto.BalanceResponse, 0, len(plan.Balances)),
		}
		for _, e := range entries {
			resp.Movimentacoes = append(resp.Movimentacoes, toMovementResponse(e))
		}
		for _, b := range plan.Balances {
			m, err := materials.GetByID(ctx, b.MaterialID)
			if err != nil {
				return err
			}
			resp.Saldos = append(resp.Saldos, ToBalanceResponse(b, m))
		}
		out = resp
		return nil
	})
	if err != nil {
		uc.metrics.BatchRejected(tipo, rejectReason(err))
		var be *domain.BatchError
		if errors.As(err, &be) {
			uc.log.Info().Str("batch_id", batchID).Int("failed_lines", len(be.Lines)).Msg("lote rechazado")
			return nil, err
		}
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("registrar lote: %w", err)
	}

	uc.metrics.BatchCommitted(tipo, len(lines))
	uc.log.Info().
		Str("batch_id", batchID).
		Str("tipo", tipo).
		Int("lines", len(lines)).
		Str("user_id", userID).
		Msg("lote registrado")
	return out, nil
}

// ListMovements devuelve el historial del ledger, más reciente primero.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, in dto.MovementListRequest) ([]dto.MovementResponse, error) {
	in.DefaultPage()
	f := repository.MovementFilter{
		Type:   entity.MovementType(in.Tipo),
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.MaterialID > 0 {
		id := in.MaterialID
		f.MaterialID = &id
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrValidation, in.Tipo)
	}

	var list []entity.MovementEntry
	err := uc.txRunner.ReadOnly(ctx, func(_ repository.MaterialRepository, movements repository.MovementRepository, _ repository.BalanceRepository) error {
		var err error
		list, err = movements.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toMovementResponse(e))
	}
	return out, nil
}

func toRequests(tipo entity.MovementType, lines []dto.MovementLineRequest) []entity.MovementRequest {
	out := make([]entity.MovementRequest, 0, len(lines))
	for _, l := range lines {
		out = append(out, entity.MovementRequest{
			MaterialID: l.MaterialID,
			Type:       tipo,
			Quantity:   l.Quantidade,
			UnitPrice:  l.UnitPrice(),
		})
	}
	return out
}

func batchType(lines []entity.MovementRequest) string {
	if len(lines) == 0 {
		return "vazio"
	}
	tipo := lines[0].Type
	for _, l := range lines[1:] {
		if l.Type != tipo {
			return "misto"
		}
	}
	return string(tipo)
}

// rejectReason clasifica el rechazo por la falla más grave del lote, en el mismo
// orden que la respuesta HTTP: validación > material inexistente > saldo.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
