package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
)

// Snapshot saldos de partida de los materiales tocados por un lote.
// Un material ausente del mapa no existe.
type Snapshot map[int64]entity.Balance

// BatchPlan resultado de validar un lote: entradas a anexar y saldos finales.
type BatchPlan struct {
	Entries  []entity.MovementEntry
	Balances []entity.Balance // ordenados por MaterialID
}

// MaterialIDs devuelve los ids distintos del lote en orden ascendente (orden de bloqueo).
func MaterialIDs(lines []entity.MovementRequest) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.MaterialID]; ok {
			continue
		}
		seen[l.MaterialID] = struct{}{}
		ids = append(ids, l.MaterialID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PlanBatch valida el lote con política secuencial: cada línea se comprueba contra
// el saldo resultante de las líneas anteriores del mismo lote. Dos salidas del
// mismo material se acumulan, así un lote nunca deja saldo negativo.
//
// Si alguna línea falla devuelve *domain.BatchError con todas las líneas inválidas.
func PlanBatch(lines []entity.MovementRequest, snap Snapshot, batchID, userID string, now time.Time) (*BatchPlan, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: lote vacío", domain.ErrValidation)
	}
	working := make(map[int64]entity.Balance, len(snap))
	for id, b := range snap {
		working[id] = b
	}

	var failures []*domain.LineError
	entries := make([]entity.MovementEntry, 0, len(lines))
	for i, line := range lines {
		current, exists := working[line.MaterialID]
		if lerr := ValidateLine(i, line, current, exists); lerr != nil {
			failures = append(failures, lerr)
			continue
		}
		entry := entity.MovementEntry{
			BatchID:    batchID,
			MaterialID: line.MaterialID,
			Type:       line.Type,
			Quantity:   line.Quantity,
			CreatedAt:  now,
			CreatedBy:  userID,
		}
		if line.Type == entity.MovementEntrada {
			p := *line.UnitPrice
			entry.UnitPrice = &p
		}
		current.Apply(entry)
		working[line.MaterialID] = current
		entries = append(entries, entry)
	}
	if len(failures) > 0 {
		return nil, &domain.BatchError{Lines: failures}
	}

	ids := MaterialIDs(lines)
	balances := make([]entity.Balance, 0, len(ids))
	for _, id := range ids {
		balances = append(balances, working[id])
	}
	return &BatchPlan{Entries: entries, Balances: balances}, nil
}
