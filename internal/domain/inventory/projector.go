// Package inventory contiene la lógica de dominio del estoque: proyección de
// saldos a partir del ledger y validación de movimientos.
package inventory

import "github.com/jhoicas/ecosystem-api/internal/domain/entity"

// Project calcula el saldo de un material a partir de todos sus movimientos.
// No revalida el histórico: confía en que el ledger nunca dejó saldo negativo.
func Project(materialID int64, entries []entity.MovementEntry) entity.Balance {
	b := entity.Balance{MaterialID: materialID}
	for _, e := range entries {
		if e.MaterialID != materialID {
			continue
		}
		b.Apply(e)
	}
	return b
}

// ProjectAll agrupa el ledger por material y proyecta cada saldo.
// El resultado coincide con Project(id, entries) para cada id presente.
func ProjectAll(entries []entity.MovementEntry) map[int64]entity.Balance {
	out := make(map[int64]entity.Balance)
	for _, e := range entries {
		b, ok := out[e.MaterialID]
		if !ok {
			b = entity.Balance{MaterialID: e.MaterialID}
		}
		b.Apply(e)
		out[e.MaterialID] = b
	}
	return out
}
