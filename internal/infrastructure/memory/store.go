// Package memory implementa los puertos de persistencia en memoria para
// STORAGE_DRIVER=memory y para tests. Un solo proceso, sin durabilidad.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/ecosystem-api/internal/application/inventory"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

var errReadOnly = errors.New("memory: escritura en transacción de solo lectura")

type materialRow struct {
	m         entity.Material
	deletedAt *time.Time
}

// state datos del estoque; Run trabaja sobre una copia y la publica al confirmar.
type state struct {
	materials      map[int64]materialRow
	balances       map[int64]entity.Balance
	movements      []entity.MovementEntry
	nextMaterialID int64
	nextMovementID int64
}

func (s *state) clone() *state {
	c := &state{
		materials:      make(map[int64]materialRow, len(s.materials)),
		balances:       make(map[int64]entity.Balance, len(s.balances)),
		movements:      s.movements[:len(s.movements):len(s.movements)],
		nextMaterialID: s.nextMaterialID,
		nextMovementID: s.nextMovementID,
	}
	for k, v := range s.materials {
		c.materials[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	return c
}

// Store guarda materiales, ledger y saldos. Las transacciones de escritura se
// serializan con un mutex exclusivo, equivalente a bloquear todas las filas.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: &state{
		materials: make(map[int64]materialRow),
		balances:  make(map[int64]entity.Balance),
	}}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn inventory.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	staged := s.st.clone()
	tx := &txView{st: staged}
	if err := fn(&materialRepo{tx}, &movementRepo{tx}, &balanceRepo{tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = staged
	return nil
}

// ReadOnly ejecuta fn con lectura compartida; los métodos de escritura fallan.
func (s *Store) ReadOnly(ctx context.Context, fn inventory.TxFunc) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txView{st: s.st, readOnly: true}
	return fn(&materialRepo{tx}, &movementRepo{tx}, &balanceRepo{tx})
}

type txView struct {
	st       *state
	readOnly bool
}

func (t *txView) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}
