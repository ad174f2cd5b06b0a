package inventory_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecosystem-api/internal/domain"
	"github.com/jhoicas/ecosystem-api/internal/domain/entity"
	"github.com/jhoicas/ecosystem-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func entrada(materialID, qty int64, p string) entity.MovementRequest {
	return entity.MovementRequest{MaterialID: materialID, Type: entity.MovementEntrada, Quantity: qty, UnitPrice: price(p)}
}

func saida(materialID, qty int64) entity.MovementRequest {
	return entity.MovementRequest{MaterialID: materialID, Type: entity.MovementSaida, Quantity: qty}
}

// apply planifica el lote contra snap y, si es válido, devuelve el nuevo snapshot.
func apply(t *testing.T, snap inventory.Snapshot, lines ...entity.MovementRequest) (inventory.Snapshot, error) {
	t.Helper()
	plan, err := inventory.PlanBatch(lines, snap, "batch", "user", testNow)
	if err != nil {
		return snap, err
	}
	next := make(inventory.Snapshot, len(snap))
	for id, b := range snap {
		next[id] = b
	}
	for _, b := range plan.Balances {
		next[b.MaterialID] = b
	}
	return next, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Precio medio ponderado
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: 10 @ 5.00 + 10 @ 7.00 → {20, 6.00}.
func TestPlanBatch_EntradasPrecioMedio(t *testing.T) {
	snap := inventory.Snapshot{1: {MaterialID: 1}}

	snap, err := apply(t, snap, entrada(1, 10, "5.00"))
	require.NoError(t, err)
	snap, err = apply(t, snap, entrada(1, 10, "7.00"))
	require.NoError(t, err)

	b := snap[1]
	assert.Equal(t, int64(20), b.Quantity)
	assert.True(t, b.AveragePrice().Equal(decimal.RequireFromString("6.00")), "precio medio: %s", b.AveragePrice())
}

// Escenario completo: salida 25 falla, salida 20 deja {0, 6.00}.
func TestPlanBatch_SalidaInsuficienteYSalidaTotal(t *testing.T) {
	snap := inventory.Snapshot{1: {MaterialID: 1}}
	snap, err := apply(t, snap, entrada(1, 10, "5.00"), entrada(1, 10, "7.00"))
	require.NoError(t, err)

	unchanged, err := apply(t, snap, saida(1, 25))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int64(20), unchanged[1].Quantity)
	assert.True(t, unchanged[1].AveragePrice().Equal(decimal.NewFromInt(6)))

	snap, err = apply(t, snap, saida(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap[1].Quantity)
	assert.True(t, snap[1].AveragePrice().Equal(decimal.NewFromInt(6)), "el precio medio se conserva con saldo cero")
}

func TestPlanBatch_SalidaNoAlteraPrecioMedio(t *testing.T) {
	snap := inventory.Snapshot{1: {MaterialID: 1}}
	snap, err := apply(t, snap, entrada(1, 3, "1.10"), entrada(1, 7, "2.35"))
	require.NoError(t, err)
	before := snap[1].AveragePrice()

	snap, err = apply(t, snap, saida(1, 4))
	require.NoError(t, err)
	assert.Equal(t, int64(6), snap[1].Quantity)
	assert.True(t, before.Equal(snap[1].AveragePrice()))
}

// El orden de las entradas no cambia cantidad ni precio medio.
func TestProject_IndependienteDelOrden(t *testing.T) {
	lines := []entity.MovementEntry{
		{MaterialID: 1, Type: entity.MovementEntrada, Quantity: 3, UnitPrice: price("0.10")},
		{MaterialID: 1, Type: entity.MovementEntrada, Quantity: 7, UnitPrice: price("0.20")},
		{MaterialID: 1, Type: entity.MovementEntrada, Quantity: 11, UnitPrice: price("0.30")},
	}
	reversed := []entity.MovementEntry{lines[2], lines[1], lines[0]}

	a := inventory.Project(1, lines)
	b := inventory.Project(1, reversed)
	assert.Equal(t, a.Quantity, b.Quantity)
	assert.True(t, a.AveragePrice().Equal(b.AveragePrice()))
	// (0.3 + 1.4 + 3.3) / 21 = 0.238095...
	assert.Equal(t, "0.2381", a.AveragePrice().StringFixed(4))
}

// Muchas entradas pequeñas no acumulan deriva de redondeo.
func TestProject_SinDerivaDeRedondeo(t *testing.T) {
	entries := make([]entity.MovementEntry, 0, 1000)
	for i := 0; i < 1000; i++ {
		entries = append(entries, entity.MovementEntry{MaterialID: 7, Type: entity.MovementEntrada, Quantity: 1, UnitPrice: price("0.01")})
	}
	b := inventory.Project(7, entries)
	assert.Equal(t, int64(1000), b.Quantity)
	assert.True(t, b.EntradaValue.Equal(decimal.NewFromInt(10)))
	assert.True(t, b.AveragePrice().Equal(decimal.RequireFromString("0.01")))
}

func TestProject_SinEntradasPrecioCero(t *testing.T) {
	b := inventory.Project(1, nil)
	assert.Equal(t, int64(0), b.Quantity)
	assert.True(t, b.AveragePrice().IsZero())
}

// ProjectAll coincide con Project por material y con el saldo incremental de PlanBatch.
func TestProjectAll_ConsistenteConProjectYPlan(t *testing.T) {
	snap := inventory.Snapshot{1: {MaterialID: 1}, 2: {MaterialID: 2}}
	lines := []entity.MovementRequest{
		entrada(1, 10, "2.50"), entrada(2, 4, "9.99"), saida(1, 3), entrada(1, 5, "3.00"), saida(2, 4),
	}
	plan, err := inventory.PlanBatch(lines, snap, "b1", "u1", testNow)
	require.NoError(t, err)

	all := inventory.ProjectAll(plan.Entries)
	require.Len(t, all, 2)
	for _, inc := range plan.Balances {
		single := inventory.Project(inc.MaterialID, plan.Entries)
		assert.Equal(t, single.Quantity, all[inc.MaterialID].Quantity)
		assert.Equal(t, inc.Quantity, single.Quantity)
		assert.True(t, inc.AveragePrice().Equal(single.AveragePrice()))
	}
	assert.Equal(t, int64(12), all[1].Quantity)
	assert.Equal(t, int64(0), all[2].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad y política secuencial
// ──────────────────────────────────────────────────────────────────────────────

// Un lote con una línea válida y otra inválida no produce entradas.
func TestPlanBatch_LoteMixtoSeRechazaEntero(t *testing.T) {
	snap := inventory.Snapshot{1: {MaterialID: 1}}
	plan, err := inventory.PlanBatch([]entity.MovementRequest{entrada(1, 5, "1.00"), saida(1, 50)}, snap, "b", "u", testNow)
	require.Error(t, err)
	assert.Nil(t, plan)

	var be *domain.BatchError
	require.True(t, errors.As(err, &be))
	require.Len(t, be.Lines, 1)
	assert.Equal(t, 1, be.Lines[0].Line)
	assert.Equal(t, int64(1), be.Lines[0].MaterialID)
	assert.ErrorIs(t, be.Lines[0], domain.ErrInsufficientStock)
}

// Dos salidas del mismo material en un lote se acumulan contra el saldo inicial.
func TestPlanBatch_SalidasAcumuladasNoSobregiran(t *testing.T) {
	snap := inventory.Snapshot{1: {MaterialID: 1, Quantity: 20, EntradaQty: 20, EntradaValue: decimal.NewFromInt(120)}}

	_, err := inventory.PlanBatch([]entity.MovementRequest{saida(1, 15), saida(1, 15)}, snap, "b", "u", testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	plan, err := inventory.PlanBatch([]entity.MovementRequest{saida(1, 15), saida(1, 5)}, snap, "b", "u", testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), plan.Balances[0].Quantity)
}

// Una entrada previa en el mismo lote habilita una salida posterior.
func TestPlanBatch_EntradaPreviaHabilitaSalida(t *testing.T) {
	snap := inventory.Snapshot{1: {MaterialID: 1}}
	plan, err := inventory.PlanBatch([]entity.MovementRequest{entrada(1, 8, "4.00"), saida(1, 8)}, snap, "b", "u", testNow)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)
	assert.Equal(t, "b", plan.Entries[0].BatchID)
	assert.Nil(t, plan.Entries[1].UnitPrice)
}

// El desborde repartido entre líneas del mismo lote se detecta en la línea que lo provoca.
func TestPlanBatch_EntradasQueDesbordanSeRechazan(t *testing.T) {
	snap := inventory.Snapshot{1: {MaterialID: 1}}
	half := int64(math.MaxInt64/2 + 1)

	_, err := inventory.PlanBatch([]entity.MovementRequest{entrada(1, half, "1"), entrada(1, half, "1")}, snap, "b", "u", testNow)
	var be *domain.BatchError
	require.True(t, errors.As(err, &be))
	require.Len(t, be.Lines, 1)
	assert.Equal(t, 1, be.Lines[0].Line)
	assert.ErrorIs(t, be.Lines[0], domain.ErrValidation)

	// EntradaQty también acota: tras salidas el saldo baja pero el acumulado de entradas no
	snap = inventory.Snapshot{1: {MaterialID: 1, Quantity: 0, EntradaQty: math.MaxInt64 - 1, EntradaValue: decimal.NewFromInt(1)}}
	_, err = inventory.PlanBatch([]entity.MovementRequest{entrada(1, 2, "1")}, snap, "b", "u", testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlanBatch_LoteVacio(t *testing.T) {
	_, err := inventory.PlanBatch(nil, inventory.Snapshot{}, "b", "u", testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Todas las líneas inválidas se reportan, no solo la primera.
func TestPlanBatch_ReportaTodasLasLineas(t *testing.T) {
	snap := inventory.Snapshot{1: {MaterialID: 1}}
	_, err := inventory.PlanBatch([]entity.MovementRequest{
		entrada(99, 1, "1.00"),
		{MaterialID: 1, Type: entity.MovementEntrada, Quantity: 0, UnitPrice: price("1")},
		{MaterialID: 1, Type: entity.MovementEntrada, Quantity: 1},
		saida(1, 1),
	}, snap, "b", "u", testNow)

	var be *domain.BatchError
	require.True(t, errors.As(err, &be))
	require.Len(t, be.Lines, 4)
	assert.ErrorIs(t, be.Lines[0], domain.ErrNotFound)
	assert.ErrorIs(t, be.Lines[1], domain.ErrValidation)
	assert.ErrorIs(t, be.Lines[2], domain.ErrValidation)
	assert.ErrorIs(t, be.Lines[3], domain.ErrInsufficientStock)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateLine
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateLine_Reglas(t *testing.T) {
	stock := entity.Balance{MaterialID: 1, Quantity: 5}
	cases := []struct {
		name   string
		line   entity.MovementRequest
		exists bool
		want   error
	}{
		{"material inexistente", entrada(1, 1, "1"), false, domain.ErrNotFound},
		{"inexistente antes que cantidad", entity.MovementRequest{MaterialID: 1, Type: entity.MovementSaida, Quantity: -1}, false, domain.ErrNotFound},
		{"cantidad cero", saida(1, 0), true, domain.ErrValidation},
		{"cantidad negativa", entrada(1, -3, "1"), true, domain.ErrValidation},
		{"entrada sin precio", entity.MovementRequest{MaterialID: 1, Type: entity.MovementEntrada, Quantity: 1}, true, domain.ErrValidation},
		{"entrada precio cero", entrada(1, 1, "0"), true, domain.ErrValidation},
		{"salida con precio", entity.MovementRequest{MaterialID: 1, Type: entity.MovementSaida, Quantity: 1, UnitPrice: price("1")}, true, domain.ErrValidation},
		{"salida excede", saida(1, 6), true, domain.ErrInsufficientStock},
		{"tipo desconocido", entity.MovementRequest{MaterialID: 1, Type: "ajuste", Quantity: 1}, true, domain.ErrValidation},
		{"entrada desborda saldo", entrada(1, math.MaxInt64-4, "1"), true, domain.ErrValidation},
		{"entrada hasta el máximo", entrada(1, math.MaxInt64-5, "1"), true, nil},
		{"salida exacta", saida(1, 5), true, nil},
		{"entrada válida", entrada(1, 1, "0.01"), true, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lerr := inventory.ValidateLine(0, tc.line, stock, tc.exists)
			if tc.want == nil {
				assert.Nil(t, lerr)
				return
			}
			require.NotNil(t, lerr)
			assert.ErrorIs(t, lerr, tc.want)
		})
	}
}

func TestMaterialIDs_OrdenAscendenteSinDuplicados(t *testing.T) {
	ids := inventory.MaterialIDs([]entity.MovementRequest{saida(9, 1), entrada(2, 1, "1"), saida(9, 2), entrada(5, 1, "1")})
	assert.Equal(t, []int64{2, 5, 9}, ids)
}
