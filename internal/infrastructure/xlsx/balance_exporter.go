// Package xlsx exporta los saldos del estoque a una planilla Excel.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ecosystem-api/internal/application/inventory"
)

var _ inventory.BalanceSpreadsheetExporter = (*BalanceExporter)(nil)

const sheetName = "Saldo"

// BalanceExporter genera la planilla con excelize.
type BalanceExporter struct{}

// NewBalanceExporter construye el exportador.
func NewBalanceExporter() *BalanceExporter {
	return &BalanceExporter{}
}

// ExportBalances escribe una fila por material y una fila final con el valor total.
func (e *BalanceExporter) ExportBalances(_ context.Context, report inventory.StockReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	header := []interface{}{"material_id", "material", "unidade", "quantidade", "preco_medio", "valor_total"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	row := 2
	var total float64
	for _, r := range report.Rows {
		valor := r.ValorTotal.InexactFloat64()
		total += valor
		excelRow := []interface{}{
			r.MaterialID,
			r.Material,
			r.Unidade,
			r.Quantidade,
			r.PrecoMedio.InexactFloat64(),
			valor,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", row, err)
		}
		row++
	}

	totalRow := []interface{}{"", "TOTAL", "", "", "", total}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, fmt.Errorf("xlsx: celda: %w", err)
	}
	if err := f.SetSheetRow(sheetName, cell, &totalRow); err != nil {
		return nil, fmt.Errorf("xlsx: total: %w", err)
	}
	if err := f.SetRowStyle(sheetName, row, row, bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo total: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", 30); err != nil {
		return nil, fmt.Errorf("xlsx: ancho: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
