package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ecosystem-api/internal/application/dto"
)

// StockReport datos de un informe de estoque.
type StockReport struct {
	GeneratedAt time.Time
	Rows        []dto.BalanceResponse
}

// BalanceSpreadsheetExporter genera la planilla de saldos (XLSX).
type BalanceSpreadsheetExporter interface {
	ExportBalances(ctx context.Context, report StockReport) ([]byte, error)
}

// StockReportPDFGenerator genera el informe de estoque en PDF.
type StockReportPDFGenerator interface {
	GenerateStockReport(ctx context.Context, report StockReport) ([]byte, error)
}

// ReportUseCase exporta los saldos actuales a XLSX o PDF.
type ReportUseCase struct {
	balances *BalanceUseCase
	xlsx     BalanceSpreadsheetExporter
	pdf      StockReportPDFGenerator
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso de informes.
func NewReportUseCase(balances *BalanceUseCase, xlsx BalanceSpreadsheetExporter, pdf StockReportPDFGenerator) *ReportUseCase {
	return &ReportUseCase{balances: balances, xlsx: xlsx, pdf: pdf, now: time.Now}
}

// ExportXLSX devuelve los bytes de la planilla y el nombre de archivo sugerido.
func (uc *ReportUseCase) ExportXLSX(ctx context.Context) ([]byte, string, error) {
	report, err := uc.load(ctx)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.xlsx.ExportBalances(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("exportar xlsx: %w", err)
	}
	return data, "saldo-" + report.GeneratedAt.Format("20060102-1504") + ".xlsx", nil
}

// ExportPDF devuelve los bytes del informe PDF y el nombre de archivo sugerido.
func (uc *ReportUseCase) ExportPDF(ctx context.Context) ([]byte, string, error) {
	report, err := uc.load(ctx)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.GenerateStockReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("generar pdf: %w", err)
	}
	return data, "relatorio-estoque-" + report.GeneratedAt.Format("20060102-1504") + ".pdf", nil
}

func (uc *ReportUseCase) load(ctx context.Context) (StockReport, error) {
	rows, err := uc.balances.ListBalances(ctx)
	if err != nil {
		return StockReport{}, err
	}
	return StockReport{GeneratedAt: uc.now(), Rows: rows}, nil
}
