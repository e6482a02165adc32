// Package xlsx exporta el reporte de pendencias como planilla Excel.
package xlsx

import (
	"fmt"

	"github.com/jhoicas/pedidos-api/internal/domain/reconciliation"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Pendencias"

var headings = []interface{}{
	"Código", "Descripción", "Estado", "Pedido", "Facturado", "Pendiente", "Precio unit.", "Valor pendiente",
}

// PendencyExporter genera el .xlsx con una fila por código con faltante y una fila de totales.
type PendencyExporter struct{}

// NewPendencyExporter construye el exportador.
func NewPendencyExporter() *PendencyExporter { return &PendencyExporter{} }

func (e *PendencyExporter) Format() string { return "xlsx" }

func (e *PendencyExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export arma la planilla en memoria.
func (e *PendencyExporter) Export(orderNumber string, report reconciliation.PendencyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	inv := report.Invoice
	title := []interface{}{"Pedido", orderNumber, "NFe", inv.Number, "Serie", inv.Series, "Emisor", inv.IssuerName}
	if err := f.SetSheetRow(sheetName, "A1", &title); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A3", &headings); err != nil {
		return nil, fmt.Errorf("xlsx: encabezados: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A3", "H3", bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo encabezados: %w", err)
	}

	rowNo := 4
	for _, it := range report.Items {
		values := []interface{}{
			it.Code,
			it.Description,
			string(it.Status),
			it.OrderedQuantity.InexactFloat64(),
			it.InvoicedQuantity.InexactFloat64(),
			it.PendingQuantity.InexactFloat64(),
			it.UnitPrice.InexactFloat64(),
			it.PendingValue.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheetName, cell(1, rowNo), &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", rowNo, err)
		}
		rowNo++
	}

	totals := []interface{}{
		"TOTAL", "", "", "", "",
		report.TotalPendingPieces.InexactFloat64(),
		"",
		report.TotalPendingValue.InexactFloat64(),
	}
	if err := f.SetSheetRow(sheetName, cell(1, rowNo), &totals); err != nil {
		return nil, fmt.Errorf("xlsx: totales: %w", err)
	}
	if err := f.SetCellStyle(sheetName, cell(1, rowNo), cell(8, rowNo), bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo totales: %w", err)
	}
	if rowNo > 4 {
		if err := f.SetCellStyle(sheetName, "G4", cell(7, rowNo-1), money); err != nil {
			return nil, fmt.Errorf("xlsx: formato moneda: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetName, cell(8, 4), cell(8, rowNo), money); err != nil {
		return nil, fmt.Errorf("xlsx: formato moneda: %w", err)
	}
	_ = f.SetColWidth(sheetName, "B", "B", 40)
	_ = f.SetColWidth(sheetName, "G", "H", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
