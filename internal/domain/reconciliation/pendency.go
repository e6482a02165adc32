package reconciliation

import (
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PendencyItem faltante de un código (pendente o parcial).
type PendencyItem struct {
	Code             string          `json:"code"`
	Description      string          `json:"description"`
	Status           Status          `json:"status"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	InvoicedQuantity decimal.Decimal `json:"invoiced_quantity"`
	PendingQuantity  decimal.Decimal `json:"pending_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	PendingValue     decimal.Decimal `json:"pending_value"`
}

// PendencyReport lo que falta entregar de un pedido según la nota recibida.
type PendencyReport struct {
	Items              []PendencyItem     `json:"items"`
	TotalPendingPieces decimal.Decimal    `json:"total_pending_pieces"`
	TotalPendingValue  decimal.Decimal    `json:"total_pending_value"`
	Invoice            entity.InvoiceMeta `json:"invoice"`
}

// BuildPendencyReport filtra los registros pendente/parcial y suma piezas y valor.
// La cantidad pendiente es el delta si es positivo; si no, lo pedido.
func BuildPendencyReport(records []Record, meta entity.InvoiceMeta) PendencyReport {
	rep := PendencyReport{
		Items:              []PendencyItem{},
		TotalPendingPieces: decimal.Zero,
		TotalPendingValue:  decimal.Zero,
		Invoice:            meta,
	}
	for _, r := range records {
		if r.Status != StatusPendente && r.Status != StatusParcial {
			continue
		}
		pending := r.OrderedQuantity
		if r.QuantityDelta.IsPositive() {
			pending = r.QuantityDelta
		}
		value := pending.Mul(r.OrderUnitPrice).Round(2)
		rep.Items = append(rep.Items, PendencyItem{
			Code:             r.Code,
			Description:      r.Description,
			Status:           r.Status,
			OrderedQuantity:  r.OrderedQuantity,
			InvoicedQuantity: r.InvoicedQuantity,
			PendingQuantity:  pending,
			UnitPrice:        r.OrderUnitPrice,
			PendingValue:     value,
		})
		rep.TotalPendingPieces = rep.TotalPendingPieces.Add(pending)
		rep.TotalPendingValue = rep.TotalPendingValue.Add(value)
	}
	return rep
}
