// Package reconciliation confiere los ítems de un pedido contra las líneas de
// la nota fiscal (NFe) del proveedor y arma el reporte de pendencias.
//
// Todo es puro: recibe listas ya cargadas y no hace I/O.
package reconciliation

import (
	"fmt"
	"strings"

	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Status situación de entrega de un código.
type Status string

const (
	StatusCompleto Status = "completo"
	StatusParcial  Status = "parcial"
	StatusPendente Status = "pendente"
	StatusExtra    Status = "extra"
)

// Strategy define de dónde sale la clave de la línea de la nota.
type Strategy string

const (
	// MatchByDescription usa el primer token de xProd. Es el comportamiento histórico.
	MatchByDescription Strategy = "description"
	// MatchBySupplierCode usa el cProd estructurado.
	MatchBySupplierCode Strategy = "supplier_code"
)

// ParseStrategy interpreta el valor recibido por query/config. Vacío = descripción.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchByDescription:
		return MatchByDescription, nil
	case MatchBySupplierCode:
		return MatchBySupplierCode, nil
	default:
		return "", fmt.Errorf("%w: estrategia de conferencia desconocida %q", domain.ErrInvalidInput, s)
	}
}

// OrderItem lo que el conferidor necesita de un ítem del pedido.
type OrderItem struct {
	Code        string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Record resultado por código.
type Record struct {
	Code             string          `json:"code"`
	Description      string          `json:"description"`
	Status           Status          `json:"status"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	InvoicedQuantity decimal.Decimal `json:"invoiced_quantity"`
	QuantityDelta    decimal.Decimal `json:"quantity_delta"`
	OrderUnitPrice   decimal.Decimal `json:"order_unit_price"`
	InvoiceUnitPrice decimal.Decimal `json:"invoice_unit_price"`
}

// Summary conteo por estado más el tamaño de cada lado.
type Summary struct {
	Completos         int `json:"completos"`
	Parciais          int `json:"parciais"`
	Pendentes         int `json:"pendentes"`
	Extras            int `json:"extras"`
	TotalOrderItems   int `json:"total_order_items"`
	TotalInvoiceItems int `json:"total_invoice_items"`
}

// Result registros (primero los del pedido, luego los extras) y resumen.
type Result struct {
	Records []Record `json:"records"`
	Summary Summary  `json:"summary"`
}

// NormalizeCode devuelve la clave de conferencia de un texto: el primer token
// sin espacios, en mayúsculas, recortado a su prefijo en [A-Z0-9/-].
//
//	"abc-12/3 PARAFUSO 10mm" → "ABC-12/3"
//	"XY.9 tampa"             → "XY"
func NormalizeCode(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	token := strings.ToUpper(fields[0])
	end := 0
	for end < len(token) && isCodeByte(token[end]) {
		end++
	}
	return token[:end]
}

func isCodeByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '/' || c == '-'
}

// InvoiceKey clave de la línea de la nota según la estrategia.
func InvoiceKey(item entity.InvoiceLineItem, strategy Strategy) string {
	if strategy == MatchBySupplierCode {
		return NormalizeCode(item.SupplierCode)
	}
	if item.MatchCode != "" {
		return item.MatchCode
	}
	return NormalizeCode(item.Description)
}

type orderEntry struct {
	item  OrderItem
	code  string
	total decimal.Decimal
}

type invoiceEntry struct {
	item  entity.InvoiceLineItem
	key   string
	total decimal.Decimal
}

// Match clasifica cada ítem del pedido y cada línea de la nota en exactamente un registro.
// Códigos repetidos en un mismo lado se suman en un solo registro (se conserva
// la primera descripción y el primer precio). Las líneas de la nota sin clave
// válida no pueden conferir contra nada y salen como extra.
func Match(orderItems []OrderItem, invoiceItems []entity.InvoiceLineItem, strategy Strategy) Result {
	orderMap := make(map[string]*orderEntry, len(orderItems))
	orderSeq := make([]*orderEntry, 0, len(orderItems))
	for _, it := range orderItems {
		code := strings.ToUpper(strings.TrimSpace(it.Code))
		if e, ok := orderMap[code]; ok {
			e.total = e.total.Add(it.Quantity)
			continue
		}
		e := &orderEntry{item: it, code: code, total: it.Quantity}
		orderMap[code] = e
		orderSeq = append(orderSeq, e)
	}

	invoiceMap := make(map[string]*invoiceEntry, len(invoiceItems))
	invoiceSeq := make([]*invoiceEntry, 0, len(invoiceItems))
	for _, it := range invoiceItems {
		key := InvoiceKey(it, strategy)
		if key != "" {
			if e, ok := invoiceMap[key]; ok {
				e.total = e.total.Add(it.Quantity)
				continue
			}
		}
		e := &invoiceEntry{item: it, key: key, total: it.Quantity}
		if key != "" {
			invoiceMap[key] = e
		}
		invoiceSeq = append(invoiceSeq, e)
	}

	res := Result{
		Records: make([]Record, 0, len(orderSeq)+len(invoiceSeq)),
		Summary: Summary{TotalOrderItems: len(orderItems), TotalInvoiceItems: len(invoiceItems)},
	}

	for _, o := range orderSeq {
		rec := Record{
			Code:            o.code,
			Description:     o.item.Description,
			OrderedQuantity: o.total,
			OrderUnitPrice:  o.item.UnitPrice,
		}
		inv, found := invoiceMap[o.code]
		if found {
			rec.InvoicedQuantity = inv.total
			rec.InvoiceUnitPrice = inv.item.UnitPrice
		}
		rec.QuantityDelta = rec.OrderedQuantity.Sub(rec.InvoicedQuantity)
		rec.Status = classify(rec.OrderedQuantity, rec.InvoicedQuantity, found)
		res.Summary.count(rec.Status)
		res.Records = append(res.Records, rec)
	}

	for _, inv := range invoiceSeq {
		if inv.key != "" {
			if _, ok := orderMap[inv.key]; ok {
				continue
			}
		}
		rec := Record{
			Code:             inv.key,
			Description:      inv.item.Description,
			Status:           StatusExtra,
			InvoicedQuantity: inv.total,
			QuantityDelta:    inv.total.Neg(),
			InvoiceUnitPrice: inv.item.UnitPrice,
		}
		res.Summary.count(StatusExtra)
		res.Records = append(res.Records, rec)
	}
	return res
}

func classify(ordered, invoiced decimal.Decimal, found bool) Status {
	switch {
	case !found, !invoiced.IsPositive():
		return StatusPendente
	case invoiced.LessThan(ordered):
		return StatusParcial
	default:
		return StatusCompleto
	}
}

func (s *Summary) count(st Status) {
	switch st {
	case StatusCompleto:
		s.Completos++
	case StatusParcial:
		s.Parciais++
	case StatusPendente:
		s.Pendentes++
	case StatusExtra:
		s.Extras++
	}
}
