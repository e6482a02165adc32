package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido.
const (
	OrderStatusDraft     = "DRAFT"
	OrderStatusConfirmed = "CONFIRMED"
)

// Order es la cabecera del pedido de venta; es dueño de sus líneas una vez guardadas.
type Order struct {
	ID         string
	CompanyID  string
	CustomerID string
	Number     string
	Status     string
	Items      []*OrderLineItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderTotals agrega los montos de las líneas del pedido.
type OrderTotals struct {
	Total         decimal.Decimal
	Discount      decimal.Decimal
	Commission    decimal.Decimal
	PendingPieces int
}

// Totals suma total, descuento, comisión y piezas pendientes de todas las líneas.
func (o *Order) Totals() OrderTotals {
	var t OrderTotals
	for _, it := range o.Items {
		t.Total = t.Total.Add(it.TotalPrice)
		t.Discount = t.Discount.Add(it.DiscountAmount)
		t.Commission = t.Commission.Add(it.CommissionAmount)
		t.PendingPieces += it.PendingQuantity
	}
	return t
}

// NextPosition devuelve el índice de creación para la próxima línea.
func (o *Order) NextPosition() int {
	next := 0
	for _, it := range o.Items {
		if it.Position >= next {
			next = it.Position + 1
		}
	}
	return next
}

// FindItem busca una línea por ID.
func (o *Order) FindItem(id string) *OrderLineItem {
	for _, it := range o.Items {
		if it.ID == id {
			return it
		}
	}
	return nil
}
