package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineItem representa una línea del pedido con el reparto atendido/pendiente
// calculado contra el stock y los precios ya descontados.
// FulfilledQuantity + PendingQuantity == RequestedQuantity siempre.
// TotalPrice se calcula solo sobre FulfilledQuantity.
type OrderLineItem struct {
	ID                   string
	OrderID              string
	ProductID            string
	Code                 string
	Description          string
	RequestedQuantity    int
	FulfilledQuantity    int
	PendingQuantity      int
	HasPending           bool
	OriginalUnitPrice    decimal.Decimal
	UnitPrice            decimal.Decimal // con descuento o fijado manualmente
	DiscountPercentage   decimal.Decimal // 0-100
	DiscountAmount       decimal.Decimal
	TotalPrice           decimal.Decimal
	CommissionPercentage decimal.Decimal
	CommissionAmount     decimal.Decimal
	ManualPrice          bool    // true mientras el precio manual prevalece sobre el descuento
	CustomerID           *string // referencia opcional al cliente
	Position             int     // orden de creación dentro del pedido
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
