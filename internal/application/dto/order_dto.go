package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddItemRequest body para POST /api/orders/:id/items.
type AddItemRequest struct {
	Code       string  `json:"code" validate:"required,max=60"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	CustomerID *string `json:"customer_id,omitempty" validate:"omitempty,uuid"`
}

// AddBulkRequest body para POST /api/orders/:id/items/bulk. Una línea por producto.
type AddBulkRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

// EditItemRequest body para PATCH /api/orders/:id/items/:itemId.
// unit_price y discount_percentage son excluyentes: el último elegido manda.
type EditItemRequest struct {
	Quantity           *int             `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitPrice          *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
}

// OrderLineItemResponse línea del pedido con reparto y montos.
type OrderLineItemResponse struct {
	ID                   string          `json:"id"`
	ProductID            string          `json:"product_id"`
	Code                 string          `json:"code"`
	Description          string          `json:"description"`
	RequestedQuantity    int             `json:"requested_quantity"`
	FulfilledQuantity    int             `json:"fulfilled_quantity"`
	PendingQuantity      int             `json:"pending_quantity"`
	HasPending           bool            `json:"has_pending"`
	OriginalUnitPrice    decimal.Decimal `json:"original_unit_price"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	TotalPrice           decimal.Decimal `json:"total_price"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	CommissionAmount     decimal.Decimal `json:"commission_amount"`
	ManualPrice          bool            `json:"manual_price"`
	CustomerID           *string         `json:"customer_id,omitempty"`
	Position             int             `json:"position"`
	CreatedAt            time.Time       `json:"created_at"`
}

// OrderTotalsResponse totales del pedido.
type OrderTotalsResponse struct {
	Total         decimal.Decimal `json:"total"`
	Discount      decimal.Decimal `json:"discount"`
	Commission    decimal.Decimal `json:"commission"`
	PendingPieces int             `json:"pending_pieces"`
}

// StockWarningDTO aviso (no error) de línea guardada con pendiente.
type StockWarningDTO struct {
	Line      int    `json:"line,omitempty"`
	Code      string `json:"code"`
	Requested int    `json:"requested"`
	Fulfilled int    `json:"fulfilled"`
	Pending   int    `json:"pending"`
	Message   string `json:"message"`
}

// OrderItemsResponse respuesta de las operaciones sobre líneas del pedido.
type OrderItemsResponse struct {
	OrderID  string                  `json:"order_id"`
	Status   string                  `json:"status"`
	Items    []OrderLineItemResponse `json:"items"`
	Totals   OrderTotalsResponse     `json:"totals"`
	Warnings []StockWarningDTO       `json:"warnings,omitempty"`
}

// BulkLineErrorDTO problema de una línea de la carga masiva.
type BulkLineErrorDTO struct {
	Line   int    `json:"line"`
	Code   string `json:"code,omitempty"`
	Kind   string `json:"kind"` // INVALID_FORMAT | NOT_FOUND
	Reason string `json:"reason"`
}

// BulkErrorResponse cuerpo 422 con todos los problemas de la carga.
type BulkErrorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Errors  []BulkLineErrorDTO `json:"errors"`
}
