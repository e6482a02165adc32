package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/fulfillment"
	"github.com/shopspring/decimal"
)

// newLine arma una línea nueva a partir del reparto y la política del cliente.
// Es el único camino de creación: alta individual y carga masiva pasan por aquí.
func newLine(orderID string, entry entity.CatalogEntry, requested int, alloc fulfillment.Allocation,
	policy entity.DiscountPolicy, customerID *string, position int, now time.Time,
) (*entity.OrderLineItem, error) {
	item := &entity.OrderLineItem{
		ID:                   uuid.New().String(),
		OrderID:              orderID,
		ProductID:            entry.ProductID,
		Code:                 entry.Code,
		Description:          entry.Description,
		OriginalUnitPrice:    entry.Price,
		DiscountPercentage:   policy.DiscountPercentage,
		CommissionPercentage: policy.CommissionPercentage,
		CustomerID:           customerID,
		Position:             position,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	applyAllocation(item, requested, alloc)
	if err := reprice(item); err != nil {
		return nil, fmt.Errorf("línea %s: %w", entry.Code, err)
	}
	return item, nil
}

func applyAllocation(item *entity.OrderLineItem, requested int, alloc fulfillment.Allocation) {
	item.RequestedQuantity = requested
	item.FulfilledQuantity = alloc.Fulfilled
	item.PendingQuantity = alloc.Pending
	item.HasPending = alloc.HasPending
}

// reprice recalcula los montos de la línea con lo atendido.
// Con ManualPrice el precio unitario actual prevalece y el descuento pasa a ser el implícito.
func reprice(item *entity.OrderLineItem) error {
	in := fulfillment.PriceInput{
		OriginalUnitPrice:    item.OriginalUnitPrice,
		DiscountPercentage:   item.DiscountPercentage,
		CommissionPercentage: item.CommissionPercentage,
		Quantity:             item.FulfilledQuantity,
	}
	if item.ManualPrice {
		manual := item.UnitPrice
		in.ManualUnitPrice = &manual
		in.DiscountPercentage = decimal.Zero
	}
	res, err := fulfillment.CalculatePrice(in)
	if err != nil {
		return err
	}
	item.UnitPrice = res.UnitPrice
	item.DiscountPercentage = res.DiscountPercentage
	item.TotalPrice = res.LineTotal
	item.DiscountAmount = res.DiscountAmount
	item.CommissionAmount = res.CommissionAmount
	return nil
}

func stockWarning(line int, item *entity.OrderLineItem) dto.StockWarningDTO {
	return dto.StockWarningDTO{
		Line:      line,
		Code:      item.Code,
		Requested: item.RequestedQuantity,
		Fulfilled: item.FulfilledQuantity,
		Pending:   item.PendingQuantity,
		Message:   fmt.Sprintf("stock insuficiente: %d atendidas, %d quedan pendientes", item.FulfilledQuantity, item.PendingQuantity),
	}
}

func toItemsResponse(order *entity.Order, warnings []dto.StockWarningDTO) *dto.OrderItemsResponse {
	items := make([]dto.OrderLineItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, dto.OrderLineItemResponse{
			ID:                   it.ID,
			ProductID:            it.ProductID,
			Code:                 it.Code,
			Description:          it.Description,
			RequestedQuantity:    it.RequestedQuantity,
			FulfilledQuantity:    it.FulfilledQuantity,
			PendingQuantity:      it.PendingQuantity,
			HasPending:           it.HasPending,
			OriginalUnitPrice:    it.OriginalUnitPrice,
			UnitPrice:            it.UnitPrice,
			DiscountPercentage:   it.DiscountPercentage,
			DiscountAmount:       it.DiscountAmount,
			TotalPrice:           it.TotalPrice,
			CommissionPercentage: it.CommissionPercentage,
			CommissionAmount:     it.CommissionAmount,
			ManualPrice:          it.ManualPrice,
			CustomerID:           it.CustomerID,
			Position:             it.Position,
			CreatedAt:            it.CreatedAt,
		})
	}
	totals := order.Totals()
	return &dto.OrderItemsResponse{
		OrderID: order.ID,
		Status:  order.Status,
		Items:   items,
		Totals: dto.OrderTotalsResponse{
			Total:         totals.Total,
			Discount:      totals.Discount,
			Commission:    totals.Commission,
			PendingPieces: totals.PendingPieces,
		},
		Warnings: warnings,
	}
}
