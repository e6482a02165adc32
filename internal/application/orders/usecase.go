package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/bulk"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/fulfillment"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// UseCase altas, ediciones y bajas de líneas de pedido.
// Todas las altas pasan por la misma asignación de stock y el mismo cálculo de precio;
// la persistencia ocurre al final, dentro de una transacción, solo si todo validó.
type UseCase struct {
	txRunner  TxRunner
	orders    repository.OrderRepository
	catalog   CatalogLookup
	discounts DiscountLookup
	validator *BulkValidator
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	orders repository.OrderRepository,
	catalog CatalogLookup,
	discounts DiscountLookup,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		orders:    orders,
		catalog:   catalog,
		discounts: discounts,
		validator: NewBulkValidator(catalog),
		log:       log.With().Str("component", "orders").Logger(),
		now:       time.Now,
	}
}

// ListItems devuelve las líneas y totales del pedido.
func (uc *UseCase) ListItems(ctx context.Context, companyID, orderID string) (*dto.OrderItemsResponse, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(order, companyID); err != nil {
		return nil, err
	}
	return toItemsResponse(order, nil), nil
}

// AddItem agrega una línea. Si el stock no alcanza la línea se guarda igual con
// pendiente y se devuelve un aviso.
func (uc *UseCase) AddItem(ctx context.Context, companyID, orderID string, in dto.AddItemRequest) (*dto.OrderItemsResponse, error) {
	code := bulk.CleanCode(in.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: código vacío", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}

	var warnings []dto.StockWarningDTO
	order, err := uc.mutate(ctx, companyID, orderID, func(order *entity.Order) error {
		found, err := uc.catalog.LookupByCodes(ctx, companyID, []string{code})
		if err != nil {
			return fmt.Errorf("consultar catálogo: %w", err)
		}
		entry, ok := found[code]
		if !ok {
			return fmt.Errorf("%w: código %s", domain.ErrNotFound, code)
		}
		customerID := order.CustomerID
		if in.CustomerID != nil && *in.CustomerID != "" {
			customerID = *in.CustomerID
		}
		policy, err := uc.discounts.PolicyFor(ctx, companyID, customerID)
		if err != nil {
			return fmt.Errorf("política de descuento: %w", err)
		}
		alloc, err := fulfillment.Allocate(in.Quantity, entry.AvailableStock)
		if err != nil {
			return err
		}
		item, err := newLine(order.ID, entry, in.Quantity, alloc, policy, in.CustomerID, order.NextPosition(), uc.now())
		if err != nil {
			return err
		}
		order.Items = append(order.Items, item)
		if item.HasPending {
			warnings = append(warnings, stockWarning(0, item))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logWarnings(orderID, warnings)
	return toItemsResponse(order, warnings), nil
}

// AddBulk agrega las líneas de un texto libre. Si alguna línea tiene problemas
// de formato o de existencia devuelve bulk.Errors con todos ellos y no guarda nada.
// Códigos repetidos se asignan contra una copia local del stock para no entregar
// dos veces la misma unidad dentro de la misma carga.
func (uc *UseCase) AddBulk(ctx context.Context, companyID, orderID string, in dto.AddBulkRequest) (*dto.OrderItemsResponse, error) {
	var warnings []dto.StockWarningDTO
	order, err := uc.mutate(ctx, companyID, orderID, func(order *entity.Order) error {
		validated, err := uc.validator.Validate(ctx, companyID, in.Text)
		if err != nil {
			return err
		}
		policy, err := uc.discounts.PolicyFor(ctx, companyID, order.CustomerID)
		if err != nil {
			return fmt.Errorf("política de descuento: %w", err)
		}

		stock := make(map[string]int, len(validated.Catalog))
		for code, entry := range validated.Catalog {
			stock[code] = entry.AvailableStock
		}
		pool := fulfillment.NewStockPool(stock)
		position := order.NextPosition()
		now := uc.now()

		lines := make([]*entity.OrderLineItem, 0, len(validated.Requests))
		for _, req := range validated.Requests {
			alloc, err := pool.Take(req.Code, req.Quantity)
			if err != nil {
				return err
			}
			item, err := newLine(order.ID, validated.Catalog[req.Code], req.Quantity, alloc, policy, nil, position, now)
			if err != nil {
				return err
			}
			position++
			lines = append(lines, item)
			if item.HasPending {
				warnings = append(warnings, stockWarning(req.Line, item))
			}
		}
		order.Items = append(order.Items, lines...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logWarnings(orderID, warnings)
	return toItemsResponse(order, warnings), nil
}

// EditItem cambia cantidad, precio manual o descuento de una línea.
// Un precio manual marca la línea y manda sobre el descuento; elegir un descuento
// después descarta el precio manual y recalcula. Cambiar la cantidad vuelve a
// repartir contra el stock actual del producto.
func (uc *UseCase) EditItem(ctx context.Context, companyID, orderID, itemID string, in dto.EditItemRequest) (*dto.OrderItemsResponse, error) {
	if in.Quantity == nil && in.UnitPrice == nil && in.DiscountPercentage == nil {
		return nil, fmt.Errorf("%w: no hay cambios", domain.ErrInvalidInput)
	}
	if in.UnitPrice != nil && in.DiscountPercentage != nil {
		return nil, fmt.Errorf("%w: precio manual y descuento son excluyentes", domain.ErrInvalidInput)
	}

	var warnings []dto.StockWarningDTO
	order, err := uc.mutate(ctx, companyID, orderID, func(order *entity.Order) error {
		item := order.FindItem(itemID)
		if item == nil {
			return fmt.Errorf("%w: línea %s", domain.ErrNotFound, itemID)
		}

		if in.Quantity != nil {
			found, err := uc.catalog.LookupByCodes(ctx, companyID, []string{item.Code})
			if err != nil {
				return fmt.Errorf("consultar catálogo: %w", err)
			}
			entry, ok := found[item.Code]
			if !ok {
				return fmt.Errorf("%w: código %s", domain.ErrNotFound, item.Code)
			}
			alloc, err := fulfillment.Allocate(*in.Quantity, entry.AvailableStock)
			if err != nil {
				return err
			}
			applyAllocation(item, *in.Quantity, alloc)
			if alloc.HasPending {
				warnings = append(warnings, stockWarning(0, item))
			}
		}
		switch {
		case in.UnitPrice != nil:
			item.ManualPrice = true
			item.UnitPrice = *in.UnitPrice
		case in.DiscountPercentage != nil:
			item.ManualPrice = false
			item.DiscountPercentage = *in.DiscountPercentage
		}
		if err := reprice(item); err != nil {
			return err
		}
		item.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logWarnings(orderID, warnings)
	return toItemsResponse(order, warnings), nil
}

// RemoveItem quita una línea del pedido.
func (uc *UseCase) RemoveItem(ctx context.Context, companyID, orderID, itemID string) (*dto.OrderItemsResponse, error) {
	order, err := uc.mutate(ctx, companyID, orderID, func(order *entity.Order) error {
		kept := make([]*entity.OrderLineItem, 0, len(order.Items))
		for _, it := range order.Items {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		if len(kept) == len(order.Items) {
			return fmt.Errorf("%w: línea %s", domain.ErrNotFound, itemID)
		}
		order.Items = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toItemsResponse(order, nil), nil
}

// mutate bloquea el pedido, aplica fn sobre sus líneas y las guarda en la misma tx.
func (uc *UseCase) mutate(ctx context.Context, companyID, orderID string, fn func(order *entity.Order) error) (*entity.Order, error) {
	var result *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(orders repository.OrderRepository) error {
		order, err := orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := checkOwnership(order, companyID); err != nil {
			return err
		}
		if order.Status == entity.OrderStatusConfirmed {
			return fmt.Errorf("%w: el pedido %s ya fue confirmado", domain.ErrConflict, order.Number)
		}
		if err := fn(order); err != nil {
			return err
		}
		if err := orders.ReplaceItems(ctx, order.ID, order.Items); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func checkOwnership(order *entity.Order, companyID string) error {
	if order == nil {
		return domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

func (uc *UseCase) logWarnings(orderID string, warnings []dto.StockWarningDTO) {
	for _, w := range warnings {
		uc.log.Warn().
			Str("order_id", orderID).
			Str("code", w.Code).
			Int("requested", w.Requested).
			Int("fulfilled", w.Fulfilled).
			Int("pending", w.Pending).
			Msg("línea guardada con pendiente por falta de stock")
	}
}
