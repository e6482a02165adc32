package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, company_id, COALESCE(customer_id::text, ''), number, status, created_at, updated_at`

const itemColumns = `
	id, order_id, COALESCE(product_id::text, ''), code, description,
	requested_quantity, fulfilled_quantity, pending_quantity, has_pending,
	original_unit_price, unit_price, discount_percentage, discount_amount, total_price,
	commission_percentage, commission_amount, manual_price, customer_id, position,
	created_at, updated_at`

// GetByID obtiene el pedido con sus líneas en orden de creación.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene el pedido y bloquea la cabecera (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CompanyID, &o.CustomerID, &o.Number, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepo) listItems(ctx context.Context, orderID string) ([]*entity.OrderLineItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM order_items WHERE order_id = $1 ORDER BY position, created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []*entity.OrderLineItem
	for rows.Next() {
		it, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

// ReplaceItems borra las líneas del pedido e inserta items en un solo batch.
// Llamar dentro de una transacción: entre el DELETE y los INSERT el pedido queda sin líneas.
func (r *OrderRepo) ReplaceItems(ctx context.Context, orderID string, items []*entity.OrderLineItem) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM order_items WHERE order_id = $1`, orderID)
	for _, it := range items {
		batch.Queue(`
			INSERT INTO order_items (`+itemColumnsInsert+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
			it.ID, orderID, nullIfEmpty(it.ProductID), it.Code, it.Description,
			it.RequestedQuantity, it.FulfilledQuantity, it.PendingQuantity, it.HasPending,
			it.OriginalUnitPrice, it.UnitPrice, it.DiscountPercentage, it.DiscountAmount, it.TotalPrice,
			it.CommissionPercentage, it.CommissionAmount, it.ManualPrice, it.CustomerID, it.Position,
			it.CreatedAt, it.UpdatedAt,
		)
	}
	batch.Queue(`UPDATE orders SET updated_at = now() WHERE id = $1`, orderID)

	br := r.q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return fmt.Errorf("replace order items: línea duplicada: %w", err)
			}
			return fmt.Errorf("replace order items: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("replace order items: %w", err)
	}
	return nil
}

const itemColumnsInsert = `
	id, order_id, product_id, code, description,
	requested_quantity, fulfilled_quantity, pending_quantity, has_pending,
	original_unit_price, unit_price, discount_percentage, discount_amount, total_price,
	commission_percentage, commission_amount, manual_price, customer_id, position,
	created_at, updated_at`

func scanOrderItem(row pgxScanner) (*entity.OrderLineItem, error) {
	var it entity.OrderLineItem
	err := row.Scan(
		&it.ID, &it.OrderID, &it.ProductID, &it.Code, &it.Description,
		&it.RequestedQuantity, &it.FulfilledQuantity, &it.PendingQuantity, &it.HasPending,
		&it.OriginalUnitPrice, &it.UnitPrice, &it.DiscountPercentage, &it.DiscountAmount, &it.TotalPrice,
		&it.CommissionPercentage, &it.CommissionAmount, &it.ManualPrice, &it.CustomerID, &it.Position,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan order item: %w", err)
	}
	return &it, nil
}
