package orders_test

import (
	"context"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeCatalog struct {
	entries map[string]entity.CatalogEntry
	calls   [][]string
	err     error
}

func (f *fakeCatalog) LookupByCodes(_ context.Context, _ string, codes []string) (map[string]entity.CatalogEntry, error) {
	f.calls = append(f.calls, append([]string(nil), codes...))
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]entity.CatalogEntry, len(codes))
	for _, c := range codes {
		if e, ok := f.entries[c]; ok {
			out[c] = e
		}
	}
	return out, nil
}

type fakeDiscounts struct {
	policy entity.DiscountPolicy
	asked  []string
}

func (f *fakeDiscounts) PolicyFor(_ context.Context, _, customerID string) (entity.DiscountPolicy, error) {
	f.asked = append(f.asked, customerID)
	return f.policy, nil
}

type fakeOrders struct {
	orders   map[string]*entity.Order
	replaced int
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (f *fakeOrders) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeOrders) ReplaceItems(_ context.Context, orderID string, items []*entity.OrderLineItem) error {
	f.replaced++
	o := f.orders[orderID]
	o.Items = make([]*entity.OrderLineItem, 0, len(items))
	for _, it := range items {
		cp := *it
		o.Items = append(o.Items, &cp)
	}
	return nil
}

type fakeTx struct {
	repo *fakeOrders
}

func (f *fakeTx) RunOrder(_ context.Context, fn func(orders repository.OrderRepository) error) error {
	return fn(f.repo)
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = make([]*entity.OrderLineItem, 0, len(o.Items))
	for _, it := range o.Items {
		item := *it
		cp.Items = append(cp.Items, &item)
	}
	return &cp
}

func entry(code string, stock int, price string) entity.CatalogEntry {
	return entity.CatalogEntry{
		ProductID:      "prod-" + code,
		Code:           code,
		Description:    "Producto " + code,
		AvailableStock: stock,
		Price:          decimal.RequireFromString(price),
	}
}
