package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/application/orders"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/bulk"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uc        *orders.UseCase
	repo      *fakeOrders
	catalog   *fakeCatalog
	discounts *fakeDiscounts
}

func newFixture(entries ...entity.CatalogEntry) *fixture {
	catalog := &fakeCatalog{entries: map[string]entity.CatalogEntry{}}
	for _, e := range entries {
		catalog.entries[e.Code] = e
	}
	repo := &fakeOrders{orders: map[string]*entity.Order{
		"ord-1": {ID: "ord-1", CompanyID: "co-1", CustomerID: "cli-1", Number: "P-0001", Status: entity.OrderStatusDraft},
	}}
	discounts := &fakeDiscounts{policy: entity.DiscountPolicy{
		DiscountPercentage:   decimal.NewFromInt(15),
		CommissionPercentage: decimal.NewFromInt(5),
	}}
	uc := orders.NewUseCase(&fakeTx{repo: repo}, repo, catalog, discounts, zerolog.Nop())
	return &fixture{uc: uc, repo: repo, catalog: catalog, discounts: discounts}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAddItem_StockInsuficienteGuardaConPendiente(t *testing.T) {
	f := newFixture(entry("ABC", 4, "100.00"))

	resp, err := f.uc.AddItem(context.Background(), "co-1", "ord-1", dto.AddItemRequest{Code: " abc ", Quantity: 10})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	it := resp.Items[0]
	assert.Equal(t, "ABC", it.Code)
	assert.Equal(t, 10, it.RequestedQuantity)
	assert.Equal(t, 4, it.FulfilledQuantity)
	assert.Equal(t, 6, it.PendingQuantity)
	assert.True(t, it.HasPending)
	assert.True(t, it.UnitPrice.Equal(dec("85")), "100 con 15% de descuento")
	assert.True(t, it.TotalPrice.Equal(dec("340")), "solo lo atendido suma al total")
	assert.True(t, it.DiscountAmount.Equal(dec("60")))
	assert.True(t, it.CommissionAmount.Equal(dec("17")))

	require.Len(t, resp.Warnings, 1, "el pendiente es un aviso, no un error")
	assert.Equal(t, 6, resp.Warnings[0].Pending)
	assert.Equal(t, 6, resp.Totals.PendingPieces)
	assert.Equal(t, 1, f.repo.replaced)
}

func TestAddItem_ClienteDeLaLineaDefineLaPolitica(t *testing.T) {
	f := newFixture(entry("ABC", 4, "10"))
	other := "cli-2"

	_, err := f.uc.AddItem(context.Background(), "co-1", "ord-1", dto.AddItemRequest{Code: "ABC", Quantity: 1, CustomerID: &other})
	require.NoError(t, err)
	assert.Equal(t, []string{"cli-2"}, f.discounts.asked)
}

func TestAddItem_Errores(t *testing.T) {
	f := newFixture(entry("ABC", 4, "10"))
	ctx := context.Background()

	_, err := f.uc.AddItem(ctx, "co-1", "ord-1", dto.AddItemRequest{Code: "ZZZ", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.uc.AddItem(ctx, "co-1", "ord-1", dto.AddItemRequest{Code: "###", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.AddItem(ctx, "co-1", "ord-1", dto.AddItemRequest{Code: "ABC", Quantity: 0})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.AddItem(ctx, "co-2", "ord-1", dto.AddItemRequest{Code: "ABC", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrForbidden), "pedido de otra empresa")

	_, err = f.uc.AddItem(ctx, "co-1", "ord-404", dto.AddItemRequest{Code: "ABC", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.Equal(t, 0, f.repo.replaced, "ningún error guarda líneas")
}

func TestAddItem_PedidoConfirmado(t *testing.T) {
	f := newFixture(entry("ABC", 4, "10"))
	f.repo.orders["ord-1"].Status = entity.OrderStatusConfirmed

	_, err := f.uc.AddItem(context.Background(), "co-1", "ord-1", dto.AddItemRequest{Code: "ABC", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestAddBulk_CodigoInexistenteNoAsignaNada(t *testing.T) {
	f := newFixture(entry("ABC123", 10, "5"), entry("XYZ-9", 10, "5"))

	resp, err := f.uc.AddBulk(context.Background(), "co-1", "ord-1", dto.AddBulkRequest{Text: "ABC123,5\nXYZ-9 3\nBADCODE"})

	assert.Nil(t, resp)
	var lineErrs bulk.Errors
	require.True(t, errors.As(err, &lineErrs))
	assert.Len(t, lineErrs, 1)
	assert.Equal(t, 0, f.repo.replaced)
	assert.Empty(t, f.repo.orders["ord-1"].Items)
}

func TestAddBulk_RepetidosConsumenElMismoStock(t *testing.T) {
	f := newFixture(entry("A1", 5, "10"), entry("B2", 0, "3"))

	resp, err := f.uc.AddBulk(context.Background(), "co-1", "ord-1", dto.AddBulkRequest{Text: "A1 3\nB2 2\nA1 4"})
	require.NoError(t, err)

	require.Len(t, resp.Items, 3)
	assert.Equal(t, []string{"A1", "B2", "A1"}, []string{resp.Items[0].Code, resp.Items[1].Code, resp.Items[2].Code}, "se respeta el orden del texto")
	assert.Equal(t, 3, resp.Items[0].FulfilledQuantity)
	assert.Equal(t, 0, resp.Items[1].FulfilledQuantity)
	assert.Equal(t, 2, resp.Items[2].FulfilledQuantity, "quedaban 2 de 5")
	assert.Equal(t, 2, resp.Items[2].PendingQuantity)
	assert.Equal(t, []int{0, 1, 2}, []int{resp.Items[0].Position, resp.Items[1].Position, resp.Items[2].Position})

	require.Len(t, resp.Warnings, 2)
	assert.Equal(t, 2, resp.Warnings[0].Line)
	assert.Equal(t, 3, resp.Warnings[1].Line)
	assert.Equal(t, 1, f.repo.replaced, "una sola escritura")
	assert.Len(t, f.catalog.calls, 1, "una sola consulta al catálogo")
}

func TestEditItem_PrecioManualYLuegoDescuento(t *testing.T) {
	f := newFixture(entry("ABC", 10, "100.00"))
	ctx := context.Background()
	resp, err := f.uc.AddItem(ctx, "co-1", "ord-1", dto.AddItemRequest{Code: "ABC", Quantity: 3})
	require.NoError(t, err)
	itemID := resp.Items[0].ID

	manual := dec("80")
	resp, err = f.uc.EditItem(ctx, "co-1", "ord-1", itemID, dto.EditItemRequest{UnitPrice: &manual})
	require.NoError(t, err)
	it := resp.Items[0]
	assert.True(t, it.ManualPrice)
	assert.True(t, it.UnitPrice.Equal(dec("80")))
	assert.True(t, it.DiscountPercentage.Equal(dec("20")), "descuento implícito")
	assert.True(t, it.TotalPrice.Equal(dec("240")))

	qty := 5
	resp, err = f.uc.EditItem(ctx, "co-1", "ord-1", itemID, dto.EditItemRequest{Quantity: &qty})
	require.NoError(t, err)
	it = resp.Items[0]
	assert.True(t, it.UnitPrice.Equal(dec("80")), "el precio manual se conserva al cambiar cantidad")
	assert.True(t, it.TotalPrice.Equal(dec("400")))

	disc := dec("10")
	resp, err = f.uc.EditItem(ctx, "co-1", "ord-1", itemID, dto.EditItemRequest{DiscountPercentage: &disc})
	require.NoError(t, err)
	it = resp.Items[0]
	assert.False(t, it.ManualPrice, "elegir descuento descarta el precio manual")
	assert.True(t, it.UnitPrice.Equal(dec("90")))
	assert.True(t, it.TotalPrice.Equal(dec("450")))
}

func TestEditItem_CantidadVuelveARepartir(t *testing.T) {
	f := newFixture(entry("ABC", 4, "10"))
	ctx := context.Background()
	resp, err := f.uc.AddItem(ctx, "co-1", "ord-1", dto.AddItemRequest{Code: "ABC", Quantity: 2})
	require.NoError(t, err)

	qty := 7
	resp, err = f.uc.EditItem(ctx, "co-1", "ord-1", resp.Items[0].ID, dto.EditItemRequest{Quantity: &qty})
	require.NoError(t, err)

	it := resp.Items[0]
	assert.Equal(t, 7, it.RequestedQuantity)
	assert.Equal(t, 4, it.FulfilledQuantity)
	assert.Equal(t, 3, it.PendingQuantity)
	assert.Len(t, resp.Warnings, 1)
}

func TestEditItem_Validaciones(t *testing.T) {
	f := newFixture(entry("ABC", 4, "10"))
	ctx := context.Background()
	price, disc := dec("5"), dec("5")

	_, err := f.uc.EditItem(ctx, "co-1", "ord-1", "x", dto.EditItemRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.EditItem(ctx, "co-1", "ord-1", "x", dto.EditItemRequest{UnitPrice: &price, DiscountPercentage: &disc})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.EditItem(ctx, "co-1", "ord-1", "no-existe", dto.EditItemRequest{UnitPrice: &price})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	resp, err := f.uc.AddItem(ctx, "co-1", "ord-1", dto.AddItemRequest{Code: "ABC", Quantity: 1})
	require.NoError(t, err)
	over := dec("120")
	_, err = f.uc.EditItem(ctx, "co-1", "ord-1", resp.Items[0].ID, dto.EditItemRequest{DiscountPercentage: &over})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "descuento mayor a 100")
}

func TestRemoveItemYListItems(t *testing.T) {
	f := newFixture(entry("A1", 5, "10"), entry("B2", 5, "3"))
	ctx := context.Background()
	resp, err := f.uc.AddBulk(ctx, "co-1", "ord-1", dto.AddBulkRequest{Text: "A1 1\nB2 2"})
	require.NoError(t, err)

	resp, err = f.uc.RemoveItem(ctx, "co-1", "ord-1", resp.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "B2", resp.Items[0].Code)

	_, err = f.uc.RemoveItem(ctx, "co-1", "ord-1", "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := f.uc.ListItems(ctx, "co-1", "ord-1")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.True(t, list.Totals.Total.Equal(dec("5.10")), "2 × 2.55")

	_, err = f.uc.ListItems(ctx, "co-9", "ord-1")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}
