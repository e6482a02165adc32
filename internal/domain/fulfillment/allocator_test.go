package fulfillment_test

import (
	"testing"

	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/fulfillment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_StockInsuficiente(t *testing.T) {
	a, err := fulfillment.Allocate(10, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, a.Fulfilled)
	assert.Equal(t, 6, a.Pending)
	assert.True(t, a.HasPending, "con 6 pendientes debe marcar HasPending")
}

func TestAllocate_StockSuficiente(t *testing.T) {
	a, err := fulfillment.Allocate(5, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, a.Fulfilled)
	assert.Equal(t, 0, a.Pending)
	assert.False(t, a.HasPending)
}

func TestAllocate_StockNegativoEsCero(t *testing.T) {
	a, err := fulfillment.Allocate(3, -7)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Fulfilled)
	assert.Equal(t, 3, a.Pending)
	assert.True(t, a.HasPending)
}

func TestAllocate_CantidadNoPositiva(t *testing.T) {
	for _, q := range []int{0, -1, -100} {
		_, err := fulfillment.Allocate(q, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d debe ser rechazada", q)
	}
}

// TestAllocate_RepartoCompleto recorre una grilla de cantidades y stocks y comprueba
// fulfilled = min(requested, max(stock,0)) y fulfilled + pending = requested.
func TestAllocate_RepartoCompleto(t *testing.T) {
	for requested := 1; requested <= 25; requested++ {
		for stock := -5; stock <= 30; stock++ {
			a, err := fulfillment.Allocate(requested, stock)
			require.NoError(t, err)

			want := min(requested, max(stock, 0))
			assert.Equal(t, want, a.Fulfilled, "requested=%d stock=%d", requested, stock)
			assert.Equal(t, requested, a.Fulfilled+a.Pending, "requested=%d stock=%d", requested, stock)
			assert.Equal(t, a.Pending > 0, a.HasPending)
		}
	}
}

func TestStockPool_DuplicadosNoReusanUnidades(t *testing.T) {
	pool := fulfillment.NewStockPool(map[string]int{"ABC": 5})

	first, err := pool.Take("ABC", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Fulfilled)

	second, err := pool.Take("ABC", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Fulfilled, "solo quedan 2 unidades tras la primera línea")
	assert.Equal(t, 1, second.Pending)

	third, err := pool.Take("ABC", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, third.Fulfilled)
	assert.True(t, third.HasPending)
}

func TestStockPool_CodigoDesconocidoSinStock(t *testing.T) {
	pool := fulfillment.NewStockPool(nil)
	a, err := pool.Take("NOPE", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Fulfilled)
	assert.Equal(t, 2, a.Pending)
}
