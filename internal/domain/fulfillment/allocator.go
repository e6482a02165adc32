// Package fulfillment contiene los servicios de dominio puros que convierten una cantidad
// pedida en reparto atendido/pendiente y calculan precio, descuento y comisión de la línea.
// No hacen I/O: reciben la foto de stock y precios como argumentos.
package fulfillment

import (
	"fmt"

	"github.com/jhoicas/pedidos-api/internal/domain"
)

// Allocation resultado de repartir una cantidad pedida contra el stock disponible.
type Allocation struct {
	Fulfilled  int
	Pending    int
	HasPending bool
}

// Allocate reparte requested contra stock.
// Atendido = min(requested, max(stock, 0)); Pendiente = requested - Atendido.
// Stock negativo se trata como cero. requested <= 0 es ErrInvalidInput.
func Allocate(requested, stock int) (Allocation, error) {
	if requested <= 0 {
		return Allocation{}, fmt.Errorf("%w: la cantidad pedida debe ser mayor que cero (recibido %d)", domain.ErrInvalidInput, requested)
	}
	if stock < 0 {
		stock = 0
	}
	fulfilled := min(requested, stock)
	pending := requested - fulfilled
	return Allocation{
		Fulfilled:  fulfilled,
		Pending:    pending,
		HasPending: pending > 0,
	}, nil
}

// StockPool foto de stock local a una petición: permite asignar varias líneas del mismo
// código sin entregar dos veces la misma unidad. No bloquea ni reconsulta el stock real.
type StockPool struct {
	remaining map[string]int
}

// NewStockPool copia el stock disponible por código.
func NewStockPool(stockByCode map[string]int) *StockPool {
	remaining := make(map[string]int, len(stockByCode))
	for code, qty := range stockByCode {
		remaining[code] = qty
	}
	return &StockPool{remaining: remaining}
}

// Take asigna requested contra el stock restante de code y descuenta lo atendido.
func (p *StockPool) Take(code string, requested int) (Allocation, error) {
	a, err := Allocate(requested, p.remaining[code])
	if err != nil {
		return Allocation{}, err
	}
	if p.remaining[code] > 0 {
		p.remaining[code] -= a.Fulfilled
	}
	return a, nil
}
