package orders

import (
	"context"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

// CatalogLookup consulta de catálogo en lote; ver repository.CatalogRepository.
type CatalogLookup interface {
	LookupByCodes(ctx context.Context, companyID string, codes []string) (map[string]entity.CatalogEntry, error)
}

// DiscountLookup política de descuento/comisión del cliente del pedido.
type DiscountLookup interface {
	PolicyFor(ctx context.Context, companyID, customerID string) (entity.DiscountPolicy, error)
}

// TxRunner ejecuta fn dentro de una transacción con el repositorio de pedidos atado a ella.
// Si fn devuelve error se hace Rollback y ninguna línea queda guardada.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(orders repository.OrderRepository) error) error
}
