package repository

import (
	"context"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// CatalogRepository consulta productos y stock disponible por código.
type CatalogRepository interface {
	// LookupByCodes resuelve todos los códigos en una sola consulta.
	// Un código ausente del mapa no existe en el catálogo de la empresa.
	LookupByCodes(ctx context.Context, companyID string, codes []string) (map[string]entity.CatalogEntry, error)
}

// DiscountPolicyRepository descuento y comisión por cliente.
type DiscountPolicyRepository interface {
	// PolicyFor devuelve la política del cliente o una política en cero si no tiene.
	PolicyFor(ctx context.Context, companyID, customerID string) (entity.DiscountPolicy, error)
}
