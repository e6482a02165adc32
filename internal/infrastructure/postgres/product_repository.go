package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*ProductRepo)(nil)

// ProductRepo catálogo de productos con stock sumado de todas las bodegas (pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// LookupByCodes resuelve todos los códigos (SKU, sin distinguir mayúsculas) en una sola consulta.
// Las claves del mapa son los códigos en mayúsculas.
func (r *ProductRepo) LookupByCodes(ctx context.Context, companyID string, codes []string) (map[string]entity.CatalogEntry, error) {
	out := make(map[string]entity.CatalogEntry, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	upper := make([]string, 0, len(codes))
	for _, c := range codes {
		upper = append(upper, strings.ToUpper(c))
	}

	query := `
		SELECT p.id, upper(p.sku), COALESCE(NULLIF(p.description, ''), p.name), p.price,
		       COALESCE(SUM(s.quantity), 0)::bigint
		FROM products p
		LEFT JOIN stock s ON s.product_id = p.id
		WHERE p.company_id = $1 AND upper(p.sku) = ANY($2)
		GROUP BY p.id, p.sku, p.description, p.name, p.price`
	rows, err := r.q.Query(ctx, query, companyID, upper)
	if err != nil {
		return nil, fmt.Errorf("lookup products by code: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e entity.CatalogEntry
		var stock int64
		if err := rows.Scan(&e.ProductID, &e.Code, &e.Description, &e.Price, &stock); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		e.AvailableStock = int(stock)
		out[e.Code] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup products by code: %w", err)
	}
	return out, nil
}
