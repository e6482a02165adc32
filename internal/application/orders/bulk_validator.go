package orders

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/bulk"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
)

// ValidatedBulk líneas que pasaron formato y existencia, con la foto de catálogo usada.
type ValidatedBulk struct {
	Requests []bulk.Request
	Catalog  map[string]entity.CatalogEntry
}

// BulkValidator validación en dos pasadas de la carga por texto:
// formato (bulk.Parse) y luego existencia con una sola consulta al catálogo.
type BulkValidator struct {
	catalog CatalogLookup
}

// NewBulkValidator construye el validador.
func NewBulkValidator(catalog CatalogLookup) *BulkValidator {
	return &BulkValidator{catalog: catalog}
}

// Validate devuelve siempre las líneas válidas encontradas. Si hubo cualquier
// problema el error es bulk.Errors con todos ellos y el llamador no debe asignar nada.
// Un fallo de la consulta al catálogo se devuelve tal cual (no es un error de línea).
func (v *BulkValidator) Validate(ctx context.Context, companyID, text string) (*ValidatedBulk, error) {
	parsed := bulk.Parse(text)
	errs := append(bulk.Errors{}, parsed.Errors...)
	if len(parsed.Requests) == 0 && len(errs) == 0 {
		errs = append(errs, &bulk.LineError{Err: domain.ErrInvalidInput, Reason: "no se informó ninguna línea"})
	}

	out := &ValidatedBulk{Catalog: map[string]entity.CatalogEntry{}}
	if codes := parsed.Codes(); len(codes) > 0 {
		found, err := v.catalog.LookupByCodes(ctx, companyID, codes)
		if err != nil {
			return nil, fmt.Errorf("consultar catálogo: %w", err)
		}
		out.Catalog = found
	}

	for _, req := range parsed.Requests {
		if _, ok := out.Catalog[req.Code]; !ok {
			errs = append(errs, &bulk.LineError{
				Line:   req.Line,
				Code:   req.Code,
				Err:    domain.ErrNotFound,
				Reason: "el código no existe en el catálogo",
			})
			continue
		}
		out.Requests = append(out.Requests, req)
	}

	if len(errs) > 0 {
		slices.SortStableFunc(errs, func(a, b *bulk.LineError) int { return cmp.Compare(a.Line, b.Line) })
		return out, errs
	}
	return out, nil
}
