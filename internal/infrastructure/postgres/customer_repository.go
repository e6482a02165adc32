package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DiscountPolicyRepository = (*CustomerRepo)(nil)

// CustomerRepo política comercial del cliente (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// PolicyFor obtiene descuento y comisión del cliente. Sin cliente o sin fila la política es cero.
func (r *CustomerRepo) PolicyFor(ctx context.Context, companyID, customerID string) (entity.DiscountPolicy, error) {
	zero := entity.DiscountPolicy{DiscountPercentage: decimal.Zero, CommissionPercentage: decimal.Zero}
	if customerID == "" {
		return zero, nil
	}
	query := `
		SELECT COALESCE(discount_percentage, 0), COALESCE(commission_percentage, 0)
		FROM customers WHERE id = $1 AND company_id = $2`
	var p entity.DiscountPolicy
	err := r.q.QueryRow(ctx, query, customerID, companyID).Scan(&p.DiscountPercentage, &p.CommissionPercentage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, nil
		}
		return zero, fmt.Errorf("get customer policy: %w", err)
	}
	return p, nil
}
