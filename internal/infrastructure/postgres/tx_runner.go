package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/pedidos-api/internal/application/orders"
	"github.com/jhoicas/pedidos-api/internal/domain/repository"
)

var _ orders.TxRunner = (*TxRunner)(nil)

// TxRunner abre transacciones READ COMMITTED sobre el pool.
// El bloqueo de la cabecera (GetForUpdate) serializa las ediciones del mismo pedido.
type TxRunner struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// RunOrder ejecuta fn con un OrderRepo atado a la tx. Error de fn → Rollback; si no, Commit.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(orders repository.OrderRepository) error) error {
	var fnErr error
	err := pgx.BeginTxFunc(ctx, r.pool, r.opts, func(tx pgx.Tx) error {
		fnErr = fn(NewOrderRepository(tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return fmt.Errorf("transacción de pedido: %w", err)
	}
	return err
}
