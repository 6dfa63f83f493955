package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout <= 0 deja el valor del servidor.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Un bloqueo no obtenido dentro de lockTimeout (o un interbloqueo) termina en domain.ErrLockContended.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// SET no admite parámetros; el valor es un entero controlado por config
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(ReposFor(tx)); err != nil {
		return contended(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return contended(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// ReposFor arma el conjunto de repositorios de inventario sobre q (pool o tx).
func ReposFor(q Querier) inventory.Repos {
	return inventory.Repos{
		Inventory:      NewInventoryRepository(q),
		Movements:      NewStockMovementRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Receipts:       NewReceiptRepository(q),
		SalesOrders:    NewSalesOrderRepository(q),
		Plans:          NewProductionPlanRepository(q),
		WorkProgress:   NewWorkProgressRepository(q),
		Allocations:    NewMaterialAllocationRepository(q),
	}
}

func contended(err error) error {
	if isLockError(err) {
		return domain.Errorf(domain.ErrLockContended, "%s", domain.ErrLockContended.Error())
	}
	return err
}

