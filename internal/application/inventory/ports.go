package inventory

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Inventory      repository.InventoryRepository
	Movements      repository.StockMovementRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Receipts       repository.ReceiptRepository
	SalesOrders    repository.SalesOrderRepository
	Plans          repository.ProductionPlanRepository
	WorkProgress   repository.WorkProgressRepository
	Allocations    repository.MaterialAllocationRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Un bloqueo que no se obtiene dentro del
// tiempo configurado termina con domain.ErrLockContended.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// MovementPublisher difunde los asientos del libro una vez confirmada la transacción.
type MovementPublisher interface {
	PublishMovements(ctx context.Context, movs []*entity.StockMovement) error
}

// Metrics contadores del motor de inventario.
type Metrics interface {
	MovementRecorded(movementType string, quantity int64)
	OperationFailed(operation string, err error)
}

type nopMetrics struct{}

func (nopMetrics) MovementRecorded(string, int64) {}
func (nopMetrics) OperationFailed(string, error) {}
