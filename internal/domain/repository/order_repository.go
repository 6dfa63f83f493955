package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// PurchaseOrderRepository puerto de persistencia para pedidos de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// UpdateReceived persiste received_quantity y status.
	UpdateReceived(ctx context.Context, po *entity.PurchaseOrder) error
	List(ctx context.Context, f entity.PurchaseOrderFilter, limit, offset int) ([]*entity.PurchaseOrder, int, error)
}

// ReceiptRepository registros de recepción (solo inserción).
type ReceiptRepository interface {
	Create(ctx context.Context, r *entity.Receipt) error
	ListByPurchaseOrder(ctx context.Context, purchaseOrderID string) ([]*entity.Receipt, error)
}

// SalesOrderRepository puerto de persistencia para pedidos de venta.
type SalesOrderRepository interface {
	// CreateIfAbsent inserta so salvo que ya exista su OrderNumber; en ese caso devuelve
	// el existente y created=false.
	CreateIfAbsent(ctx context.Context, so *entity.SalesOrder) (*entity.SalesOrder, bool, error)
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	List(ctx context.Context, f entity.SalesOrderFilter, limit, offset int) ([]*entity.SalesOrder, int, error)
}
