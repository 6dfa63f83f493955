package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, itemType string, limit, offset int) ([]*entity.Item, error)
}

// SupplierRepository proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
}

// MachineRepository máquinas.
type MachineRepository interface {
	Create(ctx context.Context, m *entity.Machine) error
	List(ctx context.Context, limit, offset int) ([]*entity.Machine, error)
}
