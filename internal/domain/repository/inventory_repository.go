package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// InventoryRepository puerto de persistencia de registros de inventario.
// Los métodos *ForUpdate toman bloqueo de fila y solo tienen sentido dentro de una transacción.
// Las lecturas sin resultado devuelven nil, nil.
type InventoryRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Inventory, error)
	GetForUpdateByID(ctx context.Context, id string) (*entity.Inventory, error)
	GetForUpdate(ctx context.Context, key entity.InventoryKey) (*entity.Inventory, error)
	// ListForUpdate bloquea todas las ubicaciones de (parte, bodega), ordenadas por ubicación.
	ListForUpdate(ctx context.Context, partNumber, warehouse string) ([]*entity.Inventory, error)
	// EnsureForUpdate crea la fila si no existe (ON CONFLICT) y la devuelve bloqueada.
	EnsureForUpdate(ctx context.Context, key entity.InventoryKey) (*entity.Inventory, error)
	// Save persiste quantity y reserved de una fila previamente bloqueada.
	Save(ctx context.Context, inv *entity.Inventory) error
	List(ctx context.Context, f entity.InventoryFilter, limit, offset int) ([]*entity.Inventory, int, error)
	ListByLocation(ctx context.Context, warehouse, location string) ([]*entity.Inventory, error)
	ListLocations(ctx context.Context, warehouse string) ([]string, error)
	// SumAvailable con warehouse vacío suma todas las bodegas.
	SumAvailable(ctx context.Context, partNumber, warehouse string) (int64, error)
}
