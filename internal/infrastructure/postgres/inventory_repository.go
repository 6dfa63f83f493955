package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id::TEXT, part_number, warehouse, location, quantity, reserved, is_active, is_allocatable, last_updated`

func scanInventory(row pgxScanner) (*entity.Inventory, error) {
	var inv entity.Inventory
	if err := row.Scan(
		&inv.ID, &inv.PartNumber, &inv.Warehouse, &inv.Location,
		&inv.Quantity, &inv.Reserved, &inv.IsActive, &inv.IsAllocatable, &inv.LastUpdated,
	); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InventoryRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return inv, nil
}

// GetByID obtiene un registro sin bloqueo.
func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.Inventory, error) {
	return r.getOne(ctx, "get inventory",
		`SELECT `+inventoryColumns+` FROM inventory WHERE id = $1`, id)
}

// GetForUpdateByID obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdateByID(ctx context.Context, id string) (*entity.Inventory, error) {
	return r.getOne(ctx, "lock inventory",
		`SELECT `+inventoryColumns+` FROM inventory WHERE id = $1 FOR UPDATE`, id)
}

// GetForUpdate bloquea la fila de (parte, bodega, ubicación).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, key entity.InventoryKey) (*entity.Inventory, error) {
	return r.getOne(ctx, "lock inventory",
		`SELECT `+inventoryColumns+` FROM inventory
		WHERE part_number = $1 AND warehouse = $2 AND location = $3 FOR UPDATE`,
		key.PartNumber, key.Warehouse, key.Location)
}

// ListForUpdate bloquea todas las ubicaciones de (parte, bodega) en orden de ubicación.
func (r *InventoryRepo) ListForUpdate(ctx context.Context, partNumber, warehouse string) ([]*entity.Inventory, error) {
	return r.list(ctx, "lock inventory group",
		`SELECT `+inventoryColumns+` FROM inventory
		WHERE part_number = $1 AND warehouse = $2 ORDER BY location FOR UPDATE`,
		partNumber, warehouse)
}

// EnsureForUpdate inserta la fila en cero si no existe y la devuelve bloqueada.
// ON CONFLICT DO NOTHING resuelve la carrera entre dos creadores concurrentes.
func (r *InventoryRepo) EnsureForUpdate(ctx context.Context, key entity.InventoryKey) (*entity.Inventory, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory (id, part_number, warehouse, location, quantity, reserved, is_active, is_allocatable, last_updated)
		VALUES ($1, $2, $3, $4, 0, 0, TRUE, TRUE, now())
		ON CONFLICT (part_number, warehouse, location) DO NOTHING`,
		newUUID(), key.PartNumber, key.Warehouse, key.Location)
	if err != nil {
		return nil, mapError("ensure inventory", err)
	}
	inv, err := r.GetForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("ensure inventory: fila %s/%s/%s no visible tras insertar", key.PartNumber, key.Warehouse, key.Location)
	}
	return inv, nil
}

// Save persiste quantity y reserved. Los CHECK de la tabla rechazan negativos y reservado > existencia.
func (r *InventoryRepo) Save(ctx context.Context, inv *entity.Inventory) error {
	err := r.q.QueryRow(ctx, `
		UPDATE inventory SET quantity = $2, reserved = $3, last_updated = now()
		WHERE id = $1 RETURNING last_updated`,
		inv.ID, inv.Quantity, inv.Reserved).Scan(&inv.LastUpdated)
	if err != nil {
		if isNoRows(err) {
			return fmt.Errorf("save inventory: %s inexistente", inv.ID)
		}
		return mapError("save inventory", err)
	}
	return nil
}

// List lista con filtros de coincidencia parcial, ordenado por (parte, bodega, ubicación).
func (r *InventoryRepo) List(ctx context.Context, f entity.InventoryFilter, limit, offset int) ([]*entity.Inventory, int, error) {
	var w where
	if f.PartNumber != "" {
		w.add("part_number ILIKE $%d", likePattern(f.PartNumber))
	}
	if f.Warehouse != "" {
		w.add("warehouse ILIKE $%d", likePattern(f.Warehouse))
	}
	if f.Location != "" {
		w.add("location ILIKE $%d", likePattern(f.Location))
	}
	if f.HideZeroStock {
		w.conds = append(w.conds, "quantity > 0")
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count inventory", err)
	}
	limitSQL, args := w.page(limit, offset)
	list, err := r.list(ctx, "list inventory",
		`SELECT `+inventoryColumns+` FROM inventory`+w.sql()+` ORDER BY part_number, warehouse, location`+limitSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByLocation registros de una ubicación concreta.
func (r *InventoryRepo) ListByLocation(ctx context.Context, warehouse, location string) ([]*entity.Inventory, error) {
	return r.list(ctx, "list inventory by location",
		`SELECT `+inventoryColumns+` FROM inventory WHERE warehouse = $1 AND location = $2 ORDER BY part_number`,
		warehouse, location)
}

// ListLocations ubicaciones distintas de una bodega.
func (r *InventoryRepo) ListLocations(ctx context.Context, warehouse string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT location FROM inventory WHERE warehouse = $1 ORDER BY location`, warehouse)
	if err != nil {
		return nil, mapError("list locations", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// SumAvailable suma lo disponible (activo, asignable, sin reservar) de (parte, bodega).
// Bodega vacía suma todas las bodegas.
func (r *InventoryRepo) SumAvailable(ctx context.Context, partNumber, warehouse string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(GREATEST(quantity - reserved, 0)), 0)::BIGINT
		FROM inventory
		WHERE part_number = $1 AND ($2 = '' OR warehouse = $2) AND is_active AND is_allocatable`,
		partNumber, warehouse).Scan(&sum)
	if err != nil {
		return 0, mapError("sum available", err)
	}
	return sum, nil
}

func (r *InventoryRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	var out []*entity.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}
