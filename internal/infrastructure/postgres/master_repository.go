package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository     = (*ItemRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.MachineRepository  = (*MachineRepo)(nil)
)

// ItemRepo maestro de ítems.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id::TEXT, code, name, item_type, unit, default_warehouse, default_location, provision_type, description, created_at, updated_at`

func scanItem(row pgxScanner) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(&it.ID, &it.Code, &it.Name, &it.ItemType, &it.Unit, &it.DefaultWarehouse,
		&it.DefaultLocation, &it.ProvisionType, &it.Description, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un ítem.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (id, code, name, item_type, unit, default_warehouse, default_location, provision_type, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Code, it.Name, it.ItemType, it.Unit, it.DefaultWarehouse, it.DefaultLocation,
		it.ProvisionType, it.Description, it.CreatedAt, it.UpdatedAt,
	)
	return mapError("insert item", err)
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetByCode obtiene un ítem por número de parte.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE code = $1`, code)
}

func (r *ItemRepo) getOne(ctx context.Context, query, arg string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Update actualiza un ítem existente. El código no cambia.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET name = $2, item_type = $3, unit = $4, default_warehouse = $5, default_location = $6,
			provision_type = $7, description = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Name, it.ItemType, it.Unit, it.DefaultWarehouse, it.DefaultLocation,
		it.ProvisionType, it.Description, it.UpdatedAt,
	)
	return mapError("update item", err)
}

// List lista ítems por código, opcionalmente por tipo.
func (r *ItemRepo) List(ctx context.Context, itemType string, limit, offset int) ([]*entity.Item, error) {
	var w where
	if itemType != "" {
		w.add("item_type = $%d", itemType)
	}
	limitSQL, args := w.page(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items`+w.sql()+` ORDER BY code`+limitSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// SupplierRepo proveedores.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de persistencia para proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (id, supplier_number, name, contact_person, phone, email, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.SupplierNumber, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address, s.CreatedAt)
	return mapError("insert supplier", err)
}

// List lista proveedores por número.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::TEXT, supplier_number, name, contact_person, phone, email, address, created_at
		FROM suppliers ORDER BY supplier_number LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.SupplierNumber, &s.Name, &s.ContactPerson, &s.Phone, &s.Email, &s.Address, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// MachineRepo máquinas.
type MachineRepo struct {
	q Querier
}

// NewMachineRepository construye el adaptador de persistencia para máquinas.
func NewMachineRepository(q Querier) *MachineRepo {
	return &MachineRepo{q: q}
}

// Create persiste una máquina.
func (r *MachineRepo) Create(ctx context.Context, m *entity.Machine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO machines (id, machine_number, name, machine_type, location, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.MachineNumber, m.Name, m.MachineType, m.Location, m.Description, m.CreatedAt)
	return mapError("insert machine", err)
}

// List lista máquinas por número.
func (r *MachineRepo) List(ctx context.Context, limit, offset int) ([]*entity.Machine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::TEXT, machine_number, name, machine_type, location, description, created_at
		FROM machines ORDER BY machine_number LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	defer rows.Close()
	var list []*entity.Machine
	for rows.Next() {
		var m entity.Machine
		if err := rows.Scan(&m.ID, &m.MachineNumber, &m.Name, &m.MachineType, &m.Location, &m.Description, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
