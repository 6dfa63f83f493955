package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.InspectionRepository = (*InspectionRepo)(nil)

// InspectionRepo ítems de inspección con sus mediciones.
type InspectionRepo struct {
	pool *pgxpool.Pool
}

// NewInspectionRepository construye el adaptador.
func NewInspectionRepository(pool *pgxpool.Pool) *InspectionRepo {
	return &InspectionRepo{pool: pool}
}

// Create persiste el ítem y sus mediciones en una sola transacción.
func (r *InspectionRepo) Create(ctx context.Context, item *entity.InspectionItem) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO inspection_items (id, code, name, description, inspection_type, target_object_type, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID, item.Code, item.Name, item.Description, item.InspectionType, item.TargetObjectType,
			item.IsActive, item.CreatedAt, item.UpdatedAt)
		if err != nil {
			return mapError("insert inspection item", err)
		}
		batch := &pgx.Batch{}
		for _, m := range item.Measurements {
			batch.Queue(`
				INSERT INTO measurement_details (id, inspection_item_id, name, measurement_type, nominal, upper_limit, lower_limit, unit, expected_qualitative, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				m.ID, item.ID, m.Name, m.MeasurementType, m.Nominal, m.UpperLimit, m.LowerLimit,
				m.Unit, m.ExpectedQualitative, m.Order)
		}
		if batch.Len() == 0 {
			return nil
		}
		return mapError("insert measurement details", tx.SendBatch(ctx, batch).Close())
	})
}

// GetByID obtiene un ítem con sus mediciones ordenadas.
func (r *InspectionRepo) GetByID(ctx context.Context, id string) (*entity.InspectionItem, error) {
	var it entity.InspectionItem
	err := r.pool.QueryRow(ctx, `
		SELECT id::TEXT, code, name, description, inspection_type, target_object_type, is_active, created_at, updated_at
		FROM inspection_items WHERE id = $1`, id).Scan(
		&it.ID, &it.Code, &it.Name, &it.Description, &it.InspectionType, &it.TargetObjectType,
		&it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inspection item: %w", err)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::TEXT, inspection_item_id::TEXT, name, measurement_type, nominal, upper_limit, lower_limit, unit, expected_qualitative, sort_order
		FROM measurement_details WHERE inspection_item_id = $1 ORDER BY sort_order, name`, id)
	if err != nil {
		return nil, fmt.Errorf("list measurement details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m entity.MeasurementDetail
		if err := rows.Scan(&m.ID, &m.InspectionItemID, &m.Name, &m.MeasurementType, &m.Nominal, &m.UpperLimit,
			&m.LowerLimit, &m.Unit, &m.ExpectedQualitative, &m.Order); err != nil {
			return nil, fmt.Errorf("scan measurement detail: %w", err)
		}
		it.Measurements = append(it.Measurements, m)
	}
	return &it, rows.Err()
}

// List lista ítems por código, sin mediciones.
func (r *InspectionRepo) List(ctx context.Context, limit, offset int) ([]*entity.InspectionItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::TEXT, code, name, description, inspection_type, target_object_type, is_active, created_at, updated_at
		FROM inspection_items ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inspection items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InspectionItem
	for rows.Next() {
		var it entity.InspectionItem
		if err := rows.Scan(&it.ID, &it.Code, &it.Name, &it.Description, &it.InspectionType,
			&it.TargetObjectType, &it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inspection item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
