package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de existencias sobre PostgreSQL. Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un asiento del libro.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, part_number, warehouse, location, movement_type, quantity, movement_date, reference_document, description, operator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.PartNumber, m.Warehouse, m.Location, m.MovementType, m.Quantity,
		m.MovementDate, m.ReferenceDocument, m.Description, m.Operator,
	)
	if err != nil {
		return mapError("create stock movement", err)
	}
	return nil
}

// List lista asientos del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f entity.StockMovementFilter, limit, offset int) ([]*entity.StockMovement, int, error) {
	var w where
	if f.PartNumber != "" {
		w.add("part_number ILIKE $%d", likePattern(f.PartNumber))
	}
	if f.Warehouse != "" {
		w.add("warehouse ILIKE $%d", likePattern(f.Warehouse))
	}
	if f.ReferenceDocument != "" {
		w.add("reference_document ILIKE $%d", likePattern(f.ReferenceDocument))
	}
	if f.MovementType != "" {
		w.add("movement_type = $%d", f.MovementType)
	}
	if f.From != nil {
		w.add("movement_date >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("movement_date <= $%d", *f.To)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count stock movements", err)
	}
	limitSQL, args := w.page(limit, offset)
	query := `
		SELECT id::TEXT, part_number, warehouse, location, movement_type, quantity, movement_date, reference_document, description, operator_id::TEXT
		FROM stock_movements` + w.sql() + ` ORDER BY movement_date DESC, id DESC` + limitSQL
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.PartNumber, &m.Warehouse, &m.Location, &m.MovementType,
			&m.Quantity, &m.MovementDate, &m.ReferenceDocument, &m.Description, &m.Operator); err != nil {
			return nil, 0, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}
