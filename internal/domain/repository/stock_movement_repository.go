package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// StockMovementRepository puerto del libro de existencias. Solo inserción y consulta.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	List(ctx context.Context, f entity.StockMovementFilter, limit, offset int) ([]*entity.StockMovement, int, error)
}
