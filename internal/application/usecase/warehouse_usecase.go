package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var nowUTC = func() time.Time { return time.Now().UTC() }

// WarehouseUseCase casos de uso para bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea una nueva bodega. El número de bodega es único.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	number := strings.TrimSpace(in.WarehouseNumber)
	existing, err := uc.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("buscar bodega: %w", err)
	}
	if existing != nil {
		return nil, domain.Errorf(domain.ErrDuplicate, "la bodega %s ya existe", number)
	}
	now := nowUTC()
	warehouse := &entity.Warehouse{
		ID:              inventory.NewID(),
		WarehouseNumber: number,
		Name:            in.Name,
		Location:        in.Location,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByNumber resuelve una bodega por su número, que es como la referencian
// las filas del libro de inventario.
func (uc *WarehouseUseCase) GetByNumber(ctx context.Context, number string) (*dto.WarehouseResponse, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "número de bodega requerido")
	}
	warehouse, err := uc.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "la bodega %s no existe", number)
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:              w.ID,
		WarehouseNumber: w.WarehouseNumber,
		Name:            w.Name,
		Location:        w.Location,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}
