package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// ItemUseCase casos de uso del maestro de ítems. Las existencias no se tocan aquí:
// solo cambian vía movimientos del libro.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un ítem. El código (número de parte) es único.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := strings.TrimSpace(in.Code)
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Errorf(domain.ErrDuplicate, "el ítem %s ya existe", code)
	}
	if in.Unit == "" {
		in.Unit = "pcs"
	}
	now := nowUTC()
	item := &entity.Item{
		ID:               inventory.NewID(),
		Code:             code,
		Name:             in.Name,
		ItemType:         in.ItemType,
		Unit:             in.Unit,
		DefaultWarehouse: in.DefaultWarehouse,
		DefaultLocation:  in.DefaultLocation,
		ProvisionType:    in.ProvisionType,
		Description:      in.Description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update actualiza un ítem. Código y tipo no cambian.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.DefaultWarehouse != nil {
		item.DefaultWarehouse = *in.DefaultWarehouse
	}
	if in.DefaultLocation != nil {
		item.DefaultLocation = *in.DefaultLocation
	}
	if in.ProvisionType != nil {
		item.ProvisionType = *in.ProvisionType
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	item.UpdatedAt = nowUTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista ítems, opcionalmente por tipo, con paginación.
func (uc *ItemUseCase) List(ctx context.Context, itemType string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	if itemType != "" && itemType != entity.ItemTypeProduct && itemType != entity.ItemTypeMaterial {
		return nil, domain.Errorf(domain.ErrInvalidInput, "tipo de ítem inválido: %q", itemType)
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, itemType, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:               it.ID,
		Code:             it.Code,
		Name:             it.Name,
		ItemType:         it.ItemType,
		Unit:             it.Unit,
		DefaultWarehouse: it.DefaultWarehouse,
		DefaultLocation:  it.DefaultLocation,
		ProvisionType:    it.ProvisionType,
		Description:      it.Description,
		CreatedAt:        it.CreatedAt,
		UpdatedAt:        it.UpdatedAt,
	}
}
