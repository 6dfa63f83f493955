package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// ShelfLabel etiqueta de estantería: un QR por ubicación.
type ShelfLabel struct {
	Warehouse   string
	Location    string
	Payload     string
	PartNumbers []string
}

// ShelfLabelGenerator renderiza una hoja de etiquetas (PDF).
type ShelfLabelGenerator interface {
	GenerateShelfLabels(ctx context.Context, warehouse string, labels []ShelfLabel) ([]byte, error)
}

// LocationPayload texto codificado en el QR de una ubicación; lo resuelve la regla QR por defecto.
func LocationPayload(warehouse, location string) string {
	return "LOC:" + warehouse + ":" + location
}

// InventoryUseCase consultas de inventario y del libro (sin bloqueo).
type InventoryUseCase struct {
	invRepo       repository.InventoryRepository
	movRepo       repository.StockMovementRepository
	warehouseRepo repository.WarehouseRepository
	labels        ShelfLabelGenerator
}

// NewInventoryUseCase construye el caso de uso. labels puede ser nil si no se generan etiquetas.
func NewInventoryUseCase(
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	warehouseRepo repository.WarehouseRepository,
	labels ShelfLabelGenerator,
) *InventoryUseCase {
	return &InventoryUseCase{invRepo: invRepo, movRepo: movRepo, warehouseRepo: warehouseRepo, labels: labels}
}

// List lista inventario con filtros y paginación.
func (uc *InventoryUseCase) List(ctx context.Context, f entity.InventoryFilter, page dto.PageRequest) (*dto.InventoryListResponse, error) {
	page.DefaultPage()
	items, total, err := uc.invRepo.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar inventario: %w", err)
	}
	out := make([]dto.InventoryResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, ToInventoryResponse(inv))
	}
	return &dto.InventoryListResponse{Items: out, Page: page.Response(total)}, nil
}

// Get obtiene un registro de inventario por ID.
func (uc *InventoryUseCase) Get(ctx context.Context, id string) (*dto.InventoryResponse, error) {
	inv, err := uc.invRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener inventario: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	res := ToInventoryResponse(inv)
	return &res, nil
}

// ByLocation lista lo que hay en (bodega, ubicación).
func (uc *InventoryUseCase) ByLocation(ctx context.Context, warehouse, location string) ([]dto.InventoryResponse, error) {
	if strings.TrimSpace(warehouse) == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "warehouse es obligatorio")
	}
	items, err := uc.invRepo.ListByLocation(ctx, warehouse, location)
	if err != nil {
		return nil, fmt.Errorf("inventario por ubicación: %w", err)
	}
	out := make([]dto.InventoryResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, ToInventoryResponse(inv))
	}
	return out, nil
}

// Movements lista el libro de existencias.
func (uc *InventoryUseCase) Movements(ctx context.Context, f entity.StockMovementFilter, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	if f.MovementType != "" && !entity.IsValidMovementType(f.MovementType) {
		return nil, domain.Errorf(domain.ErrInvalidInput, "movement_type desconocido: %s", f.MovementType)
	}
	page.DefaultPage()
	movs, total, err := uc.movRepo.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, ToStockMovementResponse(m))
	}
	return &dto.StockMovementListResponse{Items: out, Page: page.Response(total)}, nil
}

// ShelfLabels genera el PDF de etiquetas QR de todas las ubicaciones de una bodega.
func (uc *InventoryUseCase) ShelfLabels(ctx context.Context, warehouse string) ([]byte, error) {
	if strings.TrimSpace(warehouse) == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "warehouse es obligatorio")
	}
	if uc.labels == nil {
		return nil, fmt.Errorf("generador de etiquetas no configurado")
	}
	wh, err := uc.warehouseRepo.GetByNumber(ctx, warehouse)
	if err != nil {
		return nil, fmt.Errorf("obtener bodega: %w", err)
	}
	if wh == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "bodega %s no encontrada", warehouse)
	}
	locations, err := uc.invRepo.ListLocations(ctx, warehouse)
	if err != nil {
		return nil, fmt.Errorf("listar ubicaciones: %w", err)
	}
	labels := make([]ShelfLabel, 0, len(locations))
	for _, loc := range locations {
		rows, err := uc.invRepo.ListByLocation(ctx, warehouse, loc)
		if err != nil {
			return nil, fmt.Errorf("inventario por ubicación: %w", err)
		}
		parts := make([]string, 0, len(rows))
		for _, r := range rows {
			parts = append(parts, r.PartNumber)
		}
		labels = append(labels, ShelfLabel{
			Warehouse:   warehouse,
			Location:    loc,
			Payload:     LocationPayload(warehouse, loc),
			PartNumbers: parts,
		})
	}
	return uc.labels.GenerateShelfLabels(ctx, warehouse, labels)
}

// ToInventoryResponse mapea la entidad al DTO.
func ToInventoryResponse(inv *entity.Inventory) dto.InventoryResponse {
	return dto.InventoryResponse{
		ID:                inv.ID,
		PartNumber:        inv.PartNumber,
		Warehouse:         inv.Warehouse,
		Location:          inv.Location,
		Quantity:          inv.Quantity,
		Reserved:          inv.Reserved,
		AvailableQuantity: inv.AvailableQuantity(),
		IsActive:          inv.IsActive,
		IsAllocatable:     inv.IsAllocatable,
		LastUpdated:       inv.LastUpdated,
	}
}

// ToStockMovementResponse mapea un asiento al DTO.
func ToStockMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:                m.ID,
		PartNumber:        m.PartNumber,
		Warehouse:         m.Warehouse,
		Location:          m.Location,
		MovementType:      m.MovementType,
		Quantity:          m.Quantity,
		MovementDate:      m.MovementDate,
		ReferenceDocument: m.ReferenceDocument,
		Description:       m.Description,
		Operator:          m.Operator,
	}
}
