package dto

import "time"

// InventoryResponse salida de un registro de inventario.
type InventoryResponse struct {
	ID                string    `json:"id"`
	PartNumber        string    `json:"part_number"`
	Warehouse         string    `json:"warehouse"`
	Location          string    `json:"location"`
	Quantity          int64     `json:"quantity"`
	Reserved          int64     `json:"reserved"`
	AvailableQuantity int64     `json:"available_quantity"`
	IsActive          bool      `json:"is_active"`
	IsAllocatable     bool      `json:"is_allocatable"`
	LastUpdated       time.Time `json:"last_updated"`
}

// InventoryListResponse lista paginada de inventario.
type InventoryListResponse struct {
	Items []InventoryResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// MoveInventoryRequest body de POST /api/inventory/:id/move.
type MoveInventoryRequest struct {
	Quantity        int64  `json:"quantity" validate:"required,gt=0"`
	TargetWarehouse string `json:"target_warehouse" validate:"required,max=50"`
	TargetLocation  string `json:"target_location" validate:"max=50"`
}

// MoveInventoryResponse resultado de una reubicación.
type MoveInventoryResponse struct {
	Message           string `json:"message"`
	SourceInventoryID string `json:"source_inventory_id"`
	SourceQuantity    int64  `json:"source_quantity"`
	TargetInventoryID string `json:"target_inventory_id"`
	TargetQuantity    int64  `json:"target_quantity"`
	MovedQuantity     int64  `json:"moved_quantity"`
}

// StockMovementResponse salida de un asiento del libro.
type StockMovementResponse struct {
	ID                string    `json:"id"`
	PartNumber        string    `json:"part_number"`
	Warehouse         string    `json:"warehouse"`
	Location          string    `json:"location"`
	MovementType      string    `json:"movement_type"`
	Quantity          int64     `json:"quantity"`
	MovementDate      time.Time `json:"movement_date"`
	ReferenceDocument string    `json:"reference_document"`
	Description       string    `json:"description"`
	Operator          *string   `json:"operator,omitempty"`
}

// StockMovementListResponse lista paginada del libro.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
