package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	WarehouseNumber string `json:"warehouse_number" validate:"required,max=50"`
	Name            string `json:"name" validate:"required,min=1,max=200"`
	Location        string `json:"location" validate:"max=255"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID              string    `json:"id"`
	WarehouseNumber string    `json:"warehouse_number"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
