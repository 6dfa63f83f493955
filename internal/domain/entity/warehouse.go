package entity

import "time"

// Warehouse bodega física; WarehouseNumber es el código que usan inventario y pedidos.
type Warehouse struct {
	ID              string
	WarehouseNumber string
	Name            string
	Location        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
