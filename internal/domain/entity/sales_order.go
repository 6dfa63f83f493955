package entity

import (
	"strings"
	"time"
)

// Estados de SalesOrder.
const (
	SOStatusPending  = "pending"
	SOStatusShipped  = "shipped"
	SOStatusCanceled = "canceled"
)

// InternalOrderPrefix prefijo de los pedidos sintéticos de retiro de material.
const InternalOrderPrefix = "INT-"

// SalesOrder pedido de venta o retiro interno de material.
type SalesOrder struct {
	ID               string
	OrderNumber      string
	Item             string // número de parte
	Quantity         int64
	ShippedQuantity  int64
	ExpectedShipment *time.Time
	Warehouse        string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// InternalOrderNumber número determinístico del pedido sintético de una asignación:
// INT- seguido de los primeros 15 caracteres hexadecimales del ID (UUIDv4 aleatorio).
func InternalOrderNumber(allocationID string) string {
	hex := strings.ReplaceAll(allocationID, "-", "")
	if len(hex) > 15 {
		hex = hex[:15]
	}
	return InternalOrderPrefix + hex
}

// SalesOrderFilter filtros de listado.
type SalesOrderFilter struct {
	OrderNumber string
	Item        string
	Status      string
	Warehouse   string
}
