// Package inventory reúne las reglas de dominio que toda mutación de existencias debe respetar.
// Las funciones modifican el registro en memoria; el llamador persiste dentro de la misma
// transacción que tomó el bloqueo de fila.
package inventory

import (
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// CheckInvariant verifica 0 <= reserved <= quantity.
func CheckInvariant(inv *entity.Inventory) error {
	if inv.Quantity < 0 {
		return domain.Errorf(domain.ErrInsufficientStock,
			"existencia negativa para %s en %s/%s", inv.PartNumber, inv.Warehouse, inv.Location)
	}
	if inv.Reserved < 0 || inv.Reserved > inv.Quantity {
		return domain.Errorf(domain.ErrReservedExceedsQuantity,
			"reservado %d excede existencia %d para %s en %s/%s",
			inv.Reserved, inv.Quantity, inv.PartNumber, inv.Warehouse, inv.Location)
	}
	return nil
}

// Reserve compromete qty unidades disponibles. No toca la existencia física.
func Reserve(inv *entity.Inventory, qty int64) error {
	if qty <= 0 {
		return domain.Errorf(domain.ErrInvalidInput, "cantidad a asignar debe ser positiva")
	}
	if !inv.IsActive || !inv.IsAllocatable {
		return domain.Errorf(domain.ErrNotAllocatable,
			"inventario de '%s' en bodega '%s' no está activo o no es asignable", inv.PartNumber, inv.Warehouse)
	}
	if avail := inv.AvailableQuantity(); avail < qty {
		return domain.Errorf(domain.ErrInsufficientStock,
			"stock disponible insuficiente para '%s' en bodega '%s'. Requerido: %d, Disponible: %d",
			inv.PartNumber, inv.Warehouse, qty, avail)
	}
	inv.Reserved += qty
	return CheckInvariant(inv)
}

// Add suma qty a la existencia física.
func Add(inv *entity.Inventory, qty int64) error {
	if qty <= 0 {
		return domain.Errorf(domain.ErrInvalidInput, "cantidad debe ser positiva")
	}
	inv.Quantity += qty
	return CheckInvariant(inv)
}

// Remove descuenta qty de la existencia física. Falla si no alcanza la existencia o si
// el resultado deja lo reservado por encima de la existencia.
func Remove(inv *entity.Inventory, qty int64) error {
	if qty <= 0 {
		return domain.Errorf(domain.ErrInvalidInput, "cantidad debe ser positiva")
	}
	if qty > inv.Quantity {
		return domain.Errorf(domain.ErrInsufficientStock,
			"existencia insuficiente para '%s' en %s/%s. Requerido: %d, Existencia: %d",
			inv.PartNumber, inv.Warehouse, inv.Location, qty, inv.Quantity)
	}
	inv.Quantity -= qty
	return CheckInvariant(inv)
}
