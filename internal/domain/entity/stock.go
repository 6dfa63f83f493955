package entity

import "time"

// Inventory es el registro de existencias de un número de parte en (bodega, ubicación).
// La terna (PartNumber, Warehouse, Location) es única; Location vacía se guarda como "".
type Inventory struct {
	ID            string
	PartNumber    string
	Warehouse     string
	Location      string
	Quantity      int64 // existencia física
	Reserved      int64 // comprometido y no despachado
	IsActive      bool
	IsAllocatable bool
	LastUpdated   time.Time
}

// AvailableQuantity = max(0, Quantity - Reserved) si está activo y es asignable; 0 en otro caso.
func (i *Inventory) AvailableQuantity() int64 {
	if !i.IsActive || !i.IsAllocatable {
		return 0
	}
	if avail := i.Quantity - i.Reserved; avail > 0 {
		return avail
	}
	return 0
}

// Key devuelve la identidad natural del registro.
func (i *Inventory) Key() InventoryKey {
	return InventoryKey{PartNumber: i.PartNumber, Warehouse: i.Warehouse, Location: i.Location}
}

// InventoryKey identidad natural (parte, bodega, ubicación).
type InventoryKey struct {
	PartNumber string
	Warehouse  string
	Location   string
}

// Less define el orden global de bloqueo entre filas de inventario.
func (k InventoryKey) Less(o InventoryKey) bool {
	if k.PartNumber != o.PartNumber {
		return k.PartNumber < o.PartNumber
	}
	if k.Warehouse != o.Warehouse {
		return k.Warehouse < o.Warehouse
	}
	return k.Location < o.Location
}

// InventoryFilter filtros del listado de inventario (coincidencia parcial, sin mayúsculas).
type InventoryFilter struct {
	PartNumber    string
	Warehouse     string
	Location      string
	HideZeroStock bool
}
