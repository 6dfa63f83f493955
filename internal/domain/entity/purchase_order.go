package entity

import "time"

// Estados de PurchaseOrder.
const (
	POStatusPending           = "pending"
	POStatusPartiallyReceived = "partially_received"
	POStatusFullyReceived     = "fully_received"
	POStatusCanceled          = "canceled"
)

// PurchaseOrder pedido de compra (demanda de entrada de stock).
// ReceivedQuantity solo crece y solo la modifica el servicio de recepción.
type PurchaseOrder struct {
	ID               string
	OrderNumber      string
	SupplierNumber   string
	PartNumber       string
	ProductName      string
	Quantity         int64
	ReceivedQuantity int64
	OrderDate        time.Time
	ExpectedArrival  *time.Time
	ShipmentNumber   string
	Warehouse        string
	Location         string
	Status           string
	Remarks          string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RemainingQuantity cantidad pendiente de recibir.
func (p *PurchaseOrder) RemainingQuantity() int64 {
	if r := p.Quantity - p.ReceivedQuantity; r > 0 {
		return r
	}
	return 0
}

// DerivePOStatus calcula el estado a partir de (cantidad, recibido). Es función pura:
// el mismo par produce el mismo estado sin importar cuántas recepciones lo generaron.
func DerivePOStatus(quantity, received int64) string {
	switch {
	case received >= quantity:
		return POStatusFullyReceived
	case received > 0:
		return POStatusPartiallyReceived
	default:
		return POStatusPending
	}
}

// PurchaseOrderFilter filtros de listado.
type PurchaseOrderFilter struct {
	OrderNumber    string
	SupplierNumber string
	PartNumber     string
	Status         string
	Warehouse      string
}
