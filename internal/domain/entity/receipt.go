package entity

import "time"

// Receipt registro inmutable de una recepción de mercancía contra un pedido de compra.
type Receipt struct {
	ID               string
	PurchaseOrderID  string
	ReceivedQuantity int64
	ReceivedDate     time.Time
	Warehouse        string
	Location         string
	Operator         *string
	Remarks          string
}
