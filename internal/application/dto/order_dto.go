package dto

import "time"

// CreatePurchaseOrderRequest entrada para crear un pedido de compra.
type CreatePurchaseOrderRequest struct {
	OrderNumber     string     `json:"order_number" validate:"required,max=100"`
	SupplierNumber  string     `json:"supplier_number" validate:"max=50"`
	PartNumber      string     `json:"part_number" validate:"max=100"`
	ProductName     string     `json:"product_name" validate:"max=255"`
	Quantity        int64      `json:"quantity" validate:"required,gt=0"`
	ExpectedArrival *time.Time `json:"expected_arrival"`
	ShipmentNumber  string     `json:"shipment_number" validate:"max=100"`
	Warehouse       string     `json:"warehouse" validate:"max=50"`
	Location        string     `json:"location" validate:"max=50"`
	Remarks         string     `json:"remarks"`
}

// PurchaseOrderResponse salida de un pedido de compra.
type PurchaseOrderResponse struct {
	ID                string     `json:"id"`
	OrderNumber       string     `json:"order_number"`
	SupplierNumber    string     `json:"supplier_number"`
	PartNumber        string     `json:"part_number"`
	ProductName       string     `json:"product_name"`
	Quantity          int64      `json:"quantity"`
	ReceivedQuantity  int64      `json:"received_quantity"`
	RemainingQuantity int64      `json:"remaining_quantity"`
	OrderDate         time.Time  `json:"order_date"`
	ExpectedArrival   *time.Time `json:"expected_arrival,omitempty"`
	ShipmentNumber    string     `json:"shipment_number"`
	Warehouse         string     `json:"warehouse"`
	Location          string     `json:"location"`
	Status            string     `json:"status"`
	Remarks           string     `json:"remarks"`
}

// PurchaseOrderListResponse lista paginada de pedidos de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ReceiveRequest body de POST /api/purchase-orders/:id/receive.
// Warehouse y Location nil toman el destino del pedido.
type ReceiveRequest struct {
	ReceivedQuantity int64   `json:"received_quantity" validate:"required,gt=0"`
	Warehouse        *string `json:"warehouse" validate:"omitempty,max=50"`
	Location         *string `json:"location" validate:"omitempty,max=50"`
	Remarks          string  `json:"remarks"`
}

// ReceiveResponse resultado de una recepción.
type ReceiveResponse struct {
	Message          string `json:"message"`
	OrderNumber      string `json:"order_number"`
	ReceiptID        string `json:"receipt_id"`
	ReceivedQuantity int64  `json:"received_quantity"`
	Status           string `json:"status"`
}

// SalesOrderResponse salida de un pedido de venta.
type SalesOrderResponse struct {
	ID               string     `json:"id"`
	OrderNumber      string     `json:"order_number"`
	Item             string     `json:"item"`
	Quantity         int64      `json:"quantity"`
	ShippedQuantity  int64      `json:"shipped_quantity"`
	ExpectedShipment *time.Time `json:"expected_shipment,omitempty"`
	Warehouse        string     `json:"warehouse"`
	Status           string     `json:"status"`
}

// SalesOrderListResponse lista paginada de pedidos de venta.
type SalesOrderListResponse struct {
	Items []SalesOrderResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ReceiptResponse salida de un registro de recepción.
type ReceiptResponse struct {
	ID               string    `json:"id"`
	PurchaseOrderID  string    `json:"purchase_order_id"`
	ReceivedQuantity int64     `json:"received_quantity"`
	ReceivedDate     time.Time `json:"received_date"`
	Warehouse        string    `json:"warehouse"`
	Location         string    `json:"location"`
	Operator         *string   `json:"operator,omitempty"`
	Remarks          string    `json:"remarks"`
}
