package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// OrderUseCase alta y consulta de pedidos de compra y venta. La recepción va por
// inventory.ReceiptService; aquí nunca cambia received_quantity.
type OrderUseCase struct {
	purchaseRepo repository.PurchaseOrderRepository
	receiptRepo  repository.ReceiptRepository
	salesRepo    repository.SalesOrderRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(purchaseRepo repository.PurchaseOrderRepository, receiptRepo repository.ReceiptRepository, salesRepo repository.SalesOrderRepository) *OrderUseCase {
	return &OrderUseCase{purchaseRepo: purchaseRepo, receiptRepo: receiptRepo, salesRepo: salesRepo}
}

// CreatePurchaseOrder registra un pedido de compra en estado pending.
func (uc *OrderUseCase) CreatePurchaseOrder(ctx context.Context, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	number := strings.TrimSpace(in.OrderNumber)
	if number == "" || in.Quantity <= 0 {
		return nil, domain.Errorf(domain.ErrInvalidInput, "número de pedido y cantidad positiva son obligatorios")
	}
	now := nowUTC()
	po := &entity.PurchaseOrder{
		ID:              inventory.NewID(),
		OrderNumber:     number,
		SupplierNumber:  in.SupplierNumber,
		PartNumber:      strings.TrimSpace(in.PartNumber),
		ProductName:     in.ProductName,
		Quantity:        in.Quantity,
		OrderDate:       now,
		ExpectedArrival: in.ExpectedArrival,
		ShipmentNumber:  in.ShipmentNumber,
		Warehouse:       in.Warehouse,
		Location:        in.Location,
		Status:          entity.POStatusPending,
		Remarks:         in.Remarks,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.purchaseRepo.Create(ctx, po); err != nil {
		return nil, fmt.Errorf("crear pedido de compra: %w", err)
	}
	res := ToPurchaseOrderResponse(po)
	return &res, nil
}

// GetPurchaseOrder obtiene un pedido de compra por ID.
func (uc *OrderUseCase) GetPurchaseOrder(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener pedido de compra: %w", err)
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	res := ToPurchaseOrderResponse(po)
	return &res, nil
}

// ListPurchaseOrders lista pedidos de compra con filtros.
func (uc *OrderUseCase) ListPurchaseOrders(ctx context.Context, f entity.PurchaseOrderFilter, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	if f.Status != "" && !isPOStatus(f.Status) {
		return nil, domain.Errorf(domain.ErrInvalidInput, "estado inválido: %q", f.Status)
	}
	page.DefaultPage()
	list, total, err := uc.purchaseRepo.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos de compra: %w", err)
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, ToPurchaseOrderResponse(po))
	}
	return &dto.PurchaseOrderListResponse{Items: items, Page: page.Response(total)}, nil
}

// Receipts historial de recepciones de un pedido de compra.
func (uc *OrderUseCase) Receipts(ctx context.Context, purchaseOrderID string) ([]dto.ReceiptResponse, error) {
	po, err := uc.purchaseRepo.GetByID(ctx, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("obtener pedido de compra: %w", err)
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.receiptRepo.ListByPurchaseOrder(ctx, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("listar recepciones: %w", err)
	}
	out := make([]dto.ReceiptResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ReceiptResponse{
			ID:               r.ID,
			PurchaseOrderID:  r.PurchaseOrderID,
			ReceivedQuantity: r.ReceivedQuantity,
			ReceivedDate:     r.ReceivedDate,
			Warehouse:        r.Warehouse,
			Location:         r.Location,
			Operator:         r.Operator,
			Remarks:          r.Remarks,
		})
	}
	return out, nil
}

// GetSalesOrder obtiene un pedido de venta por ID.
func (uc *OrderUseCase) GetSalesOrder(ctx context.Context, id string) (*dto.SalesOrderResponse, error) {
	so, err := uc.salesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener pedido de venta: %w", err)
	}
	if so == nil {
		return nil, domain.ErrNotFound
	}
	res := toSalesOrderResponse(so)
	return &res, nil
}

// ListSalesOrders lista pedidos de venta (incluye los internos INT-...).
func (uc *OrderUseCase) ListSalesOrders(ctx context.Context, f entity.SalesOrderFilter, page dto.PageRequest) (*dto.SalesOrderListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.salesRepo.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos de venta: %w", err)
	}
	items := make([]dto.SalesOrderResponse, 0, len(list))
	for _, so := range list {
		items = append(items, toSalesOrderResponse(so))
	}
	return &dto.SalesOrderListResponse{Items: items, Page: page.Response(total)}, nil
}

func isPOStatus(s string) bool {
	switch s {
	case entity.POStatusPending, entity.POStatusPartiallyReceived, entity.POStatusFullyReceived, entity.POStatusCanceled:
		return true
	}
	return false
}

// ToPurchaseOrderResponse mapea el pedido de compra al DTO.
func ToPurchaseOrderResponse(po *entity.PurchaseOrder) dto.PurchaseOrderResponse {
	return dto.PurchaseOrderResponse{
		ID:                po.ID,
		OrderNumber:       po.OrderNumber,
		SupplierNumber:    po.SupplierNumber,
		PartNumber:        po.PartNumber,
		ProductName:       po.ProductName,
		Quantity:          po.Quantity,
		ReceivedQuantity:  po.ReceivedQuantity,
		RemainingQuantity: po.RemainingQuantity(),
		OrderDate:         po.OrderDate,
		ExpectedArrival:   po.ExpectedArrival,
		ShipmentNumber:    po.ShipmentNumber,
		Warehouse:         po.Warehouse,
		Location:          po.Location,
		Status:            po.Status,
		Remarks:           po.Remarks,
	}
}

func toSalesOrderResponse(so *entity.SalesOrder) dto.SalesOrderResponse {
	return dto.SalesOrderResponse{
		ID:               so.ID,
		OrderNumber:      so.OrderNumber,
		Item:             so.Item,
		Quantity:         so.Quantity,
		ShippedQuantity:  so.ShippedQuantity,
		ExpectedShipment: so.ExpectedShipment,
		Warehouse:        so.Warehouse,
		Status:           so.Status,
	}
}
