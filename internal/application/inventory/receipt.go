package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Manufactura-api/internal/domain/inventory"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// ReceiveInput recepción de mercancía contra un pedido de compra.
// Warehouse y Location nil toman los valores del pedido.
type ReceiveInput struct {
	PurchaseOrderID string
	Quantity        int64
	Warehouse       *string
	Location        *string
	Operator        *string
	Remarks         string
}

// ReceiveResult resultado de la recepción.
type ReceiveResult struct {
	OrderNumber      string
	ReceiptID        string
	ReceivedQuantity int64
	Status           string
}

// ReceiptService registra recepciones: pedido, recepción, inventario y libro en una transacción.
type ReceiptService struct {
	exec *Executor
	log  *logger.Logger
}

// NewReceiptService construye el servicio.
func NewReceiptService(exec *Executor, log *logger.Logger) *ReceiptService {
	if log == nil {
		log = logger.Nop()
	}
	return &ReceiptService{exec: exec, log: log}
}

// Receive bloquea el pedido, crea la recepción, suma la existencia (creando la fila si falta),
// escribe el asiento incoming y recalcula el estado del pedido.
func (s *ReceiptService) Receive(ctx context.Context, in ReceiveInput) (*ReceiveResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.Errorf(domain.ErrInvalidInput, "la cantidad recibida debe ser positiva")
	}
	var out *ReceiveResult
	err := s.exec.Execute(ctx, "receive", func(r Repos, j *Journal) error {
		po, err := r.PurchaseOrders.GetForUpdate(ctx, in.PurchaseOrderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.Errorf(domain.ErrNotFound, "pedido de compra %s no encontrado", in.PurchaseOrderID)
		}
		if po.Status == entity.POStatusCanceled {
			return domain.Errorf(domain.ErrInvalidInput, "el pedido %s está cancelado", po.OrderNumber)
		}
		if strings.TrimSpace(po.PartNumber) == "" {
			return domain.Errorf(domain.ErrInvalidInput, "el pedido %s no tiene número de parte", po.OrderNumber)
		}
		if remaining := po.Quantity - po.ReceivedQuantity; in.Quantity > remaining {
			return domain.Errorf(domain.ErrInvalidInput,
				"la cantidad recibida (%d) excede la pendiente (%d) del pedido %s", in.Quantity, remaining, po.OrderNumber)
		}

		warehouse, location := po.Warehouse, po.Location
		if in.Warehouse != nil && strings.TrimSpace(*in.Warehouse) != "" {
			warehouse = strings.TrimSpace(*in.Warehouse)
		}
		if in.Location != nil {
			location = strings.TrimSpace(*in.Location)
		}
		if warehouse == "" {
			return domain.Errorf(domain.ErrInvalidInput, "no se indicó bodega y el pedido %s no tiene una", po.OrderNumber)
		}

		now := s.exec.Now()
		receipt := &entity.Receipt{
			ID:               NewID(),
			PurchaseOrderID:  po.ID,
			ReceivedQuantity: in.Quantity,
			ReceivedDate:     now,
			Warehouse:        warehouse,
			Location:         location,
			Operator:         in.Operator,
			Remarks:          in.Remarks,
		}
		if err := r.Receipts.Create(ctx, receipt); err != nil {
			return err
		}

		inv, err := r.Inventory.EnsureForUpdate(ctx, entity.InventoryKey{PartNumber: po.PartNumber, Warehouse: warehouse, Location: location})
		if err != nil {
			return err
		}
		if err := domaininv.Add(inv, in.Quantity); err != nil {
			return err
		}
		inv.LastUpdated = now
		if err := r.Inventory.Save(ctx, inv); err != nil {
			return err
		}

		desc := fmt.Sprintf("Recepción %s del pedido %s", receipt.ID, po.OrderNumber)
		if in.Remarks != "" {
			desc += ": " + in.Remarks
		}
		if err := j.Record(ctx, r, &entity.StockMovement{
			PartNumber:        po.PartNumber,
			Warehouse:         warehouse,
			Location:          location,
			MovementType:      entity.MovementIncoming,
			Quantity:          in.Quantity,
			MovementDate:      now,
			ReferenceDocument: "PO: " + po.OrderNumber,
			Description:       desc,
			Operator:          in.Operator,
		}); err != nil {
			return err
		}

		po.ReceivedQuantity += in.Quantity
		po.Status = entity.DerivePOStatus(po.Quantity, po.ReceivedQuantity)
		po.UpdatedAt = now
		if err := r.PurchaseOrders.UpdateReceived(ctx, po); err != nil {
			return err
		}
		out = &ReceiveResult{
			OrderNumber:      po.OrderNumber,
			ReceiptID:        receipt.ID,
			ReceivedQuantity: in.Quantity,
			Status:           po.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("order_number", out.OrderNumber).Int64("quantity", in.Quantity).Str("status", out.Status).
		Msg("recepción registrada")
	return out, nil
}
