package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var (
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
	_ repository.ReceiptRepository       = (*ReceiptRepo)(nil)
	_ repository.SalesOrderRepository    = (*SalesOrderRepo)(nil)
)

// PurchaseOrderRepo pedidos de compra sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id::TEXT, order_number, supplier_number, part_number, product_name, quantity, received_quantity,
	order_date, expected_arrival::TIMESTAMPTZ, shipment_number, warehouse, location, status, remarks, created_at, updated_at`

func scanPurchaseOrder(row pgxScanner) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(
		&po.ID, &po.OrderNumber, &po.SupplierNumber, &po.PartNumber, &po.ProductName,
		&po.Quantity, &po.ReceivedQuantity, &po.OrderDate, &po.ExpectedArrival,
		&po.ShipmentNumber, &po.Warehouse, &po.Location, &po.Status, &po.Remarks,
		&po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// Create persiste un pedido de compra.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, order_number, supplier_number, part_number, product_name, quantity, received_quantity,
			order_date, expected_arrival, shipment_number, warehouse, location, status, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.OrderNumber, po.SupplierNumber, po.PartNumber, po.ProductName, po.Quantity, po.ReceivedQuantity,
		po.OrderDate, po.ExpectedArrival, po.ShipmentNumber, po.Warehouse, po.Location, po.Status, po.Remarks,
		po.CreatedAt, po.UpdatedAt,
	)
	return mapError("insert purchase order", err)
}

// GetByID obtiene un pedido sin bloqueo.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate obtiene el pedido y bloquea la fila.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, query string, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, mapError("get purchase order", err)
	}
	return po, nil
}

// UpdateReceived persiste received_quantity y status.
func (r *PurchaseOrderRepo) UpdateReceived(ctx context.Context, po *entity.PurchaseOrder) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET received_quantity = $2, status = $3, updated_at = $4 WHERE id = $1`,
		po.ID, po.ReceivedQuantity, po.Status, po.UpdatedAt)
	if err != nil {
		return mapError("update purchase order", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update purchase order: %s inexistente", po.ID)
	}
	return nil
}

// List lista pedidos de compra con filtros.
func (r *PurchaseOrderRepo) List(ctx context.Context, f entity.PurchaseOrderFilter, limit, offset int) ([]*entity.PurchaseOrder, int, error) {
	var w where
	if f.OrderNumber != "" {
		w.add("order_number ILIKE $%d", likePattern(f.OrderNumber))
	}
	if f.SupplierNumber != "" {
		w.add("supplier_number ILIKE $%d", likePattern(f.SupplierNumber))
	}
	if f.PartNumber != "" {
		w.add("part_number ILIKE $%d", likePattern(f.PartNumber))
	}
	if f.Warehouse != "" {
		w.add("warehouse ILIKE $%d", likePattern(f.Warehouse))
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM purchase_orders`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count purchase orders", err)
	}
	limitSQL, args := w.page(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders`+w.sql()+` ORDER BY order_number`+limitSQL, args...)
	if err != nil {
		return nil, 0, mapError("list purchase orders", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, total, rows.Err()
}

// ReceiptRepo registros de recepción (solo inserción).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create persiste una recepción.
func (r *ReceiptRepo) Create(ctx context.Context, rc *entity.Receipt) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO receipts (id, purchase_order_id, received_quantity, received_date, warehouse, location, operator_id, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rc.ID, rc.PurchaseOrderID, rc.ReceivedQuantity, rc.ReceivedDate, rc.Warehouse, rc.Location, rc.Operator, rc.Remarks)
	return mapError("insert receipt", err)
}

// ListByPurchaseOrder recepciones de un pedido en orden cronológico.
func (r *ReceiptRepo) ListByPurchaseOrder(ctx context.Context, purchaseOrderID string) ([]*entity.Receipt, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::TEXT, purchase_order_id::TEXT, received_quantity, received_date, warehouse, location, operator_id::TEXT, remarks
		FROM receipts WHERE purchase_order_id = $1 ORDER BY received_date, id`, purchaseOrderID)
	if err != nil {
		return nil, mapError("list receipts", err)
	}
	defer rows.Close()
	var list []*entity.Receipt
	for rows.Next() {
		var rc entity.Receipt
		if err := rows.Scan(&rc.ID, &rc.PurchaseOrderID, &rc.ReceivedQuantity, &rc.ReceivedDate,
			&rc.Warehouse, &rc.Location, &rc.Operator, &rc.Remarks); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, &rc)
	}
	return list, rows.Err()
}

// SalesOrderRepo pedidos de venta sobre PostgreSQL.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

const salesOrderColumns = `id::TEXT, order_number, item, quantity, shipped_quantity, expected_shipment, warehouse, status, created_at, updated_at`

func scanSalesOrder(row pgxScanner) (*entity.SalesOrder, error) {
	var so entity.SalesOrder
	if err := row.Scan(&so.ID, &so.OrderNumber, &so.Item, &so.Quantity, &so.ShippedQuantity,
		&so.ExpectedShipment, &so.Warehouse, &so.Status, &so.CreatedAt, &so.UpdatedAt); err != nil {
		return nil, err
	}
	return &so, nil
}

// CreateIfAbsent inserta el pedido salvo que su número ya exista (ON CONFLICT DO NOTHING);
// en ese caso devuelve el existente.
func (r *SalesOrderRepo) CreateIfAbsent(ctx context.Context, so *entity.SalesOrder) (*entity.SalesOrder, bool, error) {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO sales_orders (id, order_number, item, quantity, shipped_quantity, expected_shipment, warehouse, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (order_number) DO NOTHING`,
		so.ID, so.OrderNumber, so.Item, so.Quantity, so.ShippedQuantity, so.ExpectedShipment,
		so.Warehouse, so.Status, so.CreatedAt, so.UpdatedAt)
	if err != nil {
		return nil, false, mapError("insert sales order", err)
	}
	if cmd.RowsAffected() == 1 {
		return so, true, nil
	}
	existing, err := scanSalesOrder(r.q.QueryRow(ctx,
		`SELECT `+salesOrderColumns+` FROM sales_orders WHERE order_number = $1`, so.OrderNumber))
	if err != nil {
		return nil, false, mapError("get sales order", err)
	}
	return existing, false, nil
}

// GetByID obtiene un pedido de venta.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	so, err := scanSalesOrder(r.q.QueryRow(ctx, `SELECT `+salesOrderColumns+` FROM sales_orders WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, mapError("get sales order", err)
	}
	return so, nil
}

// List lista pedidos de venta con filtros.
func (r *SalesOrderRepo) List(ctx context.Context, f entity.SalesOrderFilter, limit, offset int) ([]*entity.SalesOrder, int, error) {
	var w where
	if f.OrderNumber != "" {
		w.add("order_number ILIKE $%d", likePattern(f.OrderNumber))
	}
	if f.Item != "" {
		w.add("item ILIKE $%d", likePattern(f.Item))
	}
	if f.Warehouse != "" {
		w.add("warehouse ILIKE $%d", likePattern(f.Warehouse))
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sales_orders`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count sales orders", err)
	}
	limitSQL, args := w.page(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+salesOrderColumns+` FROM sales_orders`+w.sql()+` ORDER BY order_number`+limitSQL, args...)
	if err != nil {
		return nil, 0, mapError("list sales orders", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrder
	for rows.Next() {
		so, err := scanSalesOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sales order: %w", err)
		}
		list = append(list, so)
	}
	return list, total, rows.Err()
}
