package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory/memstore"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	batches [][]*entity.StockMovement
	err     error
}

func (p *recordingPublisher) PublishMovements(_ context.Context, movs []*entity.StockMovement) error {
	p.batches = append(p.batches, movs)
	return p.err
}

type countingMetrics struct {
	movements map[string]int64
	failures  map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{movements: map[string]int64{}, failures: map[string]int{}}
}

func (m *countingMetrics) MovementRecorded(t string, qty int64) { m.movements[t] += qty }
func (m *countingMetrics) OperationFailed(op string, _ error) { m.failures[op]++ }

type fixture struct {
	store   *memstore.Store
	pub     *recordingPublisher
	metrics *countingMetrics
	exec    *inventory.Executor
}

func newFixture() *fixture {
	store := memstore.New()
	pub := &recordingPublisher{}
	metrics := newCountingMetrics()
	exec := inventory.NewExecutor(store, pub, metrics, nil)
	exec.SetClock(func() time.Time { return fixedNow })
	return &fixture{store: store, pub: pub, metrics: metrics, exec: exec}
}

func (f *fixture) stock(part, wh, loc string, qty, reserved int64) *entity.Inventory {
	return f.store.PutInventory(&entity.Inventory{
		PartNumber: part, Warehouse: wh, Location: loc,
		Quantity: qty, Reserved: reserved, IsActive: true, IsAllocatable: true,
	})
}

func (f *fixture) plan() *entity.ProductionPlan {
	return f.store.PutPlan(&entity.ProductionPlan{
		PlanName: "Plan A", ProductCode: "FG-1", PlannedQuantity: 10,
		PlannedStart: fixedNow.Add(24 * time.Hour), PlannedEnd: fixedNow.Add(48 * time.Hour),
		Status: entity.PlanStatusPending,
	})
}

func qty(n int64) *int64 { return &n }
func str(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Asignación
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_ReservaYCreaAsignacion(t *testing.T) {
	f := newFixture()
	f.stock("P1", "A", "1", 100, 0)
	plan := f.plan()
	svc := inventory.NewAllocationService(f.exec, nil)

	res, err := svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P1", Warehouse: "A", Location: str("1"), Quantity: qty(30)},
	})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, int64(30), res[0].NewReserved)
	assert.Equal(t, int64(70), res[0].NewAvailable)
	assert.Equal(t, entity.InternalOrderNumber(res[0].MaterialAllocationID), res[0].SalesOrderNumber)

	inv := f.store.Inventory("P1", "A", "1")
	assert.Equal(t, int64(100), inv.Quantity)
	assert.Equal(t, int64(30), inv.Reserved)

	allocs := f.store.Allocations()
	require.Len(t, allocs, 1)
	assert.Equal(t, entity.AllocationStatusAllocated, allocs[0].Status)
	assert.Equal(t, plan.ID, allocs[0].PlanID)

	sos := f.store.SalesOrders()
	require.Len(t, sos, 1)
	require.NotNil(t, sos[0].ExpectedShipment)
	assert.Equal(t, plan.PlannedStart, *sos[0].ExpectedShipment)

	// una reserva no toca la existencia física: sin asientos
	assert.Empty(t, f.store.Movements())
	assert.Empty(t, f.pub.batches)
}

func TestAllocate_SegundaAsignacionExcedeDisponible(t *testing.T) {
	f := newFixture()
	f.stock("P1", "A", "1", 100, 0)
	plan := f.plan()
	svc := inventory.NewAllocationService(f.exec, nil)

	_, err := svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(30)},
	})
	require.NoError(t, err)

	_, err = svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(80)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ae *inventory.AllocationError
	require.ErrorAs(t, err, &ae)
	require.Len(t, ae.Lines, 1)
	assert.Contains(t, ae.Lines[0].Error(), "Requerido: 80, Disponible: 70")

	assert.Equal(t, int64(30), f.store.Inventory("P1", "A", "1").Reserved)
	assert.Len(t, f.store.Allocations(), 1)
	assert.Equal(t, 1, f.metrics.failures["allocate"])
}

func TestAllocate_LoteConLineaInvalidaRevierteTodo(t *testing.T) {
	f := newFixture()
	f.stock("P1", "A", "1", 100, 0)
	f.stock("P2", "A", "1", 5, 0)
	plan := f.plan()
	svc := inventory.NewAllocationService(f.exec, nil)

	_, err := svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(10)},
		{PartNumber: "P2", Warehouse: "A", Quantity: qty(6)},
		{PartNumber: "P9", Warehouse: "A", Quantity: qty(1)},
	})
	var ae *inventory.AllocationError
	require.ErrorAs(t, err, &ae)
	require.Len(t, ae.Lines, 2)
	assert.Equal(t, 2, ae.Lines[0].Line)
	assert.ErrorIs(t, ae.Lines[0], domain.ErrInsufficientStock)
	assert.Equal(t, 3, ae.Lines[1].Line)
	assert.ErrorIs(t, ae.Lines[1], domain.ErrNotFound)
	assert.Len(t, ae.Details(), 2)

	assert.Equal(t, int64(0), f.store.Inventory("P1", "A", "1").Reserved)
	assert.Equal(t, int64(0), f.store.Inventory("P2", "A", "1").Reserved)
	assert.Empty(t, f.store.Allocations())
	assert.Empty(t, f.store.SalesOrders())
}

func TestAllocate_LineasDelMismoLoteSobreLaMismaFila(t *testing.T) {
	f := newFixture()
	f.stock("P1", "A", "1", 50, 0)
	plan := f.plan()
	svc := inventory.NewAllocationService(f.exec, nil)

	_, err := svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(30)},
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(30)},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), f.store.Inventory("P1", "A", "1").Reserved)
}

func TestAllocate_CantidadCeroSeOmiteYNegativaFalla(t *testing.T) {
	f := newFixture()
	f.stock("P1", "A", "1", 50, 0)
	plan := f.plan()
	svc := inventory.NewAllocationService(f.exec, nil)

	res, err := svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(0)},
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(5)},
	})
	require.NoError(t, err)
	assert.Len(t, res, 1)

	_, err = svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(-1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(5), f.store.Inventory("P1", "A", "1").Reserved)
}

func TestAllocate_NoAsignableYUbicacionAmbigua(t *testing.T) {
	f := newFixture()
	inactive := f.stock("P1", "A", "1", 50, 0)
	inactive.IsAllocatable = false
	f.store.PutInventory(inactive)
	f.stock("P2", "B", "1", 10, 0)
	f.stock("P2", "B", "2", 10, 0)
	plan := f.plan()
	svc := inventory.NewAllocationService(f.exec, nil)

	_, err := svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(1)},
		{PartNumber: "P2", Warehouse: "B", Quantity: qty(1)},
	})
	var ae *inventory.AllocationError
	require.ErrorAs(t, err, &ae)
	require.Len(t, ae.Lines, 2)
	assert.ErrorIs(t, ae.Lines[0], domain.ErrNotAllocatable)
	assert.ErrorIs(t, ae.Lines[1], domain.ErrInvalidInput)

	res, err := svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P2", Warehouse: "B", Location: str("2"), Quantity: qty(4)},
	})
	require.NoError(t, err)
	assert.Equal(t, "2", res[0].Location)
}

func TestAllocate_BloqueaEnOrdenDeClave(t *testing.T) {
	f := newFixture()
	f.stock("P2", "A", "1", 10, 0)
	f.stock("P1", "B", "9", 10, 0)
	f.stock("P1", "B", "1", 10, 0)
	f.stock("P1", "A", "1", 10, 0)
	plan := f.plan()
	svc := inventory.NewAllocationService(f.exec, nil)

	_, err := svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P2", Warehouse: "A", Quantity: qty(1)},
		{PartNumber: "P1", Warehouse: "B", Location: str("9"), Quantity: qty(1)},
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(1)},
		{PartNumber: "P1", Warehouse: "B", Location: str("1"), Quantity: qty(1)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"P1/A/1", "P1/B/1", "P1/B/9", "P2/A/1"}, f.store.Locks)
}

func TestAllocate_PlanInexistenteOVacio(t *testing.T) {
	f := newFixture()
	svc := inventory.NewAllocationService(f.exec, nil)

	_, err := svc.Allocate(context.Background(), "no-existe", []inventory.AllocationLine{
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Allocate(context.Background(), "x", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAllocate_NumeroDePedidoInterno(t *testing.T) {
	f := newFixture()
	f.stock("P1", "A", "1", 10, 0)
	plan := f.plan()
	svc := inventory.NewAllocationService(f.exec, nil)

	res, err := svc.Allocate(context.Background(), plan.ID, []inventory.AllocationLine{
		{PartNumber: "P1", Warehouse: "A", Quantity: qty(2)},
	})
	require.NoError(t, err)
	assert.Len(t, res[0].SalesOrderNumber, len(entity.InternalOrderPrefix)+15)
	assert.True(t, strings.HasPrefix(res[0].SalesOrderNumber, entity.InternalOrderPrefix))
}

// Cada línea de un mismo lote obtiene su propio pedido interno, aunque se creen
// en el mismo instante.
func TestAllocate_PedidoInternoDistintoPorLinea(t *testing.T) {
	f := newFixture()
	plan := f.plan()
	const n = 40
	lines := make([]inventory.AllocationLine, 0, n)
	for i := 0; i < n; i++ {
		part := fmt.Sprintf("P%02d", i)
		f.stock(part, "A", "1", 5, 0)
		lines = append(lines, inventory.AllocationLine{PartNumber: part, Warehouse: "A", Quantity: qty(int64(i%5 + 1))})
	}

	res, err := inventory.NewAllocationService(f.exec, nil).Allocate(context.Background(), plan.ID, lines)
	require.NoError(t, err)
	require.Len(t, res, n)

	numbers := map[string]bool{}
	ids := map[string]bool{}
	for _, r := range res {
		numbers[r.SalesOrderNumber] = true
		ids[r.SalesOrderID] = true
	}
	assert.Len(t, numbers, n)
	assert.Len(t, ids, n)

	sos := f.store.SalesOrders()
	require.Len(t, sos, n)
	byItem := map[string]int64{}
	for _, so := range sos {
		byItem[so.Item] = so.Quantity
	}
	for i, l := range lines {
		assert.Equal(t, int64(i%5+1), byItem[l.PartNumber], l.PartNumber)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_SumaExistenciaYEscribeAsiento(t *testing.T) {
	f := newFixture()
	f.stock("P1", "A", "1", 5, 0)
	po := f.store.PutPurchaseOrder(&entity.PurchaseOrder{
		OrderNumber: "PO-1", PartNumber: "P1", Quantity: 20, Warehouse: "A", Location: "1",
		Status: entity.POStatusPending,
	})
	svc := inventory.NewReceiptService(f.exec, nil)

	res, err := svc.Receive(context.Background(), inventory.ReceiveInput{PurchaseOrderID: po.ID, Quantity: 8, Operator: str("u1")})
	require.NoError(t, err)
	assert.Equal(t, "PO-1", res.OrderNumber)
	assert.Equal(t, entity.POStatusPartiallyReceived, res.Status)
	assert.NotEmpty(t, res.ReceiptID)

	assert.Equal(t, int64(13), f.store.Inventory("P1", "A", "1").Quantity)
	movs := f.store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementIncoming, movs[0].MovementType)
	assert.Equal(t, int64(8), movs[0].Quantity)
	assert.Equal(t, "PO: PO-1", movs[0].ReferenceDocument)
	assert.Equal(t, fixedNow, movs[0].MovementDate)
	require.Len(t, f.pub.batches, 1)
	assert.Equal(t, int64(8), f.metrics.movements[entity.MovementIncoming])

	res, err = svc.Receive(context.Background(), inventory.ReceiveInput{PurchaseOrderID: po.ID, Quantity: 12})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusFullyReceived, res.Status)
	assert.Equal(t, int64(20), f.store.PurchaseOrder(po.ID).ReceivedQuantity)
	assert.Len(t, f.store.Receipts(), 2)
}

func TestReceive_CreaFilaEnBodegaIndicada(t *testing.T) {
	f := newFixture()
	po := f.store.PutPurchaseOrder(&entity.PurchaseOrder{
		OrderNumber: "PO-2", PartNumber: "P7", Quantity: 10, Warehouse: "A", Status: entity.POStatusPending,
	})
	svc := inventory.NewReceiptService(f.exec, nil)

	_, err := svc.Receive(context.Background(), inventory.ReceiveInput{
		PurchaseOrderID: po.ID, Quantity: 10, Warehouse: str("B"), Location: str("R-3"),
	})
	require.NoError(t, err)
	inv := f.store.Inventory("P7", "B", "R-3")
	require.NotNil(t, inv)
	assert.Equal(t, int64(10), inv.Quantity)
	assert.True(t, inv.IsActive)
	assert.Nil(t, f.store.Inventory("P7", "A", ""))
}

func TestReceive_Rechazos(t *testing.T) {
	f := newFixture()
	noPart := f.store.PutPurchaseOrder(&entity.PurchaseOrder{OrderNumber: "PO-3", Quantity: 10, Warehouse: "A"})
	noWh := f.store.PutPurchaseOrder(&entity.PurchaseOrder{OrderNumber: "PO-4", PartNumber: "P1", Quantity: 10})
	partial := f.store.PutPurchaseOrder(&entity.PurchaseOrder{OrderNumber: "PO-5", PartNumber: "P1", Quantity: 10, ReceivedQuantity: 7, Warehouse: "A"})
	canceled := f.store.PutPurchaseOrder(&entity.PurchaseOrder{OrderNumber: "PO-6", PartNumber: "P1", Quantity: 10, Warehouse: "A", Status: entity.POStatusCanceled})
	svc := inventory.NewReceiptService(f.exec, nil)

	tests := []struct {
		name string
		in   inventory.ReceiveInput
		want error
	}{
		{"cantidad cero", inventory.ReceiveInput{PurchaseOrderID: partial.ID, Quantity: 0}, domain.ErrInvalidInput},
		{"pedido inexistente", inventory.ReceiveInput{PurchaseOrderID: "nope", Quantity: 1}, domain.ErrNotFound},
		{"sin número de parte", inventory.ReceiveInput{PurchaseOrderID: noPart.ID, Quantity: 1}, domain.ErrInvalidInput},
		{"sin bodega", inventory.ReceiveInput{PurchaseOrderID: noWh.ID, Quantity: 1}, domain.ErrInvalidInput},
		{"excede pendiente", inventory.ReceiveInput{PurchaseOrderID: partial.ID, Quantity: 4}, domain.ErrInvalidInput},
		{"pedido cancelado", inventory.ReceiveInput{PurchaseOrderID: canceled.ID, Quantity: 1}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Receive(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.store.Receipts())
	assert.Empty(t, f.store.Movements())
	assert.Equal(t, 0, f.store.InventoryCount())
}

func TestReceive_FalloDelLibroRevierteTodo(t *testing.T) {
	f := newFixture()
	f.stock("P1", "A", "", 5, 0)
	po := f.store.PutPurchaseOrder(&entity.PurchaseOrder{OrderNumber: "PO-7", PartNumber: "P1", Quantity: 10, Warehouse: "A"})
	f.store.FailOn["movements.create"] = errors.New("disco lleno")
	svc := inventory.NewReceiptService(f.exec, nil)

	_, err := svc.Receive(context.Background(), inventory.ReceiveInput{PurchaseOrderID: po.ID, Quantity: 3})
	require.Error(t, err)
	assert.Equal(t, int64(5), f.store.Inventory("P1", "A", "").Quantity)
	assert.Equal(t, int64(0), f.store.PurchaseOrder(po.ID).ReceivedQuantity)
	assert.Empty(t, f.store.Receipts())
	assert.Empty(t, f.pub.batches)
}

func TestReceive_FalloAlPublicarNoDeshaceLaTransaccion(t *testing.T) {
	f := newFixture()
	f.pub.err = errors.New("broker caído")
	po := f.store.PutPurchaseOrder(&entity.PurchaseOrder{OrderNumber: "PO-8", PartNumber: "P1", Quantity: 10, Warehouse: "A"})
	svc := inventory.NewReceiptService(f.exec, nil)

	_, err := svc.Receive(context.Background(), inventory.ReceiveInput{PurchaseOrderID: po.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.store.Inventory("P1", "A", "").Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslado
// ──────────────────────────────────────────────────────────────────────────────

func TestMove_ConservaTotalYEscribeDosAsientos(t *testing.T) {
	f := newFixture()
	src := f.stock("P1", "A", "1", 50, 0)
	svc := inventory.NewRelocationService(f.exec, nil)

	res, err := svc.Move(context.Background(), inventory.MoveInput{InventoryID: src.ID, Quantity: 20, TargetWarehouse: "B"})
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.Source.Quantity)
	assert.Equal(t, int64(20), res.Destination.Quantity)

	assert.Equal(t, int64(30), f.store.Inventory("P1", "A", "1").Quantity)
	dst := f.store.Inventory("P1", "B", "")
	require.NotNil(t, dst)
	assert.Equal(t, int64(20), dst.Quantity)

	movs := f.store.Movements()
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementOutgoing, movs[0].MovementType)
	assert.Equal(t, entity.MovementIncoming, movs[1].MovementType)
	assert.Equal(t, movs[0].Quantity, movs[1].Quantity)
	assert.Contains(t, movs[0].Description, "B")
	assert.Contains(t, movs[1].Description, "A/1")
	assert.Equal(t, []string{"P1/A/1", "P1/B/"}, f.store.Locks)
}

func TestMove_Rechazos(t *testing.T) {
	f := newFixture()
	src := f.stock("P1", "A", "1", 10, 8)
	svc := inventory.NewRelocationService(f.exec, nil)

	tests := []struct {
		name string
		in   inventory.MoveInput
		want error
	}{
		{"cantidad cero", inventory.MoveInput{InventoryID: src.ID, Quantity: 0, TargetWarehouse: "B"}, domain.ErrInvalidInput},
		{"sin bodega destino", inventory.MoveInput{InventoryID: src.ID, Quantity: 1}, domain.ErrInvalidInput},
		{"excede existencia", inventory.MoveInput{InventoryID: src.ID, Quantity: 11, TargetWarehouse: "B"}, domain.ErrInvalidInput},
		{"mismo lugar", inventory.MoveInput{InventoryID: src.ID, Quantity: 1, TargetWarehouse: "A", TargetLocation: "1"}, domain.ErrInvalidInput},
		{"origen inexistente", inventory.MoveInput{InventoryID: "nope", Quantity: 1, TargetWarehouse: "B"}, domain.ErrNotFound},
		// quedarían 7 con 8 reservados
		{"deja reservado sin cubrir", inventory.MoveInput{InventoryID: src.ID, Quantity: 3, TargetWarehouse: "B"}, domain.ErrReservedExceedsQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Move(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, int64(10), f.store.Inventory("P1", "A", "1").Quantity)
	assert.Equal(t, 1, f.store.InventoryCount())
	assert.Empty(t, f.store.Movements())
}

func TestMove_PermiteMoverLoNoReservado(t *testing.T) {
	f := newFixture()
	src := f.stock("P1", "A", "1", 10, 8)
	svc := inventory.NewRelocationService(f.exec, nil)

	_, err := svc.Move(context.Background(), inventory.MoveInput{InventoryID: src.ID, Quantity: 2, TargetWarehouse: "A", TargetLocation: "2"})
	require.NoError(t, err)
	inv := f.store.Inventory("P1", "A", "1")
	assert.Equal(t, int64(8), inv.Quantity)
	assert.Equal(t, int64(0), inv.AvailableQuantity())
}
