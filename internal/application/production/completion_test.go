package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory/memstore"
	"github.com/jhoicas/Manufactura-api/internal/application/production"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

const fgWarehouse = "FG-MAIN"

var fixedNow = time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)

func qty(n int64) *int64 { return &n }

func setup(t *testing.T) (*memstore.Store, *production.CompletionService, *entity.ProductionPlan) {
	t.Helper()
	store := memstore.New()
	exec := inventory.NewExecutor(store, nil, nil, nil)
	exec.SetClock(func() time.Time { return fixedNow })
	plan := store.PutPlan(&entity.ProductionPlan{
		PlanName: "Lote 42", ProductCode: "FG-1", PlannedQuantity: 10,
		PlannedStart: fixedNow, PlannedEnd: fixedNow.Add(8 * time.Hour), Status: entity.PlanStatusPending,
	})
	return store, production.NewCompletionService(exec, fgWarehouse, "", nil), plan
}

func update(t *testing.T, svc *production.CompletionService, planID, status string, good *int64) error {
	t.Helper()
	_, err := svc.UpdateProgress(context.Background(), production.UpdateProgressInput{PlanID: planID, Status: status, GoodQuantity: good})
	return err
}

func fgQuantity(store *memstore.Store) int64 {
	inv := store.Inventory("FG-1", fgWarehouse, "")
	if inv == nil {
		return 0
	}
	return inv.Quantity
}

func TestUpdateProgress_CompletarYRevertirEsInverso(t *testing.T) {
	store, svc, plan := setup(t)
	store.PutInventory(&entity.Inventory{PartNumber: "FG-1", Warehouse: fgWarehouse, Quantity: 4, IsActive: true, IsAllocatable: true})

	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusInProgress, nil))
	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusCompleted, qty(10)))
	assert.Equal(t, int64(14), fgQuantity(store))

	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusPending, nil))
	assert.Equal(t, int64(4), fgQuantity(store))

	wp := store.Progress(plan.ID, entity.ProcessStepOverall)
	require.NotNil(t, wp)
	assert.Equal(t, int64(0), wp.QuantityCompleted)
	assert.Nil(t, wp.ActualReportedQuantity)
	assert.Equal(t, entity.WorkStatusNotStarted, wp.Status)

	movs := store.Movements()
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementProductionOutput, movs[0].MovementType)
	assert.Equal(t, "ProductionPlan-"+plan.ID, movs[0].ReferenceDocument)
	assert.Equal(t, entity.MovementProductionReversal, movs[1].MovementType)
	assert.Equal(t, "Reversal for PPlan-"+plan.ID, movs[1].ReferenceDocument)
	assert.Equal(t, int64(10), movs[1].Quantity)
}

func TestUpdateProgress_CorreccionAplicaSoloElDelta(t *testing.T) {
	store, svc, plan := setup(t)

	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusCompleted, qty(10)))
	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusCompleted, qty(12)))
	assert.Equal(t, int64(12), fgQuantity(store))
	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusCompleted, qty(9)))
	assert.Equal(t, int64(9), fgQuantity(store))
	// sin cambio: sin asiento
	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusCompleted, qty(9)))

	movs := store.Movements()
	require.Len(t, movs, 3)
	assert.Equal(t, int64(2), movs[1].Quantity)
	assert.Equal(t, entity.MovementProductionReversal, movs[2].MovementType)
	assert.Equal(t, int64(3), movs[2].Quantity)
}

func TestUpdateProgress_RevertirSinExistenciaSuficienteAborta(t *testing.T) {
	store, svc, plan := setup(t)
	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusCompleted, qty(10)))

	// se despacharon 7 unidades del producto terminado
	inv := store.Inventory("FG-1", fgWarehouse, "")
	inv.Quantity = 3
	store.PutInventory(inv)

	err := update(t, svc, plan.ID, entity.PlanStatusInProgress, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, entity.PlanStatusCompleted, store.Plan(plan.ID).Status)
	assert.Equal(t, int64(10), store.Progress(plan.ID, entity.ProcessStepOverall).QuantityCompleted)
	assert.Equal(t, int64(3), fgQuantity(store))
}

func TestUpdateProgress_RevertirNoPuedeDejarReservadoSinCubrir(t *testing.T) {
	store, svc, plan := setup(t)
	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusCompleted, qty(10)))

	inv := store.Inventory("FG-1", fgWarehouse, "")
	inv.Reserved = 5
	store.PutInventory(inv)

	err := update(t, svc, plan.ID, entity.PlanStatusCompleted, qty(2))
	assert.ErrorIs(t, err, domain.ErrReservedExceedsQuantity)
	assert.Equal(t, int64(10), fgQuantity(store))
}

func TestUpdateProgress_Validaciones(t *testing.T) {
	_, svc, plan := setup(t)

	assert.ErrorIs(t, update(t, svc, plan.ID, "DONE", nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, update(t, svc, plan.ID, entity.PlanStatusCompleted, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, update(t, svc, plan.ID, entity.PlanStatusCompleted, qty(-1)), domain.ErrInvalidInput)
	assert.ErrorIs(t, update(t, svc, "nope", entity.PlanStatusInProgress, nil), domain.ErrNotFound)

	_, err := svc.UpdateProgress(context.Background(), production.UpdateProgressInput{
		PlanID: plan.ID, Status: entity.PlanStatusCompleted, GoodQuantity: qty(1), DefectiveQuantity: qty(-2),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateProgress_FechasYEstadosDeAvance(t *testing.T) {
	store, svc, plan := setup(t)

	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusInProgress, nil))
	p := store.Plan(plan.ID)
	require.NotNil(t, p.ActualStart)
	assert.Nil(t, p.ActualEnd)
	wp := store.Progress(plan.ID, entity.ProcessStepOverall)
	assert.Equal(t, entity.WorkStatusInProgress, wp.Status)
	require.NotNil(t, wp.StartDatetime)

	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusOnHold, nil))
	assert.Equal(t, entity.WorkStatusPaused, store.Progress(plan.ID, entity.ProcessStepOverall).Status)

	require.NoError(t, update(t, svc, plan.ID, entity.PlanStatusCancelled, nil))
	p = store.Plan(plan.ID)
	require.NotNil(t, p.ActualEnd)
	assert.Equal(t, entity.PlanStatusCancelled, p.Status)
	wp = store.Progress(plan.ID, entity.ProcessStepOverall)
	assert.Equal(t, entity.WorkStatusPaused, wp.Status)
	assert.NotNil(t, wp.EndDatetime)
}

func TestUpdateProgress_CompletarGuardaCantidadesReportadas(t *testing.T) {
	store, svc, plan := setup(t)

	res, err := svc.UpdateProgress(context.Background(), production.UpdateProgressInput{
		PlanID: plan.ID, Status: entity.PlanStatusCompleted,
		GoodQuantity: qty(8), ActualQuantity: qty(10), DefectiveQuantity: qty(2),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PlanStatusCompleted, res.NewStatus)

	wp := store.Progress(plan.ID, entity.ProcessStepOverall)
	assert.Equal(t, int64(8), wp.QuantityCompleted)
	assert.Equal(t, int64(10), *wp.ActualReportedQuantity)
	assert.Equal(t, int64(2), *wp.DefectiveReportedQuantity)
	p := store.Plan(plan.ID)
	assert.NotNil(t, p.ActualStart)
	assert.Equal(t, fixedNow, *p.ActualEnd)
}

func TestPlanUseCase_PartesRequeridas(t *testing.T) {
	store := memstore.New()
	repos := store.Repos()
	uc := production.NewPlanUseCase(repos.Plans, store.PartsUsed(), repos.Inventory, repos.Allocations)

	created, err := uc.Create(context.Background(), dto.CreateProductionPlanRequest{
		PlanName: "Plan B", ProductCode: "FG-2", ProductionPlanRef: "REF-1", PlannedQuantity: 5,
		PlannedStart: fixedNow, PlannedEnd: fixedNow.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PlanStatusPending, created.Status)

	store.PutPartsUsed(&entity.PartsUsed{ProductionPlan: "REF-1", PartCode: "M1", Warehouse: "A", QuantityUsed: 20})
	store.PutInventory(&entity.Inventory{PartNumber: "M1", Warehouse: "A", Location: "1", Quantity: 15, Reserved: 5, IsActive: true, IsAllocatable: true})
	store.PutInventory(&entity.Inventory{PartNumber: "M1", Warehouse: "A", Location: "2", Quantity: 4, IsActive: true, IsAllocatable: true})

	exec := inventory.NewExecutor(store, nil, nil, nil)
	_, err = inventory.NewAllocationService(exec, nil).Allocate(context.Background(), created.ID, []inventory.AllocationLine{
		{PartNumber: "M1", Warehouse: "A", Location: strPtr("2"), Quantity: qty(3)},
	})
	require.NoError(t, err)

	parts, err := uc.RequiredParts(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, int64(20), parts[0].RequiredQuantity)
	assert.Equal(t, int64(11), parts[0].InventoryQuantity)
	assert.Equal(t, int64(3), parts[0].AlreadyAllocatedQuantity)

	allocs, err := uc.Allocations(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, allocs, 1)

	_, err = uc.RequiredParts(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Sin bodega en la parte se suma lo disponible de todas las bodegas.
func TestPlanUseCase_PartesRequeridasSinBodegaSumaTodas(t *testing.T) {
	store := memstore.New()
	repos := store.Repos()
	uc := production.NewPlanUseCase(repos.Plans, store.PartsUsed(), repos.Inventory, repos.Allocations)

	created, err := uc.Create(context.Background(), dto.CreateProductionPlanRequest{
		PlanName: "Plan C", ProductCode: "FG-3", ProductionPlanRef: "REF-2", PlannedQuantity: 1,
		PlannedStart: fixedNow, PlannedEnd: fixedNow.Add(time.Hour),
	})
	require.NoError(t, err)

	store.PutPartsUsed(&entity.PartsUsed{ProductionPlan: "REF-2", PartCode: "M1", QuantityUsed: 12})
	store.PutInventory(&entity.Inventory{PartNumber: "M1", Warehouse: "A", Location: "1", Quantity: 7, IsActive: true, IsAllocatable: true})
	store.PutInventory(&entity.Inventory{PartNumber: "M1", Warehouse: "B", Location: "1", Quantity: 3, IsActive: true, IsAllocatable: true})
	store.PutInventory(&entity.Inventory{PartNumber: "M2", Warehouse: "A", Location: "1", Quantity: 50, IsActive: true, IsAllocatable: true})

	parts, err := uc.RequiredParts(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "", parts[0].Warehouse)
	assert.Equal(t, int64(10), parts[0].InventoryQuantity)
}

func strPtr(s string) *string { return &s }
