package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// newTestPool levanta PostgreSQL en un contenedor, aplica migraciones y devuelve el pool.
// Se omite con -short o con SKIP_DOCKER_TESTS=1.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() || os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		t.Skip("tests de integración omitidos")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("manufactura_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("docker no disponible: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	mig, err := NewMigrator(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, mig.Up())
	require.NoError(t, mig.Close())

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedInventory(t *testing.T, pool *pgxpool.Pool, key entity.InventoryKey, qty int64) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO inventory (id, part_number, warehouse, location, quantity, reserved)
		VALUES ($1, $2, $3, $4, $5, 0)`, newUUID(), key.PartNumber, key.Warehouse, key.Location, qty)
	require.NoError(t, err)
}

func seedPlan(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	now := time.Now().UTC()
	plan := &entity.ProductionPlan{
		ID: newUUID(), PlanName: "Plan prueba", ProductCode: "FG-100", PlannedQuantity: 10,
		PlannedStart: now, PlannedEnd: now.Add(24 * time.Hour), Status: entity.PlanStatusPending,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewProductionPlanRepository(pool).Create(context.Background(), plan))
	return plan.ID
}

func TestIntegration_EnsureForUpdateKeepsKeyUnique(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	runner := NewTxRunner(pool, 2*time.Second)
	key := entity.InventoryKey{PartNumber: "P-001", Warehouse: "WH-A", Location: "A-01"}

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- runner.Run(ctx, func(r inventory.Repos) error {
				inv, err := r.Inventory.EnsureForUpdate(ctx, key)
				if err != nil {
					return err
				}
				inv.Quantity += 5
				return r.Inventory.Save(ctx, inv)
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var rows int
	var qty int64
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*), COALESCE(SUM(quantity), 0) FROM inventory WHERE part_number = $1`, key.PartNumber).Scan(&rows, &qty))
	assert.Equal(t, 1, rows)
	assert.Equal(t, int64(20), qty)

	_, err := pool.Exec(ctx, `INSERT INTO inventory (id, part_number, warehouse, location) VALUES ($1, $2, $3, $4)`,
		newUUID(), key.PartNumber, key.Warehouse, key.Location)
	assert.ErrorIs(t, mapError("insert", err), domain.ErrDuplicate)
}

func TestIntegration_SumAvailableAcrossWarehouses(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	seedInventory(t, pool, entity.InventoryKey{PartNumber: "M1", Warehouse: "A", Location: "1"}, 7)
	seedInventory(t, pool, entity.InventoryKey{PartNumber: "M1", Warehouse: "B", Location: "1"}, 3)
	repo := NewInventoryRepository(pool)

	inA, err := repo.SumAvailable(ctx, "M1", "A")
	require.NoError(t, err)
	assert.Equal(t, int64(7), inA)

	all, err := repo.SumAvailable(ctx, "M1", "")
	require.NoError(t, err)
	assert.Equal(t, int64(10), all)
}

func TestIntegration_ReservedCannotExceedQuantity(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	key := entity.InventoryKey{PartNumber: "P-002", Warehouse: "WH-A", Location: "A-02"}
	seedInventory(t, pool, key, 5)

	repo := NewInventoryRepository(pool)
	inv, err := repo.GetForUpdate(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, inv)

	inv.Reserved = 6
	err = repo.Save(ctx, inv)
	assert.ErrorIs(t, err, domain.ErrReservedExceedsQuantity)

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Reserved)
}

func TestIntegration_LockTimeoutIsContended(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	key := entity.InventoryKey{PartNumber: "P-003", Warehouse: "WH-A", Location: "A-03"}
	seedInventory(t, pool, key, 5)

	holder, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback(ctx) }()
	locked, err := NewInventoryRepository(holder).GetForUpdate(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, locked)

	runner := NewTxRunner(pool, 200*time.Millisecond)
	start := time.Now()
	err = runner.Run(ctx, func(r inventory.Repos) error {
		_, err := r.Inventory.GetForUpdate(ctx, key)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrLockContended)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestIntegration_ConcurrentAllocationNeverOverReserves(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	loc := "B-01"
	key := entity.InventoryKey{PartNumber: "MAT-10", Warehouse: "WH-RAW", Location: loc}
	seedInventory(t, pool, key, 10)
	planID := seedPlan(t, pool)

	exec := inventory.NewExecutor(NewTxRunner(pool, 5*time.Second), nil, nil, logger.Nop())
	svc := inventory.NewAllocationService(exec, logger.Nop())

	const workers = 6
	qty := int64(3)
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Allocate(ctx, planID, []inventory.AllocationLine{
				{PartNumber: key.PartNumber, Warehouse: key.Warehouse, Location: &loc, Quantity: &qty},
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			var allocErr *inventory.AllocationError
			if !errors.As(err, &allocErr) && !errors.Is(err, domain.ErrLockContended) {
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	inv, err := NewInventoryRepository(pool).GetForUpdate(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, successes)
	assert.Equal(t, int64(9), inv.Reserved)
	assert.Equal(t, int64(10), inv.Quantity)

	sum, err := NewMaterialAllocationRepository(pool).SumByPlanAndMaterial(ctx, planID, key.PartNumber)
	require.NoError(t, err)
	assert.Equal(t, inv.Reserved, sum)
}

func TestIntegration_AsyncTaskTransitionsAreConditional(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := NewAsyncTaskRepository(pool)
	now := time.Now().UTC()
	task := &entity.AsyncTask{ID: newUUID(), Name: "Importación CSV de item", DataType: "item",
		Status: entity.TaskPending, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, task))

	ok, err := repo.Transition(ctx, task.ID, entity.SourcesOf(entity.TaskStarted), entity.TaskStarted)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Finish(ctx, task.ID, entity.TaskSuccess, 2, &entity.ImportResult{Created: 1, Updated: 1})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Transition(ctx, task.ID, entity.SourcesOf(entity.TaskRevoked), entity.TaskRevoked)
	require.NoError(t, err)
	assert.False(t, ok, "una tarea terminada no se puede revocar")

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskSuccess, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 1, got.Result.Created)
}

func TestIntegration_ImportUpsertByKey(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := NewImportRepository(pool)
	target := entity.ImportTargets["warehouse"]

	created, err := repo.UpsertRow(ctx, target,
		map[string]any{"warehouse_number": "WH-9"}, map[string]any{"name": "Bodega 9"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.UpsertRow(ctx, target,
		map[string]any{"warehouse_number": "WH-9"}, map[string]any{"name": "Bodega nueve"})
	require.NoError(t, err)
	assert.False(t, created)

	wh, err := NewWarehouseRepository(pool).GetByNumber(ctx, "WH-9")
	require.NoError(t, err)
	require.NotNil(t, wh)
	assert.Equal(t, "Bodega nueve", wh.Name)

	_, err = repo.UpsertRow(ctx, target, map[string]any{"warehouse_number": "WH-9"}, map[string]any{"created_at": "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
