package csvimport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

type runnerFixture struct {
	tasks   *fakeTasks
	imports *fakeImports
	runner  *Runner
	metrics *statusCounter
}

type statusCounter struct {
	byStatus map[entity.TaskStatus]int
}

func (c *statusCounter) ImportFinished(_ string, s entity.TaskStatus) { c.byStatus[s]++ }

func newRunnerFixture(m *fakeMappings) *runnerFixture {
	tasks := newFakeTasks()
	imports := newFakeImports()
	metrics := &statusCounter{byStatus: map[entity.TaskStatus]int{}}
	return &runnerFixture{
		tasks:   tasks,
		imports: imports,
		metrics: metrics,
		runner:  NewRunner(tasks, m, imports, metrics, nil),
	}
}

func (f *runnerFixture) pending(t *testing.T, id string) {
	require.NoError(t, f.tasks.Create(context.Background(), &entity.AsyncTask{ID: id, DataType: "item", Status: entity.TaskPending}))
}

func (f *runnerFixture) task(t *testing.T, id string) *entity.AsyncTask {
	task, err := f.tasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, task)
	return task
}

func TestRunner_CreaYActualiza(t *testing.T) {
	f := newRunnerFixture(itemMappings())
	f.pending(t, "t1")
	f.imports.rows["items"+"map[code:A-1]"] = map[string]any{"code": "A-1", "name": "viejo"}

	csv := "\xef\xbb\xbf品番,品名,単位,旧コード\nA-1,Perno,pcs,X\nA-2,Tuerca,,Y\n"
	f.runner.Run(context.Background(), Job{TaskID: "t1", DataType: "item", Encoding: "utf-8", Content: []byte(csv)})

	task := f.task(t, "t1")
	assert.Equal(t, entity.TaskSuccess, task.Status)
	assert.Equal(t, 2, task.Progress)
	require.NotNil(t, task.Result)
	assert.Equal(t, 1, task.Result.Created)
	assert.Equal(t, 1, task.Result.Updated)
	assert.Empty(t, task.Result.Errors)

	assert.Equal(t, "Perno", f.imports.rows["itemsmap[code:A-1]"]["name"])
	a2 := f.imports.rows["itemsmap[code:A-2]"]
	require.NotNil(t, a2)
	// celda vacía y columna inactiva no se escriben
	assert.NotContains(t, a2, "unit")
	assert.NotContains(t, a2, "description")
	assert.Equal(t, 1, f.metrics.byStatus[entity.TaskSuccess])
}

func TestRunner_ErroresPorFila(t *testing.T) {
	f := newRunnerFixture(itemMappings())
	require.NoError(t, f.tasks.Create(context.Background(), &entity.AsyncTask{ID: "po", DataType: "purchase_order", Status: entity.TaskPending}))

	csv := "order,qty,eta\nPO-1,10,2024-06-01\nPO-2,diez,2024-06-01\n,5,2024-06-01\nPO-4,3,ayer\n"
	f.runner.Run(context.Background(), Job{TaskID: "po", DataType: "purchase_order", Encoding: "utf-8", Content: []byte(csv)})

	task := f.task(t, "po")
	assert.Equal(t, entity.TaskFailure, task.Status)
	require.NotNil(t, task.Result)
	assert.Equal(t, 1, task.Result.Created)
	require.Len(t, task.Result.Errors, 3)
	assert.Contains(t, task.Result.Errors[0], "行 3:")
	assert.Contains(t, task.Result.Errors[0], "'qty'")
	assert.Contains(t, task.Result.Errors[1], "行 4:")
	assert.Contains(t, task.Result.Errors[2], "行 5:")
	assert.Equal(t, 4, task.Progress)
	assert.Empty(t, task.Result.Error)
}

func TestRunner_ErrorAlGuardarNoDetieneElLote(t *testing.T) {
	f := newRunnerFixture(itemMappings())
	f.pending(t, "t1")
	f.imports.failOn = "map[code:A-1]"

	csv := "品番,品名\nA-1,Perno\nA-2,Tuerca\n"
	f.runner.Run(context.Background(), Job{TaskID: "t1", DataType: "item", Encoding: "utf-8", Content: []byte(csv)})

	task := f.task(t, "t1")
	assert.Equal(t, entity.TaskFailure, task.Status)
	assert.Equal(t, 1, task.Result.Created)
	require.Len(t, task.Result.Errors, 1)
	assert.Contains(t, task.Result.Errors[0], "行 2 (code=A-1): error al guardar")
}

func TestRunner_SinMapeosEsFalloGlobal(t *testing.T) {
	f := newRunnerFixture(&fakeMappings{})
	f.pending(t, "t1")

	f.runner.Run(context.Background(), Job{TaskID: "t1", DataType: "item", Encoding: "utf-8", Content: []byte("a\n1\n")})

	task := f.task(t, "t1")
	assert.Equal(t, entity.TaskFailure, task.Status)
	require.NotNil(t, task.Result)
	assert.Contains(t, task.Result.Error, "no hay mapeos CSV activos")
}

func TestRunner_SinClaveDeActualizacion(t *testing.T) {
	m := &fakeMappings{byType: map[string][]*entity.CsvColumnMapping{
		"item": {{DataType: "item", CsvHeader: "品名", ModelField: "name", Order: 1, IsActive: true}},
	}}
	f := newRunnerFixture(m)
	f.pending(t, "t1")

	f.runner.Run(context.Background(), Job{TaskID: "t1", DataType: "item", Encoding: "utf-8", Content: []byte("品名\nPerno\n")})

	task := f.task(t, "t1")
	assert.Equal(t, entity.TaskFailure, task.Status)
	assert.Contains(t, task.Result.Error, "clave de actualización")
	assert.Empty(t, f.imports.rows)
}

func TestRunner_CampoFueraDeListaBlanca(t *testing.T) {
	m := &fakeMappings{byType: map[string][]*entity.CsvColumnMapping{
		"item": {{DataType: "item", CsvHeader: "qty", ModelField: "quantity", Order: 1, IsUpdateKey: true, IsActive: true}},
	}}
	f := newRunnerFixture(m)
	f.pending(t, "t1")

	f.runner.Run(context.Background(), Job{TaskID: "t1", DataType: "item", Encoding: "utf-8", Content: []byte("qty\n1\n")})

	task := f.task(t, "t1")
	assert.Equal(t, entity.TaskFailure, task.Status)
	assert.Contains(t, task.Result.Error, "no es importable")
}

func TestRunner_CancelacionEnCurso(t *testing.T) {
	f := newRunnerFixture(itemMappings())
	f.pending(t, "t1")
	f.tasks.onProgress = func(id string, progress int) {
		if progress == 1 {
			f.tasks.revoke(id)
		}
	}

	csv := "品番,品名\nA-1,Perno\nA-2,Tuerca\nA-3,Arandela\n"
	f.runner.Run(context.Background(), Job{TaskID: "t1", DataType: "item", Encoding: "utf-8", Content: []byte(csv)})

	task := f.task(t, "t1")
	assert.Equal(t, entity.TaskRevoked, task.Status)
	// la fila ya escrita permanece
	assert.Len(t, f.imports.rows, 1)
	assert.Nil(t, task.Result)
	assert.Equal(t, 1, f.metrics.byStatus[entity.TaskRevoked])
}

func TestRunner_DescartaTareaNoPendiente(t *testing.T) {
	f := newRunnerFixture(itemMappings())
	f.pending(t, "t1")
	f.tasks.revoke("t1")

	f.runner.Run(context.Background(), Job{TaskID: "t1", DataType: "item", Encoding: "utf-8", Content: []byte("品番\nA-1\n")})

	assert.Equal(t, entity.TaskRevoked, f.task(t, "t1").Status)
	assert.Empty(t, f.imports.rows)
}

func TestRunner_ApagadoDejaFailure(t *testing.T) {
	f := newRunnerFixture(itemMappings())
	f.pending(t, "t1")
	ctx, cancel := context.WithCancel(context.Background())
	f.tasks.onProgress = func(string, int) { cancel() }

	csv := "品番\nA-1\nA-2\n"
	f.runner.Run(ctx, Job{TaskID: "t1", DataType: "item", Encoding: "utf-8", Content: []byte(csv)})

	task := f.task(t, "t1")
	assert.Equal(t, entity.TaskFailure, task.Status)
	assert.Contains(t, task.Result.Error, "apagado")
	assert.Len(t, f.imports.rows, 1)
}

func TestPool_ProcesaTrabajosEncolados(t *testing.T) {
	f := newRunnerFixture(itemMappings())
	f.pending(t, "t1")
	q := NewMemoryQueue(4)
	require.NoError(t, q.Enqueue(context.Background(), Job{TaskID: "t1", DataType: "item", Encoding: "utf-8", Content: []byte("品番\nA-1\n")}))

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(q, f.runner, 2, nil)
	pool.Start(ctx)

	assert.Eventually(t, func() bool {
		return f.task(t, "t1").Status == entity.TaskSuccess
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	pool.Wait()
}
