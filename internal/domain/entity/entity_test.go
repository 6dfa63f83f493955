package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

func TestTaskStatus_Transiciones(t *testing.T) {
	allowed := map[[2]entity.TaskStatus]bool{
		{entity.TaskPending, entity.TaskStarted}: true,
		{entity.TaskPending, entity.TaskRevoked}: true,
		{entity.TaskPending, entity.TaskFailure}: true,
		{entity.TaskStarted, entity.TaskSuccess}: true,
		{entity.TaskStarted, entity.TaskFailure}: true,
		{entity.TaskStarted, entity.TaskRevoked}: true,
	}
	all := []entity.TaskStatus{entity.TaskPending, entity.TaskStarted, entity.TaskSuccess, entity.TaskFailure, entity.TaskRevoked}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]entity.TaskStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	for _, s := range []entity.TaskStatus{entity.TaskSuccess, entity.TaskFailure, entity.TaskRevoked} {
		assert.True(t, s.IsTerminal(), s)
	}
	assert.False(t, entity.TaskStarted.IsTerminal())
}

func TestSourcesOf(t *testing.T) {
	assert.ElementsMatch(t, []entity.TaskStatus{entity.TaskPending, entity.TaskStarted}, entity.SourcesOf(entity.TaskRevoked))
	assert.Equal(t, []entity.TaskStatus{entity.TaskPending}, entity.SourcesOf(entity.TaskStarted))
	assert.Equal(t, []entity.TaskStatus{entity.TaskStarted}, entity.SourcesOf(entity.TaskSuccess))
}

func TestAsyncTask_Transition(t *testing.T) {
	task := &entity.AsyncTask{Status: entity.TaskPending}
	require.NoError(t, task.Transition(entity.TaskStarted))
	require.NoError(t, task.Transition(entity.TaskSuccess))
	assert.Error(t, task.Transition(entity.TaskRevoked))
	assert.Equal(t, entity.TaskSuccess, task.Status)
}

func TestDerivePOStatus(t *testing.T) {
	assert.Equal(t, entity.POStatusPending, entity.DerivePOStatus(10, 0))
	assert.Equal(t, entity.POStatusPartiallyReceived, entity.DerivePOStatus(10, 4))
	assert.Equal(t, entity.POStatusFullyReceived, entity.DerivePOStatus(10, 10))
	assert.Equal(t, entity.POStatusFullyReceived, entity.DerivePOStatus(10, 12))
}

func TestPurchaseOrder_RemainingQuantity(t *testing.T) {
	assert.EqualValues(t, 6, (&entity.PurchaseOrder{Quantity: 10, ReceivedQuantity: 4}).RemainingQuantity())
	assert.EqualValues(t, 0, (&entity.PurchaseOrder{Quantity: 10, ReceivedQuantity: 12}).RemainingQuantity())
}

func TestInventory_AvailableQuantity(t *testing.T) {
	inv := &entity.Inventory{Quantity: 10, Reserved: 3, IsActive: true, IsAllocatable: true}
	assert.EqualValues(t, 7, inv.AvailableQuantity())
	inv.IsAllocatable = false
	assert.Zero(t, inv.AvailableQuantity())
}

func TestInventoryKey_Less(t *testing.T) {
	a := entity.InventoryKey{PartNumber: "A", Warehouse: "W2", Location: "Z"}
	b := entity.InventoryKey{PartNumber: "B", Warehouse: "W1", Location: "A"}
	c := entity.InventoryKey{PartNumber: "A", Warehouse: "W2", Location: ""}
	assert.True(t, a.Less(b))
	assert.True(t, c.Less(a))
	assert.False(t, a.Less(a))
}

func TestInternalOrderNumber(t *testing.T) {
	assert.Equal(t, "INT-0f8fad5bd9cb469", entity.InternalOrderNumber("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.Equal(t, "INT-abc", entity.InternalOrderNumber("abc"))
}

func TestMeasurementDetail_Judge(t *testing.T) {
	low, high := decimal.RequireFromString("9.95"), decimal.RequireFromString("10.05")
	m := &entity.MeasurementDetail{MeasurementType: entity.MeasurementQuantitative, LowerLimit: &low, UpperLimit: &high}

	v := func(s string) *decimal.Decimal { d := decimal.RequireFromString(s); return &d }
	assert.Equal(t, entity.JudgementOK, m.Judge(v("10.00"), ""))
	assert.Equal(t, entity.JudgementOK, m.Judge(v("10.05"), ""), "límite inclusivo")
	assert.Equal(t, entity.JudgementNG, m.Judge(v("10.06"), ""))
	assert.Equal(t, entity.JudgementNG, m.Judge(v("9.90"), ""))
	assert.Equal(t, entity.JudgementNG, m.Judge(nil, ""), "sin valor es NG")

	open := &entity.MeasurementDetail{MeasurementType: entity.MeasurementQuantitative, UpperLimit: &high}
	assert.Equal(t, entity.JudgementOK, open.Judge(v("-100"), ""))

	q := &entity.MeasurementDetail{MeasurementType: entity.MeasurementQualitative, ExpectedQualitative: "sin rebaba"}
	assert.Equal(t, entity.JudgementOK, q.Judge(nil, "sin rebaba"))
	assert.Equal(t, entity.JudgementNG, q.Judge(nil, "rebaba"))
}
