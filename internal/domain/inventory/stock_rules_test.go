package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/inventory"
)

func row(qty, reserved int64) *entity.Inventory {
	return &entity.Inventory{
		PartNumber: "P-100", Warehouse: "WH1", Location: "A-01",
		Quantity: qty, Reserved: reserved, IsActive: true, IsAllocatable: true,
	}
}

func TestReserve(t *testing.T) {
	tests := []struct {
		name     string
		inv      *entity.Inventory
		qty      int64
		wantErr  error
		reserved int64
	}{
		{"dentro de lo disponible", row(10, 2), 8, nil, 10},
		{"excede lo disponible", row(10, 2), 9, domain.ErrInsufficientStock, 2},
		{"cantidad cero", row(10, 0), 0, domain.ErrInvalidInput, 0},
		{"inactivo", &entity.Inventory{Quantity: 10, IsAllocatable: true}, 1, domain.ErrNotAllocatable, 0},
		{"no asignable", &entity.Inventory{Quantity: 10, IsActive: true}, 1, domain.ErrNotAllocatable, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := inventory.Reserve(tt.inv, tt.qty)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.reserved, tt.inv.Reserved)
		})
	}
}

func TestReserve_MensajeIncluyeDisponible(t *testing.T) {
	err := inventory.Reserve(row(5, 4), 3)
	require.Error(t, err)
	assert.Contains(t, domain.Message(err), "Requerido: 3, Disponible: 1")
}

func TestAdd(t *testing.T) {
	inv := row(3, 0)
	require.NoError(t, inventory.Add(inv, 4))
	assert.EqualValues(t, 7, inv.Quantity)

	err := inventory.Add(inv, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.EqualValues(t, 7, inv.Quantity)
}

func TestRemove(t *testing.T) {
	t.Run("descuenta existencia libre", func(t *testing.T) {
		inv := row(10, 2)
		require.NoError(t, inventory.Remove(inv, 8))
		assert.EqualValues(t, 2, inv.Quantity)
	})
	t.Run("mayor que la existencia", func(t *testing.T) {
		inv := row(2, 0)
		assert.ErrorIs(t, inventory.Remove(inv, 3), domain.ErrInsufficientStock)
		assert.EqualValues(t, 2, inv.Quantity)
	})
	t.Run("deja lo reservado por encima de la existencia", func(t *testing.T) {
		inv := row(10, 6)
		assert.ErrorIs(t, inventory.Remove(inv, 5), domain.ErrReservedExceedsQuantity)
	})
}

func TestCheckInvariant(t *testing.T) {
	assert.NoError(t, inventory.CheckInvariant(row(5, 5)))
	assert.ErrorIs(t, inventory.CheckInvariant(row(5, 6)), domain.ErrReservedExceedsQuantity)
	assert.ErrorIs(t, inventory.CheckInvariant(row(5, -1)), domain.ErrReservedExceedsQuantity)
	assert.ErrorIs(t, inventory.CheckInvariant(row(-1, 0)), domain.ErrInsufficientStock)
}
