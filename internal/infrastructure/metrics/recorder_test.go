package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

func TestRecorder_Movements(t *testing.T) {
	r := NewRecorder(false)
	r.MovementRecorded(entity.MovementIncoming, 5)
	r.MovementRecorded(entity.MovementIncoming, 3)
	r.MovementRecorded(entity.MovementOutgoing, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.movementsTotal.WithLabelValues(entity.MovementIncoming)))
	assert.Equal(t, 8.0, testutil.ToFloat64(r.movementQuantity.WithLabelValues(entity.MovementIncoming)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.movementQuantity.WithLabelValues(entity.MovementOutgoing)))
}

func TestRecorder_FailuresAndImports(t *testing.T) {
	r := NewRecorder(false)
	r.OperationFailed("relocation", domain.Errorf(domain.ErrLockContended, "ocupado"))
	r.OperationFailed("relocation", domain.Errorf(domain.ErrLockContended, "ocupado"))
	r.ImportFinished("item", entity.TaskSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.operationErrors.WithLabelValues("relocation", "lock_contended")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.importsTotal.WithLabelValues("item", "SUCCESS")))
}

func TestErrorKind(t *testing.T) {
	allocErr := &inventory.AllocationError{Lines: []*inventory.LineError{
		{Line: 1, PartNumber: "P", Warehouse: "W", Err: domain.Errorf(domain.ErrInvalidInput, "x")},
	}}
	tests := map[string]error{
		"none":                nil,
		"insufficient_stock":  domain.Errorf(domain.ErrInsufficientStock, "faltan 3"),
		"not_allocatable":     domain.ErrNotAllocatable,
		"allocation_rejected": allocErr,
		"not_found":           domain.ErrNotFound,
		"conflict":            domain.ErrReservedExceedsQuantity,
		"internal":            errors.New("boom"),
	}
	for want, err := range tests {
		assert.Equal(t, want, ErrorKind(err), want)
	}
}

func TestRecorder_MiddlewareAndHandler(t *testing.T) {
	r := NewRecorder(false)
	app := fiber.New()
	app.Use(r.Middleware())
	app.Get("/metrics", r.Handler())
	app.Get("/api/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/api/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/api/items/:id", "204")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "manufactura_http_requests_total")
}
