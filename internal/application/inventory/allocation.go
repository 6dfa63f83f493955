package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Manufactura-api/internal/domain/inventory"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// AllocationLine una línea de la solicitud de asignación de materiales.
// Location nil significa "la única ubicación de la parte en esa bodega".
type AllocationLine struct {
	PartNumber string
	Warehouse  string
	Location   *string
	Quantity   *int64
}

// AllocationResult resultado de una línea asignada.
type AllocationResult struct {
	PartNumber           string
	Warehouse            string
	Location             string
	AllocatedQuantity    int64
	MaterialAllocationID string
	NewReserved          int64
	NewAvailable         int64
	SalesOrderID         string
	SalesOrderNumber     string
}

// LineError fallo de una línea concreta del lote.
type LineError struct {
	Line       int // 1-based
	PartNumber string
	Warehouse  string
	Err        error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("línea %d (%s/%s): %s", e.Line, e.PartNumber, e.Warehouse, domain.Message(e.Err))
}

func (e *LineError) Unwrap() error { return e.Err }

// AllocationError rechazo de un lote completo; enumera todas las líneas que fallaron.
type AllocationError struct {
	Lines []*LineError
}

func (e *AllocationError) Error() string {
	msgs := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		msgs[i] = l.Error()
	}
	return "asignación rechazada: " + strings.Join(msgs, "; ")
}

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock) sobre cualquiera de las líneas.
func (e *AllocationError) Unwrap() []error {
	errs := make([]error, len(e.Lines))
	for i, l := range e.Lines {
		errs[i] = l
	}
	return errs
}

// Details mensajes por línea para la respuesta HTTP.
func (e *AllocationError) Details() []string {
	out := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		out[i] = l.Error()
	}
	return out
}

// AllocationService reserva material de inventario para un plan de producción.
type AllocationService struct {
	exec *Executor
	log  *logger.Logger
}

// NewAllocationService construye el servicio.
func NewAllocationService(exec *Executor, log *logger.Logger) *AllocationService {
	if log == nil {
		log = logger.Nop()
	}
	return &AllocationService{exec: exec, log: log}
}

type pendingLine struct {
	idx      int
	line     AllocationLine
	qty      int64
	location string
}

type lockGroup struct {
	partNumber string
	warehouse  string
	anyLoc     bool
	locations  map[string]bool
}

// Allocate reserva todas las líneas o ninguna. Las filas se bloquean en orden ascendente de
// (parte, bodega, ubicación) antes de leer cantidades.
func (s *AllocationService) Allocate(ctx context.Context, planID string, lines []AllocationLine) ([]AllocationResult, error) {
	if strings.TrimSpace(planID) == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "plan de producción requerido")
	}
	if len(lines) == 0 {
		return nil, domain.Errorf(domain.ErrInvalidInput, "no se proporcionaron ítems para asignar")
	}

	var pending []pendingLine
	var failed []*LineError
	for i, l := range lines {
		fail := func(err error) {
			failed = append(failed, &LineError{Line: i + 1, PartNumber: l.PartNumber, Warehouse: l.Warehouse, Err: err})
		}
		switch {
		case strings.TrimSpace(l.PartNumber) == "" || strings.TrimSpace(l.Warehouse) == "":
			fail(domain.Errorf(domain.ErrInvalidInput, "part_number y warehouse son obligatorios"))
		case l.Quantity == nil:
			fail(domain.Errorf(domain.ErrInvalidInput, "quantity_to_allocate es obligatorio"))
		case *l.Quantity < 0:
			fail(domain.Errorf(domain.ErrInvalidInput, "la cantidad a asignar no puede ser negativa"))
		case *l.Quantity == 0:
			// se omite
		default:
			p := pendingLine{idx: i, line: l, qty: *l.Quantity}
			if l.Location != nil {
				p.location = *l.Location
			}
			pending = append(pending, p)
		}
	}
	if len(failed) > 0 {
		return nil, &AllocationError{Lines: failed}
	}

	var results []AllocationResult
	err := s.exec.Execute(ctx, "allocate", func(r Repos, _ *Journal) error {
		results = nil
		plan, err := r.Plans.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		if plan == nil {
			return domain.Errorf(domain.ErrNotFound, "plan de producción %s no encontrado", planID)
		}

		byKey, byGroup, err := lockRows(ctx, r, pending)
		if err != nil {
			return err
		}

		type applied struct {
			p   pendingLine
			inv *entity.Inventory
			res AllocationResult
		}
		var done []applied
		var lineErrs []*LineError
		dirty := map[entity.InventoryKey]*entity.Inventory{}
		for _, p := range pending {
			inv, lerr := resolveRow(p, byKey, byGroup)
			if lerr == nil {
				lerr = domaininv.Reserve(inv, p.qty)
			}
			if lerr != nil {
				lineErrs = append(lineErrs, &LineError{Line: p.idx + 1, PartNumber: p.line.PartNumber, Warehouse: p.line.Warehouse, Err: lerr})
				continue
			}
			dirty[inv.Key()] = inv
			done = append(done, applied{p: p, inv: inv, res: AllocationResult{
				PartNumber:        inv.PartNumber,
				Warehouse:         inv.Warehouse,
				Location:          inv.Location,
				AllocatedQuantity: p.qty,
				NewReserved:       inv.Reserved,
				NewAvailable:      inv.AvailableQuantity(),
			}})
		}
		if len(lineErrs) > 0 {
			return &AllocationError{Lines: lineErrs}
		}

		now := s.exec.Now()
		for _, inv := range dirty {
			inv.LastUpdated = now
			if err := r.Inventory.Save(ctx, inv); err != nil {
				return err
			}
		}
		for _, a := range done {
			alloc := &entity.MaterialAllocation{
				ID:                 newAllocationID(),
				PlanID:             plan.ID,
				MaterialCode:       a.inv.PartNumber,
				Warehouse:          a.inv.Warehouse,
				Location:           a.inv.Location,
				AllocatedQuantity:  a.p.qty,
				AllocationDatetime: now,
				Status:             entity.AllocationStatusAllocated,
			}
			if err := r.Allocations.Create(ctx, alloc); err != nil {
				return err
			}
			shipment := plan.PlannedStart
			so, created, err := r.SalesOrders.CreateIfAbsent(ctx, &entity.SalesOrder{
				ID:               NewID(),
				OrderNumber:      entity.InternalOrderNumber(alloc.ID),
				Item:             alloc.MaterialCode,
				Quantity:         alloc.AllocatedQuantity,
				ExpectedShipment: &shipment,
				Warehouse:        alloc.Warehouse,
				Status:           entity.SOStatusPending,
				CreatedAt:        now,
				UpdatedAt:        now,
			})
			if err != nil {
				return err
			}
			if !created {
				s.log.Warn().Err(domain.ErrConflict).Str("order_number", so.OrderNumber).Str("allocation_id", alloc.ID).
					Msg("pedido interno ya existía; se reutiliza")
			}
			a.res.MaterialAllocationID = alloc.ID
			a.res.SalesOrderID = so.ID
			a.res.SalesOrderNumber = so.OrderNumber
			results = append(results, a.res)
		}
		return nil
	})
	if err != nil {
		var ae *AllocationError
		if !errors.As(err, &ae) {
			s.log.Error().Err(err).Str("plan_id", planID).Msg("asignación de materiales fallida")
		}
		return nil, err
	}
	s.log.Info().Str("plan_id", planID).Int("lines", len(results)).Msg("materiales asignados")
	return results, nil
}

// lockRows bloquea las filas de todas las líneas en orden (parte, bodega, ubicación).
// Si alguna línea de un grupo omite la ubicación se bloquean todas las ubicaciones del grupo.
func lockRows(ctx context.Context, r Repos, pending []pendingLine) (map[entity.InventoryKey]*entity.Inventory, map[[2]string][]*entity.Inventory, error) {
	groups := map[[2]string]*lockGroup{}
	for _, p := range pending {
		gk := [2]string{p.line.PartNumber, p.line.Warehouse}
		g, ok := groups[gk]
		if !ok {
			g = &lockGroup{partNumber: gk[0], warehouse: gk[1], locations: map[string]bool{}}
			groups[gk] = g
		}
		if p.line.Location == nil {
			g.anyLoc = true
		} else {
			g.locations[p.location] = true
		}
	}
	ordered := make([]*lockGroup, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.partNumber != b.partNumber {
			return a.partNumber < b.partNumber
		}
		return a.warehouse < b.warehouse
	})

	byKey := map[entity.InventoryKey]*entity.Inventory{}
	byGroup := map[[2]string][]*entity.Inventory{}
	for _, g := range ordered {
		gk := [2]string{g.partNumber, g.warehouse}
		if g.anyLoc {
			rows, err := r.Inventory.ListForUpdate(ctx, g.partNumber, g.warehouse)
			if err != nil {
				return nil, nil, err
			}
			byGroup[gk] = rows
			for _, inv := range rows {
				byKey[inv.Key()] = inv
			}
			continue
		}
		locs := make([]string, 0, len(g.locations))
		for l := range g.locations {
			locs = append(locs, l)
		}
		sort.Strings(locs)
		for _, l := range locs {
			key := entity.InventoryKey{PartNumber: g.partNumber, Warehouse: g.warehouse, Location: l}
			inv, err := r.Inventory.GetForUpdate(ctx, key)
			if err != nil {
				return nil, nil, err
			}
			if inv != nil {
				byKey[key] = inv
			}
		}
	}
	return byKey, byGroup, nil
}

func resolveRow(p pendingLine, byKey map[entity.InventoryKey]*entity.Inventory, byGroup map[[2]string][]*entity.Inventory) (*entity.Inventory, error) {
	if p.line.Location != nil {
		key := entity.InventoryKey{PartNumber: p.line.PartNumber, Warehouse: p.line.Warehouse, Location: p.location}
		if inv := byKey[key]; inv != nil {
			return inv, nil
		}
		return nil, domain.Errorf(domain.ErrNotFound,
			"inventario no encontrado para '%s' en bodega '%s' ubicación '%s'", key.PartNumber, key.Warehouse, key.Location)
	}
	rows := byGroup[[2]string{p.line.PartNumber, p.line.Warehouse}]
	switch len(rows) {
	case 0:
		return nil, domain.Errorf(domain.ErrNotFound,
			"inventario no encontrado para '%s' en bodega '%s'", p.line.PartNumber, p.line.Warehouse)
	case 1:
		return rows[0], nil
	default:
		return nil, domain.Errorf(domain.ErrInvalidInput,
			"'%s' tiene %d ubicaciones en bodega '%s'; indique location", p.line.PartNumber, len(rows), p.line.Warehouse)
	}
}
