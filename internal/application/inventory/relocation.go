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

// MoveInput traslado de existencia física entre (bodega, ubicación).
type MoveInput struct {
	InventoryID     string
	Quantity        int64
	TargetWarehouse string
	TargetLocation  string
	Operator        *string
}

// MoveResult filas origen y destino tras el traslado.
type MoveResult struct {
	Source      *entity.Inventory
	Destination *entity.Inventory
}

// RelocationService traslada existencias. Bloquea primero el origen y luego el destino.
type RelocationService struct {
	exec *Executor
	log  *logger.Logger
}

// NewRelocationService construye el servicio.
func NewRelocationService(exec *Executor, log *logger.Logger) *RelocationService {
	if log == nil {
		log = logger.Nop()
	}
	return &RelocationService{exec: exec, log: log}
}

// Move descuenta del origen y suma en el destino, con un asiento outgoing y uno incoming.
// La cantidad se valida contra la existencia física del origen; lo reservado debe seguir
// cubierto por lo que queda en el origen.
func (s *RelocationService) Move(ctx context.Context, in MoveInput) (*MoveResult, error) {
	in.TargetWarehouse = strings.TrimSpace(in.TargetWarehouse)
	in.TargetLocation = strings.TrimSpace(in.TargetLocation)
	if in.Quantity <= 0 {
		return nil, domain.Errorf(domain.ErrInvalidInput, "la cantidad a mover debe ser positiva")
	}
	if in.TargetWarehouse == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "bodega destino requerida")
	}
	var out *MoveResult
	err := s.exec.Execute(ctx, "move", func(r Repos, j *Journal) error {
		src, err := r.Inventory.GetForUpdateByID(ctx, in.InventoryID)
		if err != nil {
			return err
		}
		if src == nil {
			return domain.Errorf(domain.ErrNotFound, "inventario %s no encontrado", in.InventoryID)
		}
		if in.Quantity > src.Quantity {
			return domain.Errorf(domain.ErrInvalidInput,
				"la cantidad a mover (%d) excede la existencia (%d)", in.Quantity, src.Quantity)
		}
		dstKey := entity.InventoryKey{PartNumber: src.PartNumber, Warehouse: in.TargetWarehouse, Location: in.TargetLocation}
		if dstKey == src.Key() {
			return domain.Errorf(domain.ErrInvalidInput, "el destino es igual al origen")
		}
		if err := domaininv.Remove(src, in.Quantity); err != nil {
			return err
		}

		dst, err := r.Inventory.EnsureForUpdate(ctx, dstKey)
		if err != nil {
			return err
		}
		if err := domaininv.Add(dst, in.Quantity); err != nil {
			return err
		}

		now := s.exec.Now()
		src.LastUpdated, dst.LastUpdated = now, now
		if err := r.Inventory.Save(ctx, src); err != nil {
			return err
		}
		if err := r.Inventory.Save(ctx, dst); err != nil {
			return err
		}

		ref := "MOVE: " + src.ID
		if err := j.Record(ctx, r, &entity.StockMovement{
			PartNumber:        src.PartNumber,
			Warehouse:         src.Warehouse,
			Location:          src.Location,
			MovementType:      entity.MovementOutgoing,
			Quantity:          in.Quantity,
			MovementDate:      now,
			ReferenceDocument: ref,
			Description:       fmt.Sprintf("Traslado a %s", placeLabel(dst.Warehouse, dst.Location)),
			Operator:          in.Operator,
		}); err != nil {
			return err
		}
		if err := j.Record(ctx, r, &entity.StockMovement{
			PartNumber:        dst.PartNumber,
			Warehouse:         dst.Warehouse,
			Location:          dst.Location,
			MovementType:      entity.MovementIncoming,
			Quantity:          in.Quantity,
			MovementDate:      now,
			ReferenceDocument: ref,
			Description:       fmt.Sprintf("Traslado desde %s", placeLabel(src.Warehouse, src.Location)),
			Operator:          in.Operator,
		}); err != nil {
			return err
		}
		out = &MoveResult{Source: src, Destination: dst}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("part_number", out.Source.PartNumber).Int64("quantity", in.Quantity).
		Str("from", placeLabel(out.Source.Warehouse, out.Source.Location)).
		Str("to", placeLabel(out.Destination.Warehouse, out.Destination.Location)).
		Msg("traslado registrado")
	return out, nil
}

func placeLabel(warehouse, location string) string {
	if location == "" {
		return warehouse
	}
	return warehouse + "/" + location
}
