package usecase

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// MasterDataUseCase proveedores y máquinas.
type MasterDataUseCase struct {
	suppliers repository.SupplierRepository
	machines  repository.MachineRepository
}

func NewMasterDataUseCase(suppliers repository.SupplierRepository, machines repository.MachineRepository) *MasterDataUseCase {
	return &MasterDataUseCase{suppliers: suppliers, machines: machines}
}

func (uc *MasterDataUseCase) CreateSupplier(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	s := &entity.Supplier{
		ID:             inventory.NewID(),
		SupplierNumber: in.SupplierNumber,
		Name:           in.Name,
		ContactPerson:  in.ContactPerson,
		Phone:          in.Phone,
		Email:          in.Email,
		Address:        in.Address,
		CreatedAt:      nowUTC(),
	}
	if err := uc.suppliers.Create(ctx, s); err != nil {
		return nil, err
	}
	res := toSupplierResponse(s)
	return &res, nil
}

func (uc *MasterDataUseCase) ListSuppliers(ctx context.Context, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	page.DefaultPage()
	list, err := uc.suppliers.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

func (uc *MasterDataUseCase) CreateMachine(ctx context.Context, in dto.CreateMachineRequest) (*dto.MachineResponse, error) {
	m := &entity.Machine{
		ID:            inventory.NewID(),
		MachineNumber: in.MachineNumber,
		Name:          in.Name,
		MachineType:   in.MachineType,
		Location:      in.Location,
		Description:   in.Description,
		CreatedAt:     nowUTC(),
	}
	if err := uc.machines.Create(ctx, m); err != nil {
		return nil, err
	}
	res := toMachineResponse(m)
	return &res, nil
}

func (uc *MasterDataUseCase) ListMachines(ctx context.Context, page dto.PageRequest) ([]dto.MachineResponse, error) {
	page.DefaultPage()
	list, err := uc.machines.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MachineResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMachineResponse(m))
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:             s.ID,
		SupplierNumber: s.SupplierNumber,
		Name:           s.Name,
		ContactPerson:  s.ContactPerson,
		Phone:          s.Phone,
		Email:          s.Email,
		Address:        s.Address,
	}
}

func toMachineResponse(m *entity.Machine) dto.MachineResponse {
	return dto.MachineResponse{
		ID:            m.ID,
		MachineNumber: m.MachineNumber,
		Name:          m.Name,
		MachineType:   m.MachineType,
		Location:      m.Location,
		Description:   m.Description,
	}
}
