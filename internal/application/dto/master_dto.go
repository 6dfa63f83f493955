package dto

import "time"

// CreateItemRequest entrada para crear un ítem.
type CreateItemRequest struct {
	Code             string `json:"code" validate:"required,max=100"`
	Name             string `json:"name" validate:"required,max=255"`
	ItemType         string `json:"item_type" validate:"required,oneof=product material"`
	Unit             string `json:"unit" validate:"max=20"`
	DefaultWarehouse string `json:"default_warehouse" validate:"max=50"`
	DefaultLocation  string `json:"default_location" validate:"max=50"`
	ProvisionType    string `json:"provision_type" validate:"max=20"`
	Description      string `json:"description"`
}

// UpdateItemRequest entrada para actualizar un ítem; los campos nil no cambian.
type UpdateItemRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=255"`
	Unit             *string `json:"unit" validate:"omitempty,max=20"`
	DefaultWarehouse *string `json:"default_warehouse" validate:"omitempty,max=50"`
	DefaultLocation  *string `json:"default_location" validate:"omitempty,max=50"`
	ProvisionType    *string `json:"provision_type" validate:"omitempty,max=20"`
	Description      *string `json:"description"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	ItemType         string    `json:"item_type"`
	Unit             string    `json:"unit"`
	DefaultWarehouse string    `json:"default_warehouse"`
	DefaultLocation  string    `json:"default_location"`
	ProvisionType    string    `json:"provision_type"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	SupplierNumber string `json:"supplier_number" validate:"required,max=50"`
	Name           string `json:"name" validate:"required,max=255"`
	ContactPerson  string `json:"contact_person" validate:"max=255"`
	Phone          string `json:"phone" validate:"max=50"`
	Email          string `json:"email" validate:"omitempty,email"`
	Address        string `json:"address"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID             string `json:"id"`
	SupplierNumber string `json:"supplier_number"`
	Name           string `json:"name"`
	ContactPerson  string `json:"contact_person"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
}

// CreateMachineRequest entrada para crear una máquina.
type CreateMachineRequest struct {
	MachineNumber string `json:"machine_number" validate:"required,max=50"`
	Name          string `json:"name" validate:"required,max=255"`
	MachineType   string `json:"machine_type" validate:"max=100"`
	Location      string `json:"location" validate:"max=255"`
	Description   string `json:"description"`
}

// MachineResponse salida de una máquina.
type MachineResponse struct {
	ID            string `json:"id"`
	MachineNumber string `json:"machine_number"`
	Name          string `json:"name"`
	MachineType   string `json:"machine_type"`
	Location      string `json:"location"`
	Description   string `json:"description"`
}
