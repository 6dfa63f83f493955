package entity

import "time"

// Tipos de ítem.
const (
	ItemTypeProduct  = "product"
	ItemTypeMaterial = "material"
)

// Item maestro de productos y materiales; Code es el número de parte.
type Item struct {
	ID               string
	Code             string
	Name             string
	ItemType         string
	Unit             string
	DefaultWarehouse string
	DefaultLocation  string
	ProvisionType    string
	Description      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
