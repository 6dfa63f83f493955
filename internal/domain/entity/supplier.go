package entity

import "time"

// Supplier proveedor.
type Supplier struct {
	ID             string
	SupplierNumber string
	Name           string
	ContactPerson  string
	Phone          string
	Email          string
	Address        string
	CreatedAt      time.Time
}
