package entity

import "time"

// Supplier representa un proveedor. RIF es el identificador fiscal venezolano
// (J-12345678-9, V-12345678-9, etc.), único entre activos.
type Supplier struct {
	ID        string
	Name      string
	RIF       string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
	DeletedAt *time.Time
}

// IsDeleted indica si el proveedor está soft-deleted.
func (s *Supplier) IsDeleted() bool { return s.DeletedAt != nil }
