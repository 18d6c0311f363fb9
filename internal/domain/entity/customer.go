package entity

import "time"

// Customer representa un cliente al que se le emiten órdenes de venta.
type Customer struct {
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

// IsDeleted indica si el cliente está soft-deleted.
func (c *Customer) IsDeleted() bool { return c.DeletedAt != nil }
