package entity

import "time"

// Tipos de movimiento de inventario. Se almacenan en mayúsculas; la entrada
// del caller se normaliza en validation.
const (
	MovementTypeEntry  = "ENTRADA"
	MovementTypeExit   = "SALIDA"
	MovementTypeAdjust = "AJUSTE" // fija el stock en Quantity (valor absoluto, no delta)
)

// Movement es un asiento del libro de movimientos: append-only, nunca se
// muta después de creado salvo soft delete. El stock del producto se deriva
// de su replay, pero la operación de registro mantiene el campo materializado.
type Movement struct {
	ID        string
	ProductID string
	Type      string
	Quantity  int // siempre > 0; el signo lo da el tipo
	Date      time.Time
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
	DeletedAt *time.Time
}

// IsDeleted indica si el movimiento está soft-deleted.
func (m *Movement) IsDeleted() bool { return m.DeletedAt != nil }
