package repository

import (
	"time"

	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// SalesOrderRepository puerto de persistencia para órdenes de venta.
type SalesOrderRepository interface {
	// Create persiste la orden y sus líneas.
	Create(order *entity.SalesOrder) error
	// GetByID devuelve la orden con sus líneas cargadas.
	GetByID(id string) (*entity.SalesOrder, error)
	// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE) y la
	// devuelve con sus líneas. Evita que dos confirmaciones concurrentes
	// lean el mismo estado draft.
	GetForUpdate(id string) (*entity.SalesOrder, error)
	Update(order *entity.SalesOrder) error
	UpdateStatus(id, status, updatedBy string, updatedAt time.Time) error
	SoftDelete(id string, deletedBy string, deletedAt time.Time) error
	// LastOrderNumberWithPrefix devuelve el mayor order_number con el
	// prefijo dado ("" si no hay ninguno), para el secuencial diario.
	LastOrderNumberWithPrefix(prefix string) (string, error)
	ListByCustomer(customerID string, limit, offset int) ([]*entity.SalesOrder, error)
}
