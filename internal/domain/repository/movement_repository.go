package repository

import (
	"time"

	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// MovementRepository puerto de persistencia del libro de movimientos.
// El libro es append-only: no hay Update, solo Create y soft delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	// ListByProductOrdered devuelve todos los movimientos activos de un
	// producto con fecha <= through, en orden cronológico ascendente
	// (fecha, created_at). Es la base del replay de valoración.
	ListByProductOrdered(productID string, through time.Time) ([]*entity.Movement, error)
	ListByDateRange(from, to time.Time, limit, offset int) ([]*entity.Movement, error)
	SoftDelete(id string, deletedBy string, deletedAt time.Time) error
}
