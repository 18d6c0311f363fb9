package repository

import (
	"time"

	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// SupplierRepository puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	GetByRIF(rif string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	SoftDelete(id string, deletedBy string, deletedAt time.Time) error
	ListActive(limit, offset int) ([]*entity.Supplier, error)
}
