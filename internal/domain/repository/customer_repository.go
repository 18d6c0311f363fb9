package repository

import (
	"time"

	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByRIF(rif string) (*entity.Customer, error)
	Update(customer *entity.Customer) error
	SoftDelete(id string, deletedBy string, deletedAt time.Time) error
	ListActive(limit, offset int) ([]*entity.Customer, error)
}
