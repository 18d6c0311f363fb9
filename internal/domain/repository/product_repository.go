package repository

import (
	"time"

	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos.
// Las implementaciones deben poder correr sobre pool o sobre transacción.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE). Solo
	// tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock fija el stock materializado. Únicamente el libro de
	// movimientos debe invocarlo.
	UpdateStock(id string, stock int, updatedBy string, updatedAt time.Time) error
	SoftDelete(id string, deletedBy string, deletedAt time.Time) error
	// ListActiveCodesByPrefix devuelve los códigos activos que comienzan con
	// el prefijo dado (para el secuencial del generador de códigos).
	ListActiveCodesByPrefix(prefix string) ([]string, error)
	ListActive(limit, offset int) ([]*entity.Product, error)
	CountActiveByItemGroup(itemGroupID string) (int, error)
}
