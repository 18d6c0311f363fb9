package repository

import (
	"time"

	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// ItemGroupRepository puerto de persistencia para categorías (árbol).
type ItemGroupRepository interface {
	Create(group *entity.ItemGroup) error
	GetByID(id string) (*entity.ItemGroup, error)
	GetByName(name string) (*entity.ItemGroup, error)
	Update(group *entity.ItemGroup) error
	SoftDelete(id string, deletedBy string, deletedAt time.Time) error
	// ListChildren devuelve los hijos activos directos de un nodo.
	ListChildren(parentID string) ([]*entity.ItemGroup, error)
	ListActive() ([]*entity.ItemGroup, error)
}
