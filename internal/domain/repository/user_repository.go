package repository

import "github.com/tu-usuario/inventario-retail/internal/domain/entity"

// UserRepository puerto de persistencia para usuarios (atribución de auditoría).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
