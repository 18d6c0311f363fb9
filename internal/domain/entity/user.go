package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User existe para atribución de auditoría (created_by/updated_by) y acceso
// básico; la gestión de sesiones vive fuera del núcleo.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string // admin, operator
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
