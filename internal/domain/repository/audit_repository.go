package repository

import "github.com/tu-usuario/inventario-retail/internal/domain/entity"

// AuditLogRepository puerto de escritura del log de auditoría. Write-once:
// el núcleo nunca actualiza ni borra registros.
type AuditLogRepository interface {
	Create(log *entity.AuditLog) error
}
