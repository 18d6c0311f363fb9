package entity

import (
	"encoding/json"
	"time"
)

// AuditLog es un registro inmutable de quién hizo qué: write-once, el núcleo
// nunca lo actualiza ni lo borra. La escritura es fire-and-forget: su falla
// no bloquea la operación de negocio.
type AuditLog struct {
	ID         string
	UserID     string
	Action     string // create, update, delete, confirm, cancel, ...
	EntityType string
	EntityID   string
	OldValues  json.RawMessage
	NewValues  json.RawMessage
	CreatedAt  time.Time
}
