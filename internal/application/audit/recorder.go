// Package audit implementa la escritura del log de auditoría como operación
// fire-and-forget: una falla al auditar se reporta como warning pero nunca
// bloquea ni revierte la operación de negocio que la originó.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
	"github.com/tu-usuario/inventario-retail/pkg/logger"
)

// Acciones registradas por el núcleo.
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
	ActionStatus  = "set_status"
)

// Recorder escribe entradas de auditoría.
type Recorder struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.AuditLogRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record serializa old/new a JSON y persiste la entrada. Nunca devuelve
// error: la falla se loguea como warning y la operación de negocio continúa.
func (r *Recorder) Record(userID, action, entityType, entityID string, oldValues, newValues any) {
	entry := &entity.AuditLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValues:  marshal(oldValues),
		NewValues:  marshal(newValues),
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.repo.Create(entry); err != nil {
		r.log.Warn().Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("no se pudo escribir la entrada de auditoría")
	}
}

func marshal(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
