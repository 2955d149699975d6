package repositories

import (
	"context"

	"clinician-notes-service/internal/domain/entities"

	"github.com/google/uuid"
)

// AuditLogRepositoryContract defines the append-only audit log store.
type AuditLogRepositoryContract interface {
	Create(ctx context.Context, entry *entities.AuditLog) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*entities.AuditLog, error)
}
