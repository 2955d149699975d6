package services

import (
	"context"

	"github.com/google/uuid"
)

// AuditServiceContract records immutable audit events. Before/after state is
// hashed before it is stored; the raw content never reaches the audit trail.
// Audit writes participate in the caller's transaction: if the entry cannot
// be recorded, the triggering mutation rolls back with it.
type AuditServiceContract interface {
	Record(ctx context.Context, actorUserID uuid.UUID, action, entityType string, entityID uuid.UUID, beforeData, afterData *string, metadata map[string]any) error
}
