package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"clinician-notes-service/internal/domain/entities"
	"clinician-notes-service/internal/domain/repositories"
	"clinician-notes-service/internal/security"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditServiceImpl implements AuditServiceContract on the audit log
// repository.
type AuditServiceImpl struct {
	auditRepo repositories.AuditLogRepositoryContract
	logger    *log.Logger
}

var _ AuditServiceContract = (*AuditServiceImpl)(nil)

func NewAuditService(auditRepo repositories.AuditLogRepositoryContract, logger *log.Logger) AuditServiceContract {
	return &AuditServiceImpl{auditRepo: auditRepo, logger: logger}
}

func (s *AuditServiceImpl) Record(ctx context.Context, actorUserID uuid.UUID, action, entityType string, entityID uuid.UUID, beforeData, afterData *string, metadata map[string]any) error {
	entry := &entities.AuditLog{
		ActorUserID: actorUserID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
	}

	if beforeData != nil {
		h := security.HashForAudit(*beforeData)
		entry.BeforeHash = &h
	}
	if afterData != nil {
		h := security.HashForAudit(*afterData)
		entry.AfterHash = &h
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to serialize audit metadata: %w", err)
		}
		entry.Metadata = datatypes.JSON(raw)
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		return err
	}

	s.logger.Printf("Audit log created: %s on %s:%s", action, entityType, entityID)
	return nil
}
