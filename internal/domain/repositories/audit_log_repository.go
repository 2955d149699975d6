package repositories

import (
	"context"
	"fmt"

	"clinician-notes-service/internal/domain/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements AuditLogRepositoryContract on GORM.
type GormAuditLogRepository struct {
	db *gorm.DB
}

var _ AuditLogRepositoryContract = (*GormAuditLogRepository)(nil)

func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

func (r *GormAuditLogRepository) Create(ctx context.Context, entry *entities.AuditLog) error {
	if err := dbFromContext(ctx, r.db).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

func (r *GormAuditLogRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*entities.AuditLog, error) {
	var entries []*entities.AuditLog
	err := dbFromContext(ctx, r.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log entries for %s %s: %w", entityType, entityID, err)
	}
	return entries, nil
}
