package repositories

import (
	"context"
	"errors"
	"fmt"

	"clinician-notes-service/internal/domain"
	"clinician-notes-service/internal/domain/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSessionRepository implements SessionRepositoryContract on GORM.
type GormSessionRepository struct {
	db *gorm.DB
}

var _ SessionRepositoryContract = (*GormSessionRepository)(nil)

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if err := dbFromContext(ctx, r.db).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *GormSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	var session entities.Session
	err := dbFromContext(ctx, r.db).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return &session, nil
}

func (r *GormSessionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	var session entities.Session
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock session %s: %w", id, err)
	}
	return &session, nil
}

func (r *GormSessionRepository) ListByPatientID(ctx context.Context, patientID uuid.UUID) ([]*entities.Session, error) {
	var sessions []*entities.Session
	err := dbFromContext(ctx, r.db).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for patient %s: %w", patientID, err)
	}
	return sessions, nil
}
