package repositories

import (
	"context"
	"errors"
	"fmt"

	"clinician-notes-service/internal/domain"
	"clinician-notes-service/internal/domain/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNoteVersionRepository implements NoteVersionRepositoryContract on GORM.
type GormNoteVersionRepository struct {
	db *gorm.DB
}

var _ NoteVersionRepositoryContract = (*GormNoteVersionRepository)(nil)

func NewGormNoteVersionRepository(db *gorm.DB) *GormNoteVersionRepository {
	return &GormNoteVersionRepository{db: db}
}

func (r *GormNoteVersionRepository) Create(ctx context.Context, version *entities.NoteVersion) error {
	if err := dbFromContext(ctx, r.db).Create(version).Error; err != nil {
		return fmt.Errorf("failed to create note version: %w", err)
	}
	return nil
}

func (r *GormNoteVersionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.NoteVersion, error) {
	var version entities.NoteVersion
	err := dbFromContext(ctx, r.db).First(&version, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("note version %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load note version %s: %w", id, err)
	}
	return &version, nil
}

func (r *GormNoteVersionRepository) Update(ctx context.Context, version *entities.NoteVersion) error {
	if err := dbFromContext(ctx, r.db).Save(version).Error; err != nil {
		return fmt.Errorf("failed to update note version %s: %w", version.ID, err)
	}
	return nil
}

func (r *GormNoteVersionRepository) MaxVersionNumber(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var max *int
	err := dbFromContext(ctx, r.db).
		Model(&entities.NoteVersion{}).
		Where("session_id = ?", sessionID).
		Select("MAX(version_number)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute max version for session %s: %w", sessionID, err)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *GormNoteVersionRepository) ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*entities.NoteVersion, error) {
	var versions []*entities.NoteVersion
	err := dbFromContext(ctx, r.db).
		Where("session_id = ?", sessionID).
		Order("version_number ASC").
		Find(&versions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list versions for session %s: %w", sessionID, err)
	}
	return versions, nil
}
