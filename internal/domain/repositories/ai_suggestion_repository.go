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

// GormAiSuggestionRepository implements AiSuggestionRepositoryContract on GORM.
type GormAiSuggestionRepository struct {
	db *gorm.DB
}

var _ AiSuggestionRepositoryContract = (*GormAiSuggestionRepository)(nil)

func NewGormAiSuggestionRepository(db *gorm.DB) *GormAiSuggestionRepository {
	return &GormAiSuggestionRepository{db: db}
}

func (r *GormAiSuggestionRepository) Create(ctx context.Context, suggestion *entities.AiSuggestion) error {
	if err := dbFromContext(ctx, r.db).Create(suggestion).Error; err != nil {
		return fmt.Errorf("failed to create ai suggestion: %w", err)
	}
	return nil
}

func (r *GormAiSuggestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.AiSuggestion, error) {
	var suggestion entities.AiSuggestion
	err := dbFromContext(ctx, r.db).First(&suggestion, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("ai suggestion %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ai suggestion %s: %w", id, err)
	}
	return &suggestion, nil
}

func (r *GormAiSuggestionRepository) ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*entities.AiSuggestion, error) {
	var suggestions []*entities.AiSuggestion
	err := dbFromContext(ctx, r.db).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ai suggestions for session %s: %w", sessionID, err)
	}
	return suggestions, nil
}
