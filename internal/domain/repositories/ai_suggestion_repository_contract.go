package repositories

import (
	"context"

	"clinician-notes-service/internal/domain/entities"

	"github.com/google/uuid"
)

// AiSuggestionRepositoryContract defines the data operations for AI
// suggestion records. Records are immutable: there is deliberately no
// update or delete.
type AiSuggestionRepositoryContract interface {
	Create(ctx context.Context, suggestion *entities.AiSuggestion) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.AiSuggestion, error)
	ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*entities.AiSuggestion, error)
}
