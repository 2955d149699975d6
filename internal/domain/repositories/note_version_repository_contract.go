package repositories

import (
	"context"

	"clinician-notes-service/internal/domain/entities"

	"github.com/google/uuid"
)

// NoteVersionRepositoryContract defines the data operations for note
// versions. Versions are append-only apart from draft content updates.
type NoteVersionRepositoryContract interface {
	Create(ctx context.Context, version *entities.NoteVersion) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.NoteVersion, error)
	Update(ctx context.Context, version *entities.NoteVersion) error
	// MaxVersionNumber returns the highest version number for a session, or
	// 0 when the session has no versions yet. Callers must hold the session
	// row lock before relying on the result for numbering.
	MaxVersionNumber(ctx context.Context, sessionID uuid.UUID) (int, error)
	ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*entities.NoteVersion, error)
}
