package repositories

import (
	"context"

	"clinician-notes-service/internal/domain/entities"

	"github.com/google/uuid"
)

// SessionRepositoryContract defines the data operations for therapy sessions.
type SessionRepositoryContract interface {
	Create(ctx context.Context, session *entities.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Session, error)
	// GetByIDForUpdate locks the session row for the duration of the
	// surrounding transaction. Version numbering for a session is serialized
	// on this lock.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Session, error)
	ListByPatientID(ctx context.Context, patientID uuid.UUID) ([]*entities.Session, error)
}
