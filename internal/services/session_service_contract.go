package services

import (
	"context"

	"clinician-notes-service/internal/domain/entities"

	"github.com/google/uuid"
)

// SessionServiceContract manages therapy sessions and their encrypted
// transcripts.
type SessionServiceContract interface {
	// CreateSession encrypts and stores a transcript for a patient.
	CreateSession(ctx context.Context, patientID, userID uuid.UUID, transcript string) (*entities.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*entities.Session, error)
}
