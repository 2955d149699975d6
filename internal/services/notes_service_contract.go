package services

import (
	"context"

	"clinician-notes-service/internal/domain/dtos"
	"clinician-notes-service/internal/domain/entities"

	"github.com/google/uuid"
)

// NotesServiceContract owns the note-version state machine: AI generation
// into draft versions, draft editing, finalization and rollback. Version
// history is append-only; finalized versions are terminal.
type NotesServiceContract interface {
	// GenerateSuggestions runs the full pipeline for a session: decrypt,
	// injection scan, safe-mode decision, generation, then atomically
	// persists the immutable AiSuggestion and a new draft NoteVersion.
	// Generation failure is not fatal: the fallback empty document is
	// persisted and the warning message describes the failure.
	GenerateSuggestions(ctx context.Context, sessionID, userID uuid.UUID, req dtos.GenerateRequest) (*dtos.GenerateResponse, error)
	// UpdateVersion applies the provided content fragments to a draft
	// version, leaving absent fragments untouched.
	UpdateVersion(ctx context.Context, versionID, userID uuid.UUID, req dtos.UpdateVersionRequest) (*entities.NoteVersion, error)
	// FinalizeVersion transitions a draft to final. Irreversible.
	FinalizeVersion(ctx context.Context, versionID, userID uuid.UUID) (*entities.NoteVersion, error)
	// RollbackToVersion creates a new draft whose content is copied from the
	// target version. History is never mutated and version numbers are never
	// reused.
	RollbackToVersion(ctx context.Context, sessionID, targetVersionID, userID uuid.UUID) (*entities.NoteVersion, error)
	// ListVersions returns a session's versions in version-number order.
	ListVersions(ctx context.Context, sessionID uuid.UUID) ([]*entities.NoteVersion, error)
}
