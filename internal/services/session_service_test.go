package services

import (
	"context"
	"io"
	"log"
	"testing"

	"clinician-notes-service/internal/domain/entities"
	"clinician-notes-service/internal/security"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestSessionService(t *testing.T, sessionRepo *MockSessionRepository, audit *MockAuditService) SessionServiceContract {
	t.Helper()
	key := make([]byte, 32)
	copy(key, "0123456789abcdef0123456789abcdef")
	cipher, err := security.NewCipher(key)
	assert.NoError(t, err)
	return NewSessionService(sessionRepo, audit, &MockTransactor{}, cipher, log.New(io.Discard, "", 0))
}

func TestCreateSession_EncryptsTranscriptAndAudits(t *testing.T) {
	var created *entities.Session
	sessionRepo := &MockSessionRepository{
		CreateFunc: func(ctx context.Context, session *entities.Session) error {
			session.ID = uuid.New()
			created = session
			return nil
		},
	}
	audit := &MockAuditService{}
	svc := newTestSessionService(t, sessionRepo, audit)

	patientID := uuid.New()
	userID := uuid.New()
	transcript := "Patient: I've been feeling sad and hopeless."

	session, err := svc.CreateSession(context.Background(), patientID, userID, transcript)

	assert.NoError(t, err)
	assert.Equal(t, patientID, session.PatientID)
	assert.Equal(t, userID, session.CreatedByUserID)
	assert.Equal(t, security.HashForAudit(transcript), session.TranscriptHash)
	// The stored payload is ciphertext, not the transcript.
	assert.NotContains(t, string(created.TranscriptEncrypted), "hopeless")

	assert.Len(t, audit.Calls, 1)
	assert.Equal(t, "create_session", audit.Calls[0].Action)
	assert.Equal(t, "session", audit.Calls[0].EntityType)
	assert.Equal(t, session.ID, audit.Calls[0].EntityID)
}

func TestCreateSession_EmptyTranscriptRejected(t *testing.T) {
	svc := newTestSessionService(t, &MockSessionRepository{}, &MockAuditService{})

	_, err := svc.CreateSession(context.Background(), uuid.New(), uuid.New(), "")

	assert.Error(t, err)
}

func TestCreateSession_RepositoryFailurePropagates(t *testing.T) {
	sessionRepo := &MockSessionRepository{
		CreateFunc: func(ctx context.Context, session *entities.Session) error {
			return assert.AnError
		},
	}
	audit := &MockAuditService{}
	svc := newTestSessionService(t, sessionRepo, audit)

	_, err := svc.CreateSession(context.Background(), uuid.New(), uuid.New(), "transcript")

	assert.ErrorIs(t, err, assert.AnError)
}
