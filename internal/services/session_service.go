package services

import (
	"context"
	"fmt"
	"log"

	"clinician-notes-service/internal/domain/entities"
	"clinician-notes-service/internal/domain/repositories"
	"clinician-notes-service/internal/security"

	"github.com/google/uuid"
)

// SessionServiceImpl implements SessionServiceContract.
type SessionServiceImpl struct {
	sessionRepo repositories.SessionRepositoryContract
	audit       AuditServiceContract
	transactor  repositories.TransactorContract
	cipher      *security.Cipher
	logger      *log.Logger
}

var _ SessionServiceContract = (*SessionServiceImpl)(nil)

func NewSessionService(
	sessionRepo repositories.SessionRepositoryContract,
	audit AuditServiceContract,
	transactor repositories.TransactorContract,
	cipher *security.Cipher,
	logger *log.Logger,
) SessionServiceContract {
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		audit:       audit,
		transactor:  transactor,
		cipher:      cipher,
		logger:      logger,
	}
}

func (s *SessionServiceImpl) CreateSession(ctx context.Context, patientID, userID uuid.UUID, transcript string) (*entities.Session, error) {
	if transcript == "" {
		return nil, fmt.Errorf("transcript is required")
	}

	encrypted, err := s.cipher.Encrypt(transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt transcript: %w", err)
	}

	session := &entities.Session{
		PatientID:           patientID,
		CreatedByUserID:     userID,
		TranscriptEncrypted: encrypted,
		TranscriptHash:      security.HashForAudit(transcript),
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return err
		}
		after := session.TranscriptHash
		return s.audit.Record(ctx, userID, "create_session", "session", session.ID, nil, &after, nil)
	})
	if err != nil {
		return nil, err
	}

	// Transcript length only; the content never hits the logs.
	s.logger.Printf("Session %s created for patient %s (transcript length %d)", session.ID, patientID, len(transcript))
	return session, nil
}

func (s *SessionServiceImpl) GetSession(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	return s.sessionRepo.GetByID(ctx, id)
}
