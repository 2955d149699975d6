package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"clinician-notes-service/internal/domain"
	"clinician-notes-service/internal/domain/dtos"
	"clinician-notes-service/internal/domain/entities"
	"clinician-notes-service/internal/domain/repositories"
	"clinician-notes-service/internal/mappers"
	"clinician-notes-service/internal/observability"
	"clinician-notes-service/internal/security"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotesServiceImpl implements NotesServiceContract.
type NotesServiceImpl struct {
	sessionRepo    repositories.SessionRepositoryContract
	versionRepo    repositories.NoteVersionRepositoryContract
	suggestionRepo repositories.AiSuggestionRepositoryContract
	transactor     repositories.TransactorContract
	guardrails     GuardrailsServiceContract
	generation     GenerationServiceContract
	audit          AuditServiceContract
	metrics        observability.MetricsSinkContract
	cipher         *security.Cipher
	eval           EvalServiceContract
	logger         *log.Logger
}

var _ NotesServiceContract = (*NotesServiceImpl)(nil)

// NewNotesService wires the note-version state machine. eval may be nil when
// the evaluation pipeline is not running.
func NewNotesService(
	sessionRepo repositories.SessionRepositoryContract,
	versionRepo repositories.NoteVersionRepositoryContract,
	suggestionRepo repositories.AiSuggestionRepositoryContract,
	transactor repositories.TransactorContract,
	guardrails GuardrailsServiceContract,
	generation GenerationServiceContract,
	audit AuditServiceContract,
	metrics observability.MetricsSinkContract,
	cipher *security.Cipher,
	eval EvalServiceContract,
	logger *log.Logger,
) NotesServiceContract {
	return &NotesServiceImpl{
		sessionRepo:    sessionRepo,
		versionRepo:    versionRepo,
		suggestionRepo: suggestionRepo,
		transactor:     transactor,
		guardrails:     guardrails,
		generation:     generation,
		audit:          audit,
		metrics:        metrics,
		cipher:         cipher,
		eval:           eval,
		logger:         logger,
	}
}

func (s *NotesServiceImpl) GenerateSuggestions(ctx context.Context, sessionID, userID uuid.UUID, req dtos.GenerateRequest) (*dtos.GenerateResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	transcript, err := s.cipher.Decrypt(session.TranscriptEncrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt transcript for session %s: %w", sessionID, err)
	}

	injectionDetected, patterns := s.guardrails.ScanForInjection(transcript)

	// An injection hit overrides whatever mode the caller asked for.
	safeMode := req.Mode == dtos.ModeSafe || injectionDetected
	var warning *string
	if injectionDetected {
		msg := fmt.Sprintf("Potential prompt injection detected. Running in safe mode. Patterns matched: %d", len(patterns))
		warning = &msg
		s.logger.Printf("Injection detected for session %s, forcing safe mode (%d patterns)", sessionID, len(patterns))
	}

	output, latencyMs, genErr := s.generation.Generate(ctx, transcript, req.Temperature, safeMode)
	if genErr != nil {
		// Caller cancellation abandons the attempt before anything is
		// persisted. Every other failure degrades to the empty document.
		if errors.Is(genErr, context.Canceled) || errors.Is(genErr, context.DeadlineExceeded) {
			return nil, genErr
		}
		s.logger.Printf("AI generation failed for session %s: %v", sessionID, genErr)
		output = s.generation.CreateEmptyOutput()
		latencyMs = 0
		msg := fmt.Sprintf("AI generation failed: %v", genErr)
		warning = &msg
	}

	status := "success"
	if genErr != nil {
		status = "fallback"
	}
	s.metrics.IncGeneration(status, safeMode)

	rawOutput, err := mappers.MapOutputToRaw(output)
	if err != nil {
		return nil, err
	}
	fragments, err := mappers.MapOutputToFragments(output)
	if err != nil {
		return nil, err
	}

	modelName := req.ModelName
	if modelName == "" {
		modelName = s.generation.ModelName()
	}
	promptVersion := req.PromptVersion
	if promptVersion == "" {
		promptVersion = "v1"
	}

	suggestion := &entities.AiSuggestion{
		SessionID:       sessionID,
		ModelName:       modelName,
		PromptVersion:   promptVersion,
		RawOutput:       rawOutput,
		InjectionFlag:   injectionDetected,
		SafetyMode:      safeMode,
		EngineLatencyMs: latencyMs,
	}

	var version *entities.NoteVersion
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.suggestionRepo.Create(ctx, suggestion); err != nil {
			return err
		}
		created, err := s.createVersionLocked(ctx, sessionID, userID, &suggestion.ID, fragments)
		if err != nil {
			return err
		}
		version = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eval != nil && genErr == nil {
		if err := s.eval.Submit(ctx, EvalJob{SuggestionID: suggestion.ID, Output: output, Transcript: transcript}); err != nil {
			s.logger.Printf("Failed to enqueue eval job for suggestion %s: %v", suggestion.ID, err)
		}
	}

	return &dtos.GenerateResponse{
		AiSuggestionID:    suggestion.ID,
		NoteVersionID:     version.ID,
		InjectionDetected: injectionDetected,
		SafetyMode:        safeMode,
		WarningMessage:    warning,
		Soap:              output.Soap,
		Diagnosis:         output.Diagnosis,
		Medications:       output.Medications,
		SafetyPlan:        output.SafetyPlan,
		EngineLatencyMs:   latencyMs,
	}, nil
}

// createVersionLocked inserts the next draft version for a session. The
// session row lock serializes the max+1 computation; the unique index on
// (session_id, version_number) backs it up.
func (s *NotesServiceImpl) createVersionLocked(ctx context.Context, sessionID, userID uuid.UUID, suggestionID *uuid.UUID, fragments *mappers.NoteFragments) (*entities.NoteVersion, error) {
	if _, err := s.sessionRepo.GetByIDForUpdate(ctx, sessionID); err != nil {
		return nil, err
	}

	maxVersion, err := s.versionRepo.MaxVersionNumber(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	version := &entities.NoteVersion{
		SessionID:       sessionID,
		VersionNumber:   maxVersion + 1,
		Status:          entities.NoteStatusDraft,
		SoapJSON:        fragments.Soap,
		DxJSON:          fragments.Dx,
		MedsJSON:        fragments.Meds,
		SafetyJSON:      fragments.Safety,
		AiSuggestionID:  suggestionID,
		CreatedByUserID: userID,
	}
	if err := s.versionRepo.Create(ctx, version); err != nil {
		return nil, err
	}

	after := string(version.SoapJSON)
	if err := s.audit.Record(ctx, userID, "create_version", "note_version", version.ID, nil, &after, nil); err != nil {
		return nil, err
	}

	return version, nil
}

func (s *NotesServiceImpl) UpdateVersion(ctx context.Context, versionID, userID uuid.UUID, req dtos.UpdateVersionRequest) (*entities.NoteVersion, error) {
	var updated *entities.NoteVersion
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		version, err := s.versionRepo.GetByID(ctx, versionID)
		if err != nil {
			return err
		}
		if version.IsFinal() {
			return fmt.Errorf("cannot update a finalized version: %w", domain.ErrInvalidState)
		}

		before := fragmentState(version)

		if req.SoapJSON != nil {
			version.SoapJSON = datatypes.JSON(*req.SoapJSON)
		}
		if req.DxJSON != nil {
			version.DxJSON = datatypes.JSON(*req.DxJSON)
		}
		if req.MedsJSON != nil {
			version.MedsJSON = datatypes.JSON(*req.MedsJSON)
		}
		if req.SafetyJSON != nil {
			version.SafetyJSON = datatypes.JSON(*req.SafetyJSON)
		}

		after := fragmentState(version)

		if err := s.versionRepo.Update(ctx, version); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, userID, "update_version", "note_version", versionID, &before, &after, nil); err != nil {
			return err
		}

		updated = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *NotesServiceImpl) FinalizeVersion(ctx context.Context, versionID, userID uuid.UUID) (*entities.NoteVersion, error) {
	var finalized *entities.NoteVersion
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		version, err := s.versionRepo.GetByID(ctx, versionID)
		if err != nil {
			return err
		}
		if version.IsFinal() {
			return fmt.Errorf("version is already finalized: %w", domain.ErrInvalidState)
		}

		before := fmt.Sprintf(`{"status":%q}`, version.Status)
		version.Status = entities.NoteStatusFinal
		after := fmt.Sprintf(`{"status":%q}`, entities.NoteStatusFinal)

		if err := s.versionRepo.Update(ctx, version); err != nil {
			return err
		}
		if err := s.audit.Record(ctx, userID, "finalize_version", "note_version", versionID, &before, &after, nil); err != nil {
			return err
		}

		finalized = version
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Printf("Version %s finalized by user %s", versionID, userID)
	return finalized, nil
}

func (s *NotesServiceImpl) RollbackToVersion(ctx context.Context, sessionID, targetVersionID, userID uuid.UUID) (*entities.NoteVersion, error) {
	var created *entities.NoteVersion
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.versionRepo.GetByID(ctx, targetVersionID)
		if err != nil {
			return err
		}
		if target.SessionID != sessionID {
			return fmt.Errorf("target version does not belong to this session: %w", domain.ErrInvalidState)
		}

		if _, err := s.sessionRepo.GetByIDForUpdate(ctx, sessionID); err != nil {
			return err
		}
		maxVersion, err := s.versionRepo.MaxVersionNumber(ctx, sessionID)
		if err != nil {
			return err
		}

		// Content and suggestion reference are copied verbatim; the target's
		// own status does not matter.
		version := &entities.NoteVersion{
			SessionID:       sessionID,
			VersionNumber:   maxVersion + 1,
			Status:          entities.NoteStatusDraft,
			SoapJSON:        target.SoapJSON,
			DxJSON:          target.DxJSON,
			MedsJSON:        target.MedsJSON,
			SafetyJSON:      target.SafetyJSON,
			AiSuggestionID:  target.AiSuggestionID,
			CreatedByUserID: userID,
		}
		if err := s.versionRepo.Create(ctx, version); err != nil {
			return err
		}

		metadata := map[string]any{
			"source_version_id":  targetVersionID.String(),
			"new_version_number": version.VersionNumber,
		}
		if err := s.audit.Record(ctx, userID, "rollback_version", "note_version", version.ID, nil, nil, metadata); err != nil {
			return err
		}

		created = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *NotesServiceImpl) ListVersions(ctx context.Context, sessionID uuid.UUID) ([]*entities.NoteVersion, error) {
	return s.versionRepo.ListBySessionID(ctx, sessionID)
}

// fragmentState serializes the four fragments for audit hashing.
func fragmentState(version *entities.NoteVersion) string {
	state, _ := json.Marshal(map[string]string{
		"soap":   string(version.SoapJSON),
		"dx":     string(version.DxJSON),
		"meds":   string(version.MedsJSON),
		"safety": string(version.SafetyJSON),
	})
	return string(state)
}
