package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"clinician-notes-service/internal/adapters"
	"clinician-notes-service/internal/domain"
	"clinician-notes-service/internal/domain/dtos"
	"clinician-notes-service/internal/domain/entities"
	"clinician-notes-service/internal/domain/repositories"

	"github.com/google/uuid"
)

// Compile-time checks that the mocks satisfy their contracts.
var (
	_ repositories.SessionRepositoryContract      = (*MockSessionRepository)(nil)
	_ repositories.NoteVersionRepositoryContract  = (*MockNoteVersionRepository)(nil)
	_ repositories.AiSuggestionRepositoryContract = (*MockAiSuggestionRepository)(nil)
	_ repositories.TransactorContract             = (*MockTransactor)(nil)
	_ AuditServiceContract                        = (*MockAuditService)(nil)
	_ GenerationServiceContract                   = (*MockGenerationService)(nil)
	_ adapters.GenerationEngineContract           = (*MockEngine)(nil)
)

// MockSessionRepository is a function-field mock of SessionRepositoryContract.
type MockSessionRepository struct {
	CreateFunc           func(ctx context.Context, session *entities.Session) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*entities.Session, error)
	GetByIDForUpdateFunc func(ctx context.Context, id uuid.UUID) (*entities.Session, error)
	ListByPatientIDFunc  func(ctx context.Context, patientID uuid.UUID) ([]*entities.Session, error)
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *MockSessionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockSessionRepository) ListByPatientID(ctx context.Context, patientID uuid.UUID) ([]*entities.Session, error) {
	if m.ListByPatientIDFunc != nil {
		return m.ListByPatientIDFunc(ctx, patientID)
	}
	return nil, nil
}

// MockNoteVersionRepository is a function-field mock backed by an in-memory
// version table for the state-machine tests.
type MockNoteVersionRepository struct {
	mu       sync.Mutex
	versions map[uuid.UUID]*entities.NoteVersion

	CreateFunc           func(ctx context.Context, version *entities.NoteVersion) error
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*entities.NoteVersion, error)
	UpdateFunc           func(ctx context.Context, version *entities.NoteVersion) error
	MaxVersionNumberFunc func(ctx context.Context, sessionID uuid.UUID) (int, error)
}

func NewMockNoteVersionRepository() *MockNoteVersionRepository {
	return &MockNoteVersionRepository{versions: make(map[uuid.UUID]*entities.NoteVersion)}
}

func (m *MockNoteVersionRepository) put(version *entities.NoteVersion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *version
	m.versions[version.ID] = &copied
}

func (m *MockNoteVersionRepository) Create(ctx context.Context, version *entities.NoteVersion) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, version)
	}
	if version.ID == uuid.Nil {
		version.ID = uuid.New()
	}
	m.put(version)
	return nil
}

func (m *MockNoteVersionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.NoteVersion, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	version, ok := m.versions[id]
	if !ok {
		return nil, notFoundErr("note version")
	}
	copied := *version
	return &copied, nil
}

func (m *MockNoteVersionRepository) Update(ctx context.Context, version *entities.NoteVersion) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, version)
	}
	m.put(version)
	return nil
}

func (m *MockNoteVersionRepository) MaxVersionNumber(ctx context.Context, sessionID uuid.UUID) (int, error) {
	if m.MaxVersionNumberFunc != nil {
		return m.MaxVersionNumberFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	max := 0
	for _, v := range m.versions {
		if v.SessionID == sessionID && v.VersionNumber > max {
			max = v.VersionNumber
		}
	}
	return max, nil
}

func (m *MockNoteVersionRepository) ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*entities.NoteVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.NoteVersion
	for _, v := range m.versions {
		if v.SessionID == sessionID {
			copied := *v
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MockAiSuggestionRepository is a function-field mock of
// AiSuggestionRepositoryContract.
type MockAiSuggestionRepository struct {
	CreateFunc func(ctx context.Context, suggestion *entities.AiSuggestion) error
	Created    []*entities.AiSuggestion
}

func (m *MockAiSuggestionRepository) Create(ctx context.Context, suggestion *entities.AiSuggestion) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, suggestion)
	}
	if suggestion.ID == uuid.Nil {
		suggestion.ID = uuid.New()
	}
	m.Created = append(m.Created, suggestion)
	return nil
}

func (m *MockAiSuggestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.AiSuggestion, error) {
	for _, s := range m.Created {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, notFoundErr("ai suggestion")
}

func (m *MockAiSuggestionRepository) ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*entities.AiSuggestion, error) {
	var out []*entities.AiSuggestion
	for _, s := range m.Created {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}

// MockTransactor runs the function inline without a database.
type MockTransactor struct{}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// AuditCall captures one recorded audit event.
type AuditCall struct {
	ActorUserID uuid.UUID
	Action      string
	EntityType  string
	EntityID    uuid.UUID
	Before      *string
	After       *string
	Metadata    map[string]any
}

// MockAuditService records calls for assertions.
type MockAuditService struct {
	RecordFunc func(ctx context.Context, actorUserID uuid.UUID, action, entityType string, entityID uuid.UUID, beforeData, afterData *string, metadata map[string]any) error
	Calls      []AuditCall
}

func (m *MockAuditService) Record(ctx context.Context, actorUserID uuid.UUID, action, entityType string, entityID uuid.UUID, beforeData, afterData *string, metadata map[string]any) error {
	m.Calls = append(m.Calls, AuditCall{
		ActorUserID: actorUserID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Before:      beforeData,
		After:       afterData,
		Metadata:    metadata,
	})
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, actorUserID, action, entityType, entityID, beforeData, afterData, metadata)
	}
	return nil
}

// MockGenerationService is a function-field mock of
// GenerationServiceContract.
type MockGenerationService struct {
	GenerateFunc func(ctx context.Context, transcript string, temperature float64, safeMode bool) (*dtos.AiOutput, int64, error)
	ModelNameVal string
}

func (m *MockGenerationService) Generate(ctx context.Context, transcript string, temperature float64, safeMode bool) (*dtos.AiOutput, int64, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, transcript, temperature, safeMode)
	}
	return nil, 0, errors.New("GenerateFunc not implemented in mock")
}

func (m *MockGenerationService) CreateEmptyOutput() *dtos.AiOutput {
	return emptyOutputForTest()
}

func (m *MockGenerationService) ModelName() string {
	if m.ModelNameVal != "" {
		return m.ModelNameVal
	}
	return "test-model"
}

// MockEngine is a function-field mock of the generation engine.
type MockEngine struct {
	CompleteFunc func(ctx context.Context, prompt string, temperature float64, maxOutputTokens int) (string, error)
	Model        string
	CallCount    int
	Prompts      []string
}

func (m *MockEngine) Complete(ctx context.Context, prompt string, temperature float64, maxOutputTokens int) (string, error) {
	m.CallCount++
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, temperature, maxOutputTokens)
	}
	return "", errors.New("CompleteFunc not implemented in mock")
}

func (m *MockEngine) ModelName() string {
	if m.Model != "" {
		return m.Model
	}
	return "test-model"
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
}

// emptyOutputForTest mirrors the deterministic fallback document.
func emptyOutputForTest() *dtos.AiOutput {
	section := func() *dtos.SOAPSection {
		return &dtos.SOAPSection{Content: "Not documented.", Citations: []dtos.Citation{}}
	}
	return &dtos.AiOutput{
		Soap: &dtos.SOAPNote{
			Subjective: section(),
			Objective:  section(),
			Assessment: section(),
			Plan:       section(),
		},
		Diagnosis:   &dtos.DiagnosisSuggestion{Differential: []dtos.DiagnosisItem{}},
		Medications: &dtos.MedicationEducation{Medications: []dtos.MedicationItem{}},
		SafetyPlan: &dtos.SafetyPlan{
			WarningSigns:         []dtos.SafetyPlanItem{},
			CopingStrategies:     []dtos.SafetyPlanItem{},
			SupportContacts:      []dtos.SafetyPlanItem{},
			ProfessionalContacts: []dtos.SafetyPlanItem{},
			EnvironmentSafety:    []dtos.SafetyPlanItem{},
			ReasonsForLiving:     []dtos.SafetyPlanItem{},
		},
	}
}
