package dtos

import (
	"time"

	"github.com/google/uuid"
)

// Generation modes requested by the caller. An injection hit overrides the
// requested mode and forces safe.
const (
	ModeFull = "full"
	ModeSafe = "safe"
)

// GenerateRequest asks for AI suggestions for a session.
type GenerateRequest struct {
	PromptVersion string  `json:"prompt_version"`
	ModelName     string  `json:"model_name,omitempty"`
	Mode          string  `json:"mode"`
	Temperature   float64 `json:"temperature"`
}

// GenerateResponse reports the persisted suggestion and draft version
// created by one generation call, together with the structured output.
type GenerateResponse struct {
	AiSuggestionID    uuid.UUID            `json:"ai_suggestion_id"`
	NoteVersionID     uuid.UUID            `json:"note_version_id"`
	InjectionDetected bool                 `json:"injection_detected"`
	SafetyMode        bool                 `json:"safety_mode"`
	WarningMessage    *string              `json:"warning_message,omitempty"`
	Soap              *SOAPNote            `json:"soap"`
	Diagnosis         *DiagnosisSuggestion `json:"diagnosis"`
	Medications       *MedicationEducation `json:"medications"`
	SafetyPlan        *SafetyPlan          `json:"safety_plan"`
	EngineLatencyMs   int64                `json:"engine_latency_ms"`
}

// UpdateVersionRequest carries partial content fragments for a draft
// version. Nil fragments are left untouched.
type UpdateVersionRequest struct {
	SoapJSON   *string `json:"soap_json,omitempty"`
	DxJSON     *string `json:"dx_json,omitempty"`
	MedsJSON   *string `json:"meds_json,omitempty"`
	SafetyJSON *string `json:"safety_json,omitempty"`
}

// RollbackRequest names the version whose content the new draft copies.
type RollbackRequest struct {
	TargetVersionID uuid.UUID `json:"target_version_id"`
}

// NoteVersionResponse is the API shape of a note version.
type NoteVersionResponse struct {
	ID              uuid.UUID  `json:"id"`
	SessionID       uuid.UUID  `json:"session_id"`
	VersionNumber   int        `json:"version_number"`
	Status          string     `json:"status"`
	SoapJSON        string     `json:"soap_json,omitempty"`
	DxJSON          string     `json:"dx_json,omitempty"`
	MedsJSON        string     `json:"meds_json,omitempty"`
	SafetyJSON      string     `json:"safety_json,omitempty"`
	AiSuggestionID  *uuid.UUID `json:"ai_suggestion_id,omitempty"`
	CreatedByUserID uuid.UUID  `json:"created_by_user_id"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateSessionRequest uploads a session transcript.
type CreateSessionRequest struct {
	PatientID  uuid.UUID `json:"patient_id"`
	Transcript string    `json:"transcript"`
}

// SessionResponse is the API shape of a session; the transcript itself is
// never returned.
type SessionResponse struct {
	ID             uuid.UUID `json:"id"`
	PatientID      uuid.UUID `json:"patient_id"`
	TranscriptHash string    `json:"transcript_hash"`
	CreatedAt      time.Time `json:"created_at"`
}
