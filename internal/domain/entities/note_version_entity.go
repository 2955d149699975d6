package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NoteStatus values for a NoteVersion. Final is terminal.
const (
	NoteStatusDraft = "draft"
	NoteStatusFinal = "final"
)

// NoteVersion is one entry in a session's append-only note history.
// Version numbers are 1-based and strictly increasing per session; the unique
// index backs the per-session numbering invariant. Content fragments are
// independently nullable JSON documents; AiSuggestionID is a non-owning
// reference to the suggestion the version was created from, if any.
type NoteVersion struct {
	ID              uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	SessionID       uuid.UUID      `json:"session_id" db:"session_id" gorm:"type:uuid;not null;uniqueIndex:ux_note_versions_session_version"`
	VersionNumber   int            `json:"version_number" db:"version_number" gorm:"not null;uniqueIndex:ux_note_versions_session_version"`
	Status          string         `json:"status" db:"status" gorm:"size:20;not null;default:'draft';index"`
	SoapJSON        datatypes.JSON `json:"soap_json" db:"soap_json" gorm:"type:jsonb"`
	DxJSON          datatypes.JSON `json:"dx_json" db:"dx_json" gorm:"type:jsonb"`
	MedsJSON        datatypes.JSON `json:"meds_json" db:"meds_json" gorm:"type:jsonb"`
	SafetyJSON      datatypes.JSON `json:"safety_json" db:"safety_json" gorm:"type:jsonb"`
	AiSuggestionID  *uuid.UUID     `json:"ai_suggestion_id" db:"ai_suggestion_id" gorm:"type:uuid"`
	CreatedByUserID uuid.UUID      `json:"created_by_user_id" db:"created_by_user_id" gorm:"type:uuid;not null"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at" gorm:"not null"`
}

// IsFinal reports whether the version has reached its terminal state.
func (v *NoteVersion) IsFinal() bool {
	return v.Status == NoteStatusFinal
}
