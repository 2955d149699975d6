package entities

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a recorded therapy session. The transcript is stored
// encrypted; TranscriptHash is the SHA-256 of the plaintext for audit use.
// A Session exclusively owns its AiSuggestions and NoteVersions.
type Session struct {
	ID                  uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	PatientID           uuid.UUID `json:"patient_id" db:"patient_id" gorm:"type:uuid;not null;index"`
	CreatedByUserID     uuid.UUID `json:"created_by_user_id" db:"created_by_user_id" gorm:"type:uuid;not null"`
	TranscriptEncrypted []byte    `json:"-" db:"transcript_encrypted" gorm:"not null"`
	TranscriptHash      string    `json:"transcript_hash" db:"transcript_hash" gorm:"size:64;not null"`
	CreatedAt           time.Time `json:"created_at" db:"created_at" gorm:"not null;index"`

	AiSuggestions []AiSuggestion `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	NoteVersions  []NoteVersion  `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}
