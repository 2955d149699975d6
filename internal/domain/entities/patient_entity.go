package entities

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a patient in the system. ExternalID carries the
// identifier from an upstream EHR when one exists.
type Patient struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ExternalID  *string   `json:"external_id" db:"external_id" gorm:"size:100;unique"`
	Name        string    `json:"name" db:"name" gorm:"not null;index"`
	DateOfBirth *string   `json:"date_of_birth" db:"date_of_birth" gorm:"size:10"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"not null"`

	Sessions []Session `json:"-" gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE"`
}
