package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole values for role checks done by the external auth layer.
const (
	RoleAdmin     = "admin"
	RoleClinician = "clinician"
	RoleViewer    = "viewer"
)

// User represents a clinician or administrator account.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Email        string    `json:"email" db:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"not null"`
	Role         string    `json:"role" db:"role" gorm:"not null;default:'clinician'"`
	IsActive     bool      `json:"is_active" db:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"not null"`
}
