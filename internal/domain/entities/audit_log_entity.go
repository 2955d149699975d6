package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is an immutable audit entry. Before/after state is stored as
// SHA-256 hashes only; raw clinical content never lands here.
type AuditLog struct {
	ID          uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ActorUserID uuid.UUID      `json:"actor_user_id" db:"actor_user_id" gorm:"type:uuid;not null;index"`
	Action      string         `json:"action" db:"action" gorm:"size:100;not null"`
	EntityType  string         `json:"entity_type" db:"entity_type" gorm:"size:100;not null;index:ix_audit_logs_entity"`
	EntityID    uuid.UUID      `json:"entity_id" db:"entity_id" gorm:"type:uuid;not null;index:ix_audit_logs_entity"`
	BeforeHash  *string        `json:"before_hash" db:"before_hash" gorm:"size:64"`
	AfterHash   *string        `json:"after_hash" db:"after_hash" gorm:"size:64"`
	Metadata    datatypes.JSON `json:"metadata" db:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at" gorm:"not null;index"`
}
