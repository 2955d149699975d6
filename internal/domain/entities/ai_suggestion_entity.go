package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AiSuggestion is the immutable record of one generation call. RawOutput is
// the serialized structured output exactly as validated; rows are created
// once and never updated.
type AiSuggestion struct {
	ID              uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	SessionID       uuid.UUID      `json:"session_id" db:"session_id" gorm:"type:uuid;not null;index"`
	ModelName       string         `json:"model_name" db:"model_name" gorm:"size:100;not null"`
	PromptVersion   string         `json:"prompt_version" db:"prompt_version" gorm:"size:50;not null;default:'v1'"`
	RawOutput       datatypes.JSON `json:"raw_output" db:"raw_output" gorm:"type:jsonb;not null"`
	InjectionFlag   bool           `json:"injection_flag" db:"injection_flag" gorm:"not null;default:false"`
	SafetyMode      bool           `json:"safety_mode" db:"safety_mode" gorm:"not null;default:false"`
	EngineLatencyMs int64          `json:"engine_latency_ms" db:"engine_latency_ms"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at" gorm:"not null"`
}
