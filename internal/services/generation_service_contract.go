package services

import (
	"context"

	"clinician-notes-service/internal/domain/dtos"
)

// GenerationServiceContract turns a transcript into validated structured
// clinical documentation.
type GenerationServiceContract interface {
	// Generate sanitizes the transcript, prompts the engine and returns the
	// validated output plus the engine latency in milliseconds. Transport
	// failures are retried with backoff; schema failures get exactly one
	// repair attempt before propagating.
	Generate(ctx context.Context, transcript string, temperature float64, safeMode bool) (*dtos.AiOutput, int64, error)
	// CreateEmptyOutput returns the deterministic all-"Not documented."
	// document used as a fallback when generation cannot complete.
	CreateEmptyOutput() *dtos.AiOutput
	// ModelName reports the engine model identity for record keeping.
	ModelName() string
}
