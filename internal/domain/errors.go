package domain

import "errors"

// Error taxonomy for the core. Callers classify with errors.Is; the HTTP
// layer maps NotFound/InvalidState to client errors and the rest to server
// errors.
var (
	// ErrNotFound signals an absent session or note version. Never retried.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState signals an operation against a version in the wrong
	// state, e.g. updating a finalized version.
	ErrInvalidState = errors.New("invalid state")

	// ErrEngineUnavailable signals that all transport retries against the
	// generation engine were exhausted.
	ErrEngineUnavailable = errors.New("generation engine unavailable")

	// ErrSchemaInvalid signals that engine output failed schema validation
	// even after the single repair attempt.
	ErrSchemaInvalid = errors.New("output failed schema validation")

	// ErrNotConfigured signals a missing engine credential. Fatal, never
	// retried.
	ErrNotConfigured = errors.New("generation engine not configured")
)
