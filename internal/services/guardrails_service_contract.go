package services

// GuardrailsServiceContract defines input validation and prompt injection
// defense. All methods are pure over their inputs and safe for concurrent
// use.
type GuardrailsServiceContract interface {
	// ScanForInjection matches text against the full adversarial pattern
	// library and returns whether it flagged, plus the ordered ids of every
	// pattern that matched.
	ScanForInjection(text string) (bool, []string)
	// SanitizeForPrompt bounds and cleans text before it is embedded in a
	// prompt.
	SanitizeForPrompt(text string) string
	// ValidateCitation reports whether a citation is short enough and
	// actually present in the source text.
	ValidateCitation(citationText, sourceText string, maxWords int) bool
}
