package services

import (
	"log"
	"regexp"
	"strings"

	"clinician-notes-service/internal/observability"
)

// MaxCitationWords is the citation length ceiling in words.
const MaxCitationWords = 25

// maxPromptLength bounds transcript text embedded in prompts.
const maxPromptLength = 50000

const truncationMarker = "... [TRUNCATED]"

// injectionPattern pairs a stable identifier with its compiled expression.
// The id is what gets logged and returned; the matched text never leaves the
// scanner.
type injectionPattern struct {
	id string
	re *regexp.Regexp
}

// Ordered library of adversarial-intent patterns: instruction overrides,
// role-play and jailbreak phrasing, system-prompt exfiltration, and
// markup/template/variable injection forms.
var injectionPatterns = []injectionPattern{
	{"ignore_instructions", regexp.MustCompile(`(?i)ignore\s+(previous|above|prior|all)\s+(instructions?|prompts?|context)`)},
	{"system_prompt", regexp.MustCompile(`(?i)system\s+prompt`)},
	{"developer_mode", regexp.MustCompile(`(?i)developer\s+(message|mode|instructions?)`)},
	{"system_tag", regexp.MustCompile(`(?i)<\s*system\s*>`)},
	{"system_bracket", regexp.MustCompile(`(?i)\[\s*system\s*\]`)},
	{"jailbreak", regexp.MustCompile(`(?i)jailbreak`)},
	{"exfiltrate", regexp.MustCompile(`(?i)exfiltrate`)},
	{"bypass_safety", regexp.MustCompile(`(?i)bypass\s+(safety|security|filter)`)},
	{"pretend_role", regexp.MustCompile(`(?i)pretend\s+(you\s+are|to\s+be)`)},
	{"act_as", regexp.MustCompile(`(?i)act\s+as\s+(if|a|an)`)},
	{"role_play", regexp.MustCompile(`(?i)role\s*play`)},
	{"disregard", regexp.MustCompile(`(?i)disregard\s+(your|the|all)`)},
	{"forget", regexp.MustCompile(`(?i)forget\s+(your|the|all|previous)`)},
	{"new_instructions", regexp.MustCompile(`(?i)new\s+instructions?`)},
	{"override", regexp.MustCompile(`(?i)override\s+(your|the|all)`)},
	{"sudo_mode", regexp.MustCompile(`(?i)sudo\s+mode`)},
	{"admin_mode", regexp.MustCompile(`(?i)admin\s+(mode|access|override)`)},
	{"reveal_prompt", regexp.MustCompile(`(?i)reveal\s+(your|the)\s+(prompt|instructions?|system)`)},
	{"ask_instructions", regexp.MustCompile(`(?i)what\s+(is|are)\s+your\s+(instructions?|prompt|system)`)},
	{"repeat_prompt", regexp.MustCompile(`(?i)repeat\s+(your|the)\s+(prompt|instructions?)`)},
	{"output_prompt", regexp.MustCompile(`(?i)output\s+(your|the)\s+(prompt|instructions?)`)},
	{"html_injection", regexp.MustCompile(`(?i)</?(script|style|iframe|object|embed)`)},
	{"template_injection", regexp.MustCompile(`\{\{.*?\}\}`)},
	{"variable_injection", regexp.MustCompile(`\$\{.*?\}`)},
}

var excessWhitespace = regexp.MustCompile(`\s{10,}`)

// GuardrailsServiceImpl implements GuardrailsServiceContract. It holds no
// per-call state; a single instance serves all requests.
type GuardrailsServiceImpl struct {
	logger  *log.Logger
	metrics observability.MetricsSinkContract
}

var _ GuardrailsServiceContract = (*GuardrailsServiceImpl)(nil)

func NewGuardrailsService(metrics observability.MetricsSinkContract, logger *log.Logger) GuardrailsServiceContract {
	return &GuardrailsServiceImpl{logger: logger, metrics: metrics}
}

// ScanForInjection evaluates the entire pattern library on every call, so
// the result can name more than one pattern.
func (s *GuardrailsServiceImpl) ScanForInjection(text string) (bool, []string) {
	var matched []string
	for _, p := range injectionPatterns {
		if p.re.MatchString(text) {
			matched = append(matched, p.id)
		}
	}

	flagged := len(matched) > 0
	if flagged {
		s.metrics.IncInjectionDetected()
		// Log pattern ids only, never the matched text.
		preview := matched
		if len(preview) > 3 {
			preview = preview[:3]
		}
		s.logger.Printf("Prompt injection pattern detected: count=%d patterns=%v", len(matched), preview)
	}

	return flagged, matched
}

// SanitizeForPrompt strips null bytes, collapses whitespace runs of ten or
// more characters down to five spaces, and truncates to the prompt length
// bound with a visible marker.
func (s *GuardrailsServiceImpl) SanitizeForPrompt(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	text = excessWhitespace.ReplaceAllString(text, strings.Repeat(" ", 5))
	if len(text) > maxPromptLength {
		text = text[:maxPromptLength] + truncationMarker
	}
	return text
}

// ValidateCitation is a conservative, order-preserving substring check: both
// sides are lower-cased and whitespace-collapsed, nothing fuzzier. Keeps
// citation grounding auditable.
func (s *GuardrailsServiceImpl) ValidateCitation(citationText, sourceText string, maxWords int) bool {
	if maxWords <= 0 {
		maxWords = MaxCitationWords
	}
	if len(strings.Fields(citationText)) > maxWords {
		return false
	}

	normalizedCitation := strings.Join(strings.Fields(strings.ToLower(citationText)), " ")
	normalizedSource := strings.Join(strings.Fields(strings.ToLower(sourceText)), " ")

	return strings.Contains(normalizedSource, normalizedCitation)
}
