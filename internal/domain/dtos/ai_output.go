package dtos

// Structured generation output. The shape is fixed: four SOAP sections,
// diagnosis suggestions, medication education and a six-category safety
// plan. Citations are a quality signal, not a schema requirement — sections
// without citations are valid.

// Citation is a short verbatim quote from the transcript (25 words or
// fewer) offered as evidence for a generated claim.
type Citation struct {
	Text        string `json:"text"`
	StartOffset *int   `json:"start_offset,omitempty"`
	EndOffset   *int   `json:"end_offset,omitempty"`
}

// SOAPSection is one section of the SOAP note with supporting evidence.
type SOAPSection struct {
	Content   string     `json:"content"`
	Citations []Citation `json:"citations"`
}

// SOAPNote holds the four clinical documentation sections.
type SOAPNote struct {
	Subjective *SOAPSection `json:"subjective"`
	Objective  *SOAPSection `json:"objective"`
	Assessment *SOAPSection `json:"assessment"`
	Plan       *SOAPSection `json:"plan"`
}

// DiagnosisItem is a single diagnosis suggestion with a confidence score.
type DiagnosisItem struct {
	Diagnosis  string     `json:"diagnosis"`
	Confidence float64    `json:"confidence"`
	Rationale  string     `json:"rationale"`
	Citations  []Citation `json:"citations"`
}

// DiagnosisSuggestion groups the primary and differential diagnoses.
type DiagnosisSuggestion struct {
	Primary      *DiagnosisItem  `json:"primary"`
	Differential []DiagnosisItem `json:"differential"`
}

// MedicationItem is patient education content for one medication.
type MedicationItem struct {
	Medication string     `json:"medication"`
	Education  string     `json:"education"`
	Warnings   []string   `json:"warnings"`
	Citations  []Citation `json:"citations"`
}

// MedicationEducation groups medication items with optional general guidance.
type MedicationEducation struct {
	Medications     []MedicationItem `json:"medications"`
	GeneralGuidance *string          `json:"general_guidance"`
}

// SafetyPlanItem is one checklist entry of the safety plan.
type SafetyPlanItem struct {
	Item      string     `json:"item"`
	Completed bool       `json:"completed"`
	Notes     *string    `json:"notes,omitempty"`
	Citations []Citation `json:"citations"`
}

// SafetyPlan is the six-category safety plan checklist.
type SafetyPlan struct {
	WarningSigns         []SafetyPlanItem `json:"warning_signs"`
	CopingStrategies     []SafetyPlanItem `json:"coping_strategies"`
	SupportContacts      []SafetyPlanItem `json:"support_contacts"`
	ProfessionalContacts []SafetyPlanItem `json:"professional_contacts"`
	EnvironmentSafety    []SafetyPlanItem `json:"environment_safety"`
	ReasonsForLiving     []SafetyPlanItem `json:"reasons_for_living"`
}

// AiOutput is the complete structured document produced by one generation
// call. All four top-level parts are required.
type AiOutput struct {
	Soap        *SOAPNote            `json:"soap"`
	Diagnosis   *DiagnosisSuggestion `json:"diagnosis"`
	Medications *MedicationEducation `json:"medications"`
	SafetyPlan  *SafetyPlan          `json:"safety_plan"`
}
