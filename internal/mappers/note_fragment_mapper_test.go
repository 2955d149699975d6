package mappers

import (
	"testing"

	"clinician-notes-service/internal/domain/dtos"

	"github.com/stretchr/testify/assert"
)

func fullOutput() *dtos.AiOutput {
	guidance := "Take medication with food."
	return &dtos.AiOutput{
		Soap: &dtos.SOAPNote{
			Subjective: &dtos.SOAPSection{
				Content:   "Patient reports low mood.",
				Citations: []dtos.Citation{{Text: "feeling sad and hopeless"}},
			},
			Objective:  &dtos.SOAPSection{Content: "Flat affect.", Citations: []dtos.Citation{}},
			Assessment: &dtos.SOAPSection{Content: "Depressive episode.", Citations: []dtos.Citation{}},
			Plan:       &dtos.SOAPSection{Content: "Weekly therapy.", Citations: []dtos.Citation{}},
		},
		Diagnosis: &dtos.DiagnosisSuggestion{
			Primary: &dtos.DiagnosisItem{
				Diagnosis:  "Major depressive disorder",
				Confidence: 0.7,
				Rationale:  "Persistent low mood",
				Citations:  []dtos.Citation{},
			},
			Differential: []dtos.DiagnosisItem{},
		},
		Medications: &dtos.MedicationEducation{
			Medications: []dtos.MedicationItem{
				{Medication: "Sertraline", Education: "SSRI, onset in 2-4 weeks.", Warnings: []string{"nausea"}, Citations: []dtos.Citation{}},
			},
			GeneralGuidance: &guidance,
		},
		SafetyPlan: &dtos.SafetyPlan{
			WarningSigns:         []dtos.SafetyPlanItem{{Item: "Withdrawing from friends", Completed: true, Citations: []dtos.Citation{}}},
			CopingStrategies:     []dtos.SafetyPlanItem{},
			SupportContacts:      []dtos.SafetyPlanItem{},
			ProfessionalContacts: []dtos.SafetyPlanItem{},
			EnvironmentSafety:    []dtos.SafetyPlanItem{},
			ReasonsForLiving:     []dtos.SafetyPlanItem{},
		},
	}
}

func TestFragmentMapping_RoundTrip(t *testing.T) {
	original := fullOutput()

	fragments, err := MapOutputToFragments(original)
	assert.NoError(t, err)
	assert.NotEmpty(t, fragments.Soap)
	assert.NotEmpty(t, fragments.Dx)
	assert.NotEmpty(t, fragments.Meds)
	assert.NotEmpty(t, fragments.Safety)

	restored, err := MapFragmentsToOutput(fragments)
	assert.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestMapOutputToFragments_NilOutputRejected(t *testing.T) {
	_, err := MapOutputToFragments(nil)
	assert.Error(t, err)
}

func TestMapOutputToRaw_ContainsFullDocument(t *testing.T) {
	raw, err := MapOutputToRaw(fullOutput())
	assert.NoError(t, err)
	assert.Contains(t, string(raw), "Major depressive disorder")
	assert.Contains(t, string(raw), "Sertraline")
	assert.Contains(t, string(raw), "Withdrawing from friends")
}

func TestMapFragmentsToOutput_MissingFragmentsStayNil(t *testing.T) {
	fragments, err := MapOutputToFragments(fullOutput())
	assert.NoError(t, err)
	fragments.Meds = nil
	fragments.Safety = nil

	restored, err := MapFragmentsToOutput(fragments)
	assert.NoError(t, err)
	assert.NotNil(t, restored.Soap)
	assert.NotNil(t, restored.Diagnosis)
	assert.Nil(t, restored.Medications)
	assert.Nil(t, restored.SafetyPlan)
}

func TestMapFragmentsToOutput_InvalidJSONRejected(t *testing.T) {
	fragments, err := MapOutputToFragments(fullOutput())
	assert.NoError(t, err)
	fragments.Soap = []byte("{broken")

	_, err = MapFragmentsToOutput(fragments)
	assert.Error(t, err)
}
