package mappers

import (
	"encoding/json"
	"fmt"

	"clinician-notes-service/internal/domain/dtos"

	"gorm.io/datatypes"
)

// NoteFragments are the four independently nullable JSON documents a
// NoteVersion stores. Structured output is only serialized here, at the
// storage boundary; everything above works on typed records.
type NoteFragments struct {
	Soap   datatypes.JSON
	Dx     datatypes.JSON
	Meds   datatypes.JSON
	Safety datatypes.JSON
}

// MapOutputToFragments serializes a structured generation output into the
// four storage fragments.
func MapOutputToFragments(output *dtos.AiOutput) (*NoteFragments, error) {
	if output == nil {
		return nil, fmt.Errorf("output is required for fragment mapping")
	}

	soap, err := json.Marshal(output.Soap)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize soap fragment: %w", err)
	}
	dx, err := json.Marshal(output.Diagnosis)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize diagnosis fragment: %w", err)
	}
	meds, err := json.Marshal(output.Medications)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize medications fragment: %w", err)
	}
	safety, err := json.Marshal(output.SafetyPlan)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize safety plan fragment: %w", err)
	}

	return &NoteFragments{
		Soap:   datatypes.JSON(soap),
		Dx:     datatypes.JSON(dx),
		Meds:   datatypes.JSON(meds),
		Safety: datatypes.JSON(safety),
	}, nil
}

// MapOutputToRaw serializes the complete output document for the immutable
// AiSuggestion record.
func MapOutputToRaw(output *dtos.AiOutput) (datatypes.JSON, error) {
	raw, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize ai output: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// MapFragmentsToOutput reassembles a structured output from stored
// fragments. Missing fragments come back as nil sections.
func MapFragmentsToOutput(fragments *NoteFragments) (*dtos.AiOutput, error) {
	if fragments == nil {
		return nil, fmt.Errorf("fragments are required")
	}

	output := &dtos.AiOutput{}
	if len(fragments.Soap) > 0 {
		if err := json.Unmarshal(fragments.Soap, &output.Soap); err != nil {
			return nil, fmt.Errorf("failed to parse soap fragment: %w", err)
		}
	}
	if len(fragments.Dx) > 0 {
		if err := json.Unmarshal(fragments.Dx, &output.Diagnosis); err != nil {
			return nil, fmt.Errorf("failed to parse diagnosis fragment: %w", err)
		}
	}
	if len(fragments.Meds) > 0 {
		if err := json.Unmarshal(fragments.Meds, &output.Medications); err != nil {
			return nil, fmt.Errorf("failed to parse medications fragment: %w", err)
		}
	}
	if len(fragments.Safety) > 0 {
		if err := json.Unmarshal(fragments.Safety, &output.SafetyPlan); err != nil {
			return nil, fmt.Errorf("failed to parse safety plan fragment: %w", err)
		}
	}
	return output, nil
}
