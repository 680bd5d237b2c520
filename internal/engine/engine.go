// Package engine orchestrates the extraction-and-validation run for a single
// case: clause splitting, marker-scoped extraction, state merging, rule
// validation and rendering. Processing is single-threaded and deterministic
// per case; the dictionary is shared read-only.
package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pathbench/ihcstruct/internal/dictionary"
	"github.com/pathbench/ihcstruct/internal/extract"
	"github.com/pathbench/ihcstruct/internal/model"
	"github.com/pathbench/ihcstruct/internal/validate"
)

const (
	// ExtractionModel identifies the rule set that produced an output
	ExtractionModel = "rules-v1"
	// Version is the engine version recorded in provenance
	Version = "0.2.0"
)

// Engine structures free-text IHC narratives against a marker dictionary
type Engine struct {
	dict *dictionary.Dictionary
}

// New creates an engine. A nil dictionary is a contract violation.
func New(dict *dictionary.Dictionary) (*Engine, error) {
	if dict == nil {
		return nil, fmt.Errorf("engine requires a dictionary")
	}
	return &Engine{dict: dict}, nil
}

// Dictionary returns the engine's dictionary
func (e *Engine) Dictionary() *dictionary.Dictionary {
	return e.dict
}

// Process runs one case end to end. Malformed clinical text never returns an
// error; extraction failures degrade to absent fields plus issue records.
// Only contract violations (missing input id, unparseable HTML payload)
// abort processing.
func (e *Engine) Process(input model.CaseInput) (*model.CaseOutput, error) {
	if input.InputID == "" {
		return nil, fmt.Errorf("case input missing input_id")
	}

	raw := strings.TrimSpace(input.RawText)
	inputType := input.InputType
	if inputType == "" {
		inputType = model.InputTypeText
	}
	if inputType == model.InputTypeHTML {
		text, err := extract.VisibleText(raw)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", input.InputID, err)
		}
		raw = strings.TrimSpace(text)
	}

	acc := NewAccumulator(e.dict)

	var caseWarnings []model.Issue
	if extract.HasDiagnosticLanguage(raw) {
		caseWarnings = append(caseWarnings, model.Issue{
			Code:     model.CodeDiagnosticLanguage,
			Message:  "Diagnostic language found in input.",
			Severity: model.SeverityWarning,
		})
	}

	for _, clause := range extract.SplitClauses(raw) {
		acc.ObserveClause(clause)
	}

	states := acc.States()
	errors, warnings := acc.Issues()
	warnings = append(caseWarnings, warnings...)

	if len(states) == 0 {
		errors = append(errors, model.Issue{
			Code:     model.CodeNoMarkersFound,
			Message:  "No known markers found.",
			Severity: model.SeverityError,
		})
	}

	ruleErrors, ruleWarnings := validate.Run(states, e.dict)
	errors = append(errors, ruleErrors...)
	warnings = append(warnings, ruleWarnings...)

	specimenID := input.Context.SpecimenID

	return &model.CaseOutput{
		OutputID: uuid.NewString(),
		InputID:  input.InputID,
		Status:   model.StatusForIssues(errors, warnings),
		IHC: model.IHCResult{
			PanelName:  input.Context.PanelHint,
			CaseID:     input.Context.CaseID,
			SpecimenID: specimenID,
			Markers:    states,
		},
		Rendered: model.Rendered{
			Narrative: Narrative(states, specimenID),
			Table:     Table(states),
		},
		Validation: model.Validation{
			Errors:   errors,
			Warnings: warnings,
		},
		Provenance: model.Provenance{
			SourceType:      inputType,
			ExtractionModel: ExtractionModel,
			Version:         Version,
		},
	}, nil
}
