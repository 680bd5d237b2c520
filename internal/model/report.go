package model

// InputType tags what kind of payload RawText holds
type InputType string

const (
	InputTypeText InputType = "text"
	InputTypeHTML InputType = "html"
)

// CaseContext carries optional identifiers supplied by the caller
type CaseContext struct {
	CaseID     string `json:"case_id,omitempty"`
	SpecimenID string `json:"specimen_id,omitempty"`
	PanelHint  string `json:"panel_hint,omitempty"`
}

// CaseInput is the engine's input contract: one narrative to structure
type CaseInput struct {
	InputID   string      `json:"input_id"`
	InputType InputType   `json:"input_type"`
	RawText   string      `json:"raw_text"`
	Context   CaseContext `json:"context"`
}

// IHCResult is the structured marker block of a case output
type IHCResult struct {
	PanelName  string         `json:"panel_name,omitempty"`
	CaseID     string         `json:"case_id,omitempty"`
	SpecimenID string         `json:"specimen_id,omitempty"`
	Markers    []*MarkerState `json:"markers"`
}

// TableRow is one rendered tabular row per marker
type TableRow struct {
	Marker          string   `json:"marker"`
	Result          string   `json:"result"`
	Pattern         string   `json:"pattern,omitempty"`
	Intensity       string   `json:"intensity,omitempty"`
	PercentPositive *float64 `json:"percent_positive,omitempty"`
	Extent          string   `json:"extent,omitempty"`
	Comment         string   `json:"comment,omitempty"`
}

// Rendered holds the human-readable views of a case
type Rendered struct {
	Narrative *string    `json:"narrative"` // nil when no markers were found
	Table     []TableRow `json:"table"`
}

// Validation holds the two ordered issue sequences for a case
type Validation struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Provenance records how a case output was produced
type Provenance struct {
	SourceType      InputType `json:"source_type"`
	ExtractionModel string    `json:"extraction_model"`
	Version         string    `json:"version"`
}

// CaseOutput is the complete structured result for one case.
// This is the only artifact the batch writer persists.
type CaseOutput struct {
	OutputID   string      `json:"output_id"`
	InputID    string      `json:"input_id"`
	Status     CaseStatus  `json:"status"`
	IHC        IHCResult   `json:"ihc"`
	Rendered   Rendered    `json:"rendered"`
	Validation Validation  `json:"validation"`
	Provenance Provenance  `json:"provenance"`
	LLM        *LLMSummary `json:"llm,omitempty"` // Optional; never affects validation
}

// LLMSummary contains an optional LLM-generated sign-out summary.
// CRITICAL: this never affects extraction or validation and is clearly separated.
type LLMSummary struct {
	Enabled       bool     `json:"enabled"`
	Provider      string   `json:"provider,omitempty"`
	Model         string   `json:"model,omitempty"`
	StrictMarkers bool     `json:"strict_markers"` // Whether marker allowlist enforcement was on
	SummaryMD     string   `json:"summary_md,omitempty"`
	Warnings      []string `json:"warnings,omitempty"` // e.g. markers mentioned that are not in the output
}
