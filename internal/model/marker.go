package model

// Result is the polarity reported for a marker
type Result string

const (
	ResultPositive Result = "Positive"
	ResultNegative Result = "Negative"
	ResultNotDone  Result = "Not Done"
)

// Known staining vocabulary for reference; extraction matches these case-insensitively
const (
	PatternNuclear     = "nuclear"
	PatternCytoplasmic = "cytoplasmic"
	PatternMembranous  = "membranous"
)

// ControlsStatus describes the state of staining controls, if mentioned
type ControlsStatus string

const (
	ControlsNotMentioned ControlsStatus = "not mentioned"
	ControlsAdequate     ControlsStatus = "adequate"
	ControlsInadequate   ControlsStatus = "inadequate"
)

// Confidence describes how a marker's result was established
type Confidence string

const (
	ConfidenceExplicit  Confidence = "explicit"  // Stated in the narrative
	ConfidenceUncertain Confidence = "uncertain" // Hedged wording
	ConfidenceInferred  Confidence = "inferred"  // Derived from supporting attributes
)

// Requirements holds the per-marker reporting requirement flags
type Requirements struct {
	PercentRequired   bool `json:"percent_required" yaml:"percent_required"`
	IntensityRequired bool `json:"intensity_required" yaml:"intensity_required"`
}

// MarkerDefinition describes one biomarker in the dictionary.
// Immutable after load; safe to share across concurrent case runs.
type MarkerDefinition struct {
	MarkerCanonical    string       `json:"marker_canonical" yaml:"marker_canonical"`
	DisplayName        string       `json:"display_name" yaml:"display_name"`
	Aliases            []string     `json:"aliases" yaml:"aliases"`
	HardPatternEnforce bool         `json:"hard_pattern_enforce" yaml:"hard_pattern_enforce"`
	AllowedPatterns    []string     `json:"allowed_patterns" yaml:"allowed_patterns"`
	Requirements       Requirements `json:"requirements" yaml:"requirements"`
}

// AllowsPattern reports whether the pattern is in the marker's allowed set
func (d *MarkerDefinition) AllowsPattern(pattern string) bool {
	for _, p := range d.AllowedPatterns {
		if p == pattern {
			return true
		}
	}
	return false
}

// Attributes is the value object produced by attribute extraction over one
// text span. Empty string / nil means the field was not stated.
type Attributes struct {
	Result             Result
	Pattern            string
	Intensity          string
	Extent             string
	PercentPositive    *float64
	PercentApproximate bool
	Controls           ControlsStatus
	Confidence         Confidence
}

// HasSupporting reports whether any specific staining attribute is present.
// Used by the merger to infer positivity when no polarity word appears.
func (a Attributes) HasSupporting() bool {
	return a.Intensity != "" ||
		a.Pattern != "" ||
		a.PercentPositive != nil ||
		a.PercentApproximate ||
		a.Extent != ""
}

// EvidenceSpan records the raw scoped text a marker's attributes came from
type EvidenceSpan struct {
	TextSpan  string `json:"text_span"`
	StartChar *int   `json:"start_char"`
	EndChar   *int   `json:"end_char"`
}

// MarkerState is the running record for one marker across a whole case.
// Owned exclusively by a single case run; never shared between cases.
type MarkerState struct {
	MarkerName      string         `json:"marker_name"`
	MarkerCanonical string         `json:"marker_canonical"`
	Result          Result         `json:"result,omitempty"`
	Pattern         string         `json:"pattern,omitempty"`
	Intensity       string         `json:"intensity,omitempty"`
	PercentPositive *float64       `json:"percent_positive,omitempty"`
	Extent          string         `json:"extent,omitempty"`
	Controls        ControlsStatus `json:"controls"`
	Comment         string         `json:"comment,omitempty"`
	Confidence      Confidence     `json:"confidence"`
	Evidence        []EvidenceSpan `json:"evidence"`

	// Sticky once any approximate/range percent is seen. Not part of the
	// output contract, but validation downgrades a missing-percent error to
	// a warning when set.
	PercentApproximate bool `json:"-"`
}

// NewMarkerState creates the initial state for a marker
func NewMarkerState(def *MarkerDefinition) *MarkerState {
	return &MarkerState{
		MarkerName:      def.DisplayName,
		MarkerCanonical: def.MarkerCanonical,
		Controls:        ControlsNotMentioned,
		Confidence:      ConfidenceExplicit,
	}
}
