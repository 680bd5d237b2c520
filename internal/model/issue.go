package model

// Severity of a validation issue
type Severity string

const (
	SeverityError   Severity = "error"   // Case is failed; a clinician must resolve
	SeverityWarning Severity = "warning" // Case needs review; human confirmation advised
)

// IssueCode identifies a validation rule outcome
type IssueCode string

const (
	CodeUnknownMarker              IssueCode = "UNKNOWN_MARKER"
	CodeNoMarkersFound             IssueCode = "NO_MARKERS_FOUND"
	CodeResultMissing              IssueCode = "RESULT_MISSING"
	CodeResultInferred             IssueCode = "RESULT_INFERRED"
	CodeContradictoryResult        IssueCode = "CONTRADICTORY_RESULT"
	CodeContradictoryResultPercent IssueCode = "CONTRADICTORY_RESULT_PERCENT"
	CodeInvalidPattern             IssueCode = "INVALID_PATTERN"
	CodeUnusualPattern             IssueCode = "UNUSUAL_PATTERN"
	CodePercentRequiredMissing     IssueCode = "PERCENT_REQUIRED_MISSING"
	CodeIntensityRequiredMissing   IssueCode = "INTENSITY_REQUIRED_MISSING"
	CodePercentApproximate         IssueCode = "PERCENT_APPROXIMATE"
	CodePercentOutOfRange          IssueCode = "PERCENT_OUT_OF_RANGE"
	CodeLowConfidence              IssueCode = "LOW_CONFIDENCE"
	CodeDiagnosticLanguage         IssueCode = "DIAGNOSTIC_LANGUAGE_DETECTED"
)

// Issue is one validation error or warning for a case
type Issue struct {
	Code            IssueCode `json:"code"`
	Message         string    `json:"message"`
	Severity        Severity  `json:"severity"`
	MarkerCanonical string    `json:"marker_canonical,omitempty"`
	Field           string    `json:"field,omitempty"`
}

// CaseStatus is the overall verdict for a processed case
type CaseStatus string

const (
	StatusOK          CaseStatus = "ok"
	StatusNeedsReview CaseStatus = "needs_review"
	StatusFailed      CaseStatus = "failed"
)

// StatusForIssues derives the case status from the issue sequences:
// any error fails the case, any warning demotes it to needs_review.
func StatusForIssues(errors, warnings []Issue) CaseStatus {
	switch {
	case len(errors) > 0:
		return StatusFailed
	case len(warnings) > 0:
		return StatusNeedsReview
	default:
		return StatusOK
	}
}
