package engine

import (
	"fmt"

	"github.com/pathbench/ihcstruct/internal/dictionary"
	"github.com/pathbench/ihcstruct/internal/extract"
	"github.com/pathbench/ihcstruct/internal/model"
)

// Accumulator folds per-segment extracted attributes into running per-marker
// states across a case's clause sequence. It owns the merge-conflict rules:
// last write wins for every attribute, with advisory issues recorded when a
// write contradicts earlier evidence. One accumulator per case run.
type Accumulator struct {
	dict     *dictionary.Dictionary
	states   map[string]*model.MarkerState
	order    []string // canonical ids in first-seen order
	errors   []model.Issue
	warnings []model.Issue
}

// NewAccumulator creates an empty accumulator bound to a dictionary
func NewAccumulator(dict *dictionary.Dictionary) *Accumulator {
	return &Accumulator{
		dict:   dict,
		states: make(map[string]*model.MarkerState),
	}
}

// ObserveClause processes one clause: locate mentions, scope segments, merge
// each segment's attributes. Clause-level attributes act as a fallback result
// source for segments that carry no polarity of their own. A clause with no
// recognized mentions is scanned for unknown-marker shapes instead.
func (a *Accumulator) ObserveClause(clause string) {
	mentions := extract.FindMentions(clause, a.dict.AliasMap())
	segments := extract.ScopeSegments(clause, mentions)

	clauseAttrs := extract.Attributes(clause)
	negativeFor := extract.HasNegativeFor(clause)

	for _, seg := range segments {
		a.observeSegment(seg, clauseAttrs, negativeFor)
	}

	if len(mentions) == 0 {
		for _, token := range extract.UnknownMarkerTokens(clause, a.dict.AliasMap()) {
			a.errors = append(a.errors, model.Issue{
				Code:     model.CodeUnknownMarker,
				Message:  fmt.Sprintf("Unknown marker: %s", token),
				Severity: model.SeverityError,
				Field:    "marker_name",
			})
		}
	}
}

func (a *Accumulator) observeSegment(seg extract.Segment, clauseAttrs model.Attributes, negativeFor bool) {
	attrs := extract.Attributes(seg.Text)

	// Fall back to the clause-wide result, then to a clause-wide
	// "negative for" phrase overriding silence.
	if attrs.Result == "" && clauseAttrs.Result != "" {
		attrs.Result = clauseAttrs.Result
	}
	if attrs.Result == "" && negativeFor {
		attrs.Result = model.ResultNegative
	}

	st := a.state(seg)

	result := attrs.Result
	if result == "" && attrs.HasSupporting() {
		// Recall-biased heuristic: specific staining attributes with no
		// polarity word are treated as implicit positivity.
		result = model.ResultPositive
		st.Confidence = model.ConfidenceInferred
		a.warn(model.CodeResultInferred,
			fmt.Sprintf("Result inferred from attributes for %s.", seg.Canonical),
			seg.Canonical, "result")
	}

	if result != "" {
		if st.Result != "" && st.Result != result {
			// Advisory only: the overwrite below still happens.
			a.fail(model.CodeContradictoryResult,
				fmt.Sprintf("Conflicting results for %s.", seg.Canonical),
				seg.Canonical, "result")
		}
		st.Result = result
	}

	// Last write wins, independently per field
	if attrs.Pattern != "" {
		st.Pattern = attrs.Pattern
	}
	if attrs.Intensity != "" {
		st.Intensity = attrs.Intensity
	}
	if attrs.Extent != "" {
		st.Extent = attrs.Extent
	}
	if attrs.PercentPositive != nil {
		st.PercentPositive = attrs.PercentPositive
	}

	// Defaults never overwrite a more specific prior value
	if attrs.Controls != model.ControlsNotMentioned {
		st.Controls = attrs.Controls
	}
	if attrs.Confidence != model.ConfidenceExplicit {
		st.Confidence = model.ConfidenceUncertain
		a.warn(model.CodeLowConfidence,
			fmt.Sprintf("Uncertain wording for %s.", seg.Canonical),
			seg.Canonical, "")
	}

	if attrs.PercentApproximate {
		st.PercentApproximate = true
		a.warn(model.CodePercentApproximate,
			fmt.Sprintf("Approximate/range percent for %s.", seg.Canonical),
			seg.Canonical, "percent_positive")
	}

	st.Evidence = append(st.Evidence, model.EvidenceSpan{TextSpan: seg.Text})
}

// state retrieves or creates the running state for a segment's marker
func (a *Accumulator) state(seg extract.Segment) *model.MarkerState {
	if st, ok := a.states[seg.Canonical]; ok {
		return st
	}

	def, ok := a.dict.ByCanonical(seg.Canonical)
	if !ok {
		// Segments only ever come from dictionary mentions
		def = &model.MarkerDefinition{MarkerCanonical: seg.Canonical, DisplayName: seg.DisplayName}
	}
	st := model.NewMarkerState(def)
	a.states[seg.Canonical] = st
	a.order = append(a.order, seg.Canonical)
	return st
}

// States returns the merged marker states in first-seen order
func (a *Accumulator) States() []*model.MarkerState {
	out := make([]*model.MarkerState, 0, len(a.order))
	for _, canonical := range a.order {
		out = append(out, a.states[canonical])
	}
	return out
}

// Issues returns the merge-phase errors and warnings in emission order
func (a *Accumulator) Issues() (errors, warnings []model.Issue) {
	return a.errors, a.warnings
}

func (a *Accumulator) fail(code model.IssueCode, msg, canonical, field string) {
	a.errors = append(a.errors, model.Issue{
		Code: code, Message: msg, Severity: model.SeverityError,
		MarkerCanonical: canonical, Field: field,
	})
}

func (a *Accumulator) warn(code model.IssueCode, msg, canonical, field string) {
	a.warnings = append(a.warnings, model.Issue{
		Code: code, Message: msg, Severity: model.SeverityWarning,
		MarkerCanonical: canonical, Field: field,
	})
}
