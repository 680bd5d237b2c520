// Package validate evaluates the fixed cross-field rule set against the
// merged per-marker states of a case. Rules are declarative (code + check
// function) and run in a defined order so issue sequences are stable.
package validate

import (
	"fmt"

	"github.com/pathbench/ihcstruct/internal/dictionary"
	"github.com/pathbench/ihcstruct/internal/model"
)

// Rule is one validation check over a merged marker state. Check returns nil
// when the rule passes; the returned issue carries its own severity so a
// single rule can downgrade itself (see percent-required).
type Rule struct {
	Code  model.IssueCode
	Check func(st *model.MarkerState, def *model.MarkerDefinition) *model.Issue
}

// Rules returns the rule set in evaluation order
func Rules() []Rule {
	return []Rule{
		{
			Code: model.CodeResultMissing,
			Check: func(st *model.MarkerState, _ *model.MarkerDefinition) *model.Issue {
				if st.Result != "" {
					return nil
				}
				return &model.Issue{
					Code:     model.CodeResultMissing,
					Message:  fmt.Sprintf("Missing result for %s.", st.MarkerCanonical),
					Severity: model.SeverityError,
					Field:    "result",
				}
			},
		},
		{
			Code: model.CodeContradictoryResultPercent,
			Check: func(st *model.MarkerState, _ *model.MarkerDefinition) *model.Issue {
				if st.Result != model.ResultNegative || st.PercentPositive == nil || *st.PercentPositive <= 0 {
					return nil
				}
				return &model.Issue{
					Code:     model.CodeContradictoryResultPercent,
					Message:  fmt.Sprintf("Negative result with non-zero percent for %s.", st.MarkerCanonical),
					Severity: model.SeverityError,
					Field:    "percent_positive",
				}
			},
		},
		{
			Code: model.CodeInvalidPattern,
			Check: func(st *model.MarkerState, def *model.MarkerDefinition) *model.Issue {
				if st.Pattern == "" || def.AllowsPattern(st.Pattern) {
					return nil
				}
				if def.HardPatternEnforce {
					return &model.Issue{
						Code:     model.CodeInvalidPattern,
						Message:  fmt.Sprintf("Invalid pattern for %s: %s", st.MarkerCanonical, st.Pattern),
						Severity: model.SeverityError,
						Field:    "pattern",
					}
				}
				return &model.Issue{
					Code:     model.CodeUnusualPattern,
					Message:  fmt.Sprintf("Unusual pattern for %s: %s", st.MarkerCanonical, st.Pattern),
					Severity: model.SeverityWarning,
					Field:    "pattern",
				}
			},
		},
		{
			Code: model.CodePercentRequiredMissing,
			Check: func(st *model.MarkerState, def *model.MarkerDefinition) *model.Issue {
				if !def.Requirements.PercentRequired || st.Result == model.ResultNotDone || st.PercentPositive != nil {
					return nil
				}
				if st.PercentApproximate {
					// Present but imprecise, not absent
					return &model.Issue{
						Code:     model.CodePercentRequiredMissing,
						Message:  fmt.Sprintf("Exact percent required for %s; approximate provided.", st.MarkerCanonical),
						Severity: model.SeverityWarning,
						Field:    "percent_positive",
					}
				}
				return &model.Issue{
					Code:     model.CodePercentRequiredMissing,
					Message:  fmt.Sprintf("Percent required for %s.", st.MarkerCanonical),
					Severity: model.SeverityError,
					Field:    "percent_positive",
				}
			},
		},
		{
			Code: model.CodeIntensityRequiredMissing,
			Check: func(st *model.MarkerState, def *model.MarkerDefinition) *model.Issue {
				if !def.Requirements.IntensityRequired || st.Result == model.ResultNotDone || st.Intensity != "" {
					return nil
				}
				return &model.Issue{
					Code:     model.CodeIntensityRequiredMissing,
					Message:  fmt.Sprintf("Intensity required for %s.", st.MarkerCanonical),
					Severity: model.SeverityError,
					Field:    "intensity",
				}
			},
		},
		{
			Code: model.CodePercentOutOfRange,
			Check: func(st *model.MarkerState, _ *model.MarkerDefinition) *model.Issue {
				// The raw value is validated, never clamped
				if st.PercentPositive == nil || (*st.PercentPositive >= 0 && *st.PercentPositive <= 100) {
					return nil
				}
				return &model.Issue{
					Code:     model.CodePercentOutOfRange,
					Message:  fmt.Sprintf("Percent out of range for %s.", st.MarkerCanonical),
					Severity: model.SeverityError,
					Field:    "percent_positive",
				}
			},
		},
	}
}

// Run evaluates the rule set against every marker state, states in
// first-seen order, rules in declaration order per state. Issues are routed
// to the error or warning sequence by their severity.
func Run(states []*model.MarkerState, dict *dictionary.Dictionary) (errors, warnings []model.Issue) {
	rules := Rules()
	for _, st := range states {
		def, ok := dict.ByCanonical(st.MarkerCanonical)
		if !ok {
			def = &model.MarkerDefinition{MarkerCanonical: st.MarkerCanonical, DisplayName: st.MarkerName}
		}
		for _, rule := range rules {
			issue := rule.Check(st, def)
			if issue == nil {
				continue
			}
			if issue.MarkerCanonical == "" {
				issue.MarkerCanonical = st.MarkerCanonical
			}
			if issue.Severity == model.SeverityError {
				errors = append(errors, *issue)
			} else {
				warnings = append(warnings, *issue)
			}
		}
	}
	return errors, warnings
}
