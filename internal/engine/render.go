package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pathbench/ihcstruct/internal/model"
)

// Narrative builds the single joined narrative block for a case, one line
// per marker that has a result. Returns nil when no markers were found.
func Narrative(states []*model.MarkerState, specimenID string) *string {
	if len(states) == 0 {
		return nil
	}
	if specimenID == "" {
		specimenID = "Specimen A"
	}

	var lines []string
	for _, st := range states {
		if st.Result == "" {
			continue
		}
		pieces := []string{string(st.Result)}
		if st.Pattern != "" {
			pieces = append(pieces, st.Pattern)
		}
		if st.Intensity != "" {
			pieces = append(pieces, st.Intensity)
		}
		if st.PercentPositive != nil {
			pieces = append(pieces, fmt.Sprintf("in %d%% of cells", int(*st.PercentPositive)))
		}
		lines = append(lines, fmt.Sprintf("%s: %s.", st.MarkerName, strings.Join(pieces, ", ")))
	}

	narrative := "Immunohistochemistry (" + specimenID + "):\n" + strings.Join(lines, "\n")
	return &narrative
}

// Table builds one row per marker state, result left empty when unresolved
func Table(states []*model.MarkerState) []model.TableRow {
	rows := make([]model.TableRow, 0, len(states))
	for _, st := range states {
		rows = append(rows, model.TableRow{
			Marker:          st.MarkerName,
			Result:          string(st.Result),
			Pattern:         st.Pattern,
			Intensity:       st.Intensity,
			PercentPositive: st.PercentPositive,
			Extent:          st.Extent,
			Comment:         st.Comment,
		})
	}
	return rows
}

// Renderer writes case outputs to files and the terminal
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the case output as indented JSON
func (r *Renderer) RenderJSON(out *model.CaseOutput, path string) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable case report
func (r *Renderer) RenderMarkdown(out *model.CaseOutput, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# IHC Case Report: %s\n\n", out.InputID)
	fmt.Fprintf(&b, "**Status:** %s\n\n", out.Status)
	if out.IHC.SpecimenID != "" {
		fmt.Fprintf(&b, "**Specimen:** %s\n\n", out.IHC.SpecimenID)
	}

	if len(out.Rendered.Table) > 0 {
		b.WriteString("| Marker | Result | Pattern | Intensity | % Positive | Extent |\n")
		b.WriteString("|--------|--------|---------|-----------|------------|--------|\n")
		for _, row := range out.Rendered.Table {
			percent := ""
			if row.PercentPositive != nil {
				percent = fmt.Sprintf("%d", int(*row.PercentPositive))
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				row.Marker, row.Result, row.Pattern, row.Intensity, percent, row.Extent)
		}
		b.WriteString("\n")
	}

	if out.Rendered.Narrative != nil {
		b.WriteString("## Narrative\n\n```\n")
		b.WriteString(*out.Rendered.Narrative)
		b.WriteString("\n```\n\n")
	}

	writeIssues(&b, "Errors", out.Validation.Errors)
	writeIssues(&b, "Warnings", out.Validation.Warnings)

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\n*Generated by ihcstruct (%s, %s). Structured output requires clinician review; it is not a diagnosis.*\n",
			out.Provenance.ExtractionModel, out.Provenance.Version)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func writeIssues(b *strings.Builder, title string, issues []model.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, issue := range issues {
		scope := ""
		if issue.MarkerCanonical != "" {
			scope = " (" + issue.MarkerCanonical + ")"
		}
		fmt.Fprintf(b, "- **%s**%s: %s\n", issue.Code, scope, issue.Message)
	}
	b.WriteString("\n")
}

// RenderLLMMarkdown writes the optional LLM summary to its own file,
// clearly separated from the deterministic report.
func (r *Renderer) RenderLLMMarkdown(markdown, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write LLM markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a one-screen case summary to stdout
func (r *Renderer) RenderSummary(out *model.CaseOutput) {
	fmt.Printf("\n")
	fmt.Printf("Case %s: %s\n", out.InputID, out.Status)
	fmt.Printf("  Markers:  %d\n", len(out.IHC.Markers))
	fmt.Printf("  Errors:   %d\n", len(out.Validation.Errors))
	fmt.Printf("  Warnings: %d\n", len(out.Validation.Warnings))
	for _, issue := range out.Validation.Errors {
		fmt.Printf("  ✗ %s: %s\n", issue.Code, issue.Message)
	}
	for _, issue := range out.Validation.Warnings {
		fmt.Printf("  ⚠ %s: %s\n", issue.Code, issue.Message)
	}
}
