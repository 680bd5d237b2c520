// Package llm generates an optional sign-out summary of a structured case.
// CRITICAL: the summary is produced AFTER extraction and validation and never
// feeds back into either. The deterministic engine output is the artifact
// of record; the summary is a convenience layer on top of it.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pathbench/ihcstruct/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a sign-out summary for a structured case
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Output is the structured case to summarize
	Output model.CaseOutput

	// AllowedMarkers is the STRICT allowlist of marker names the summary may
	// discuss: exactly the markers present in the structured output
	AllowedMarkers []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictMarkers enforces the marker allowlist on summaries
	StrictMarkers bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:      "", // Disabled by default
		Model:         "",
		Timeout:       30,
		StrictMarkers: true, // CRITICAL: Always enforce
		MaxTokens:     600,
	}
}

// BuildPrompt constructs the default summarization prompt. It hands the LLM
// only the structured output, never the raw narrative, and restricts it to
// the case's own markers.
func BuildPrompt(out model.CaseOutput, allowedMarkers []string) string {
	prompt := fmt.Sprintf(`You are drafting a brief review note for a structured immunohistochemistry report. The structured data below is authoritative; you add nothing to it.

CRITICAL RULES:
1. You may ONLY discuss these markers:
%s

2. DO NOT mention any other marker, stain or test.
3. DO NOT offer a diagnosis, differential, or clinical recommendation.
4. Describe what was extracted and what the validation issues mean for review. Use phrases like:
   - "ER was reported negative..."
   - "The percent positivity for HER2 is approximate and should be confirmed..."
5. If the case failed validation, lead with that.

Case:
- Status: %s
- Markers structured: %d
- Errors: %d
- Warnings: %d

Marker findings:
`, joinMarkers(allowedMarkers), out.Status, len(out.IHC.Markers), len(out.Validation.Errors), len(out.Validation.Warnings))

	for _, st := range out.IHC.Markers {
		line := fmt.Sprintf("- %s: %s", st.MarkerName, valueOr(string(st.Result), "no result"))
		if st.Pattern != "" {
			line += ", " + st.Pattern
		}
		if st.Intensity != "" {
			line += ", " + st.Intensity
		}
		if st.PercentPositive != nil {
			line += fmt.Sprintf(", %d%%", int(*st.PercentPositive))
		}
		prompt += line + "\n"
	}

	prompt += "\nValidation issues:\n"
	for _, issue := range out.Validation.Errors {
		prompt += fmt.Sprintf("- error %s: %s\n", issue.Code, issue.Message)
	}
	for _, issue := range out.Validation.Warnings {
		prompt += fmt.Sprintf("- warning %s: %s\n", issue.Code, issue.Message)
	}

	prompt += "\nProvide a 3-4 sentence summary for the reviewing pathologist."

	return prompt
}

// Helper functions

func joinMarkers(markers []string) string {
	if len(markers) == 0 {
		return "(No markers in this case)"
	}
	result := ""
	for _, m := range markers {
		result += fmt.Sprintf("\n- %s", m)
	}
	return result
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// MentionedMarkers returns which of the candidate marker names appear in the
// summary text (case-insensitive, word-boundary), used for leak checking.
func MentionedMarkers(summary string, candidates []string) []string {
	var mentioned []string
	for _, name := range candidates {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(name)) + `\b`)
		if re.MatchString(strings.ToLower(summary)) {
			mentioned = append(mentioned, name)
		}
	}
	return mentioned
}
