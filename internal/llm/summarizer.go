package llm

import (
	"context"
	"fmt"

	"github.com/pathbench/ihcstruct/internal/model"
)

// Summarizer wraps a provider and performs the marker-allowlist leak check
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer; a Config with no provider yields a
// disabled summarizer rather than an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the active provider's name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces the optional sign-out summary for a case.
// knownMarkers is the full dictionary's display names; any known marker that
// appears in the summary but not in the case's own output is recorded as a
// leak warning on the summary, never as a validation issue.
func (s *Summarizer) GenerateSummary(ctx context.Context, out *model.CaseOutput, knownMarkers []string) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	allowed := make([]string, 0, len(out.IHC.Markers))
	allowedSet := make(map[string]bool, len(out.IHC.Markers))
	for _, st := range out.IHC.Markers {
		allowed = append(allowed, st.MarkerName)
		allowedSet[st.MarkerName] = true
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Output:         *out,
		AllowedMarkers: allowed,
		Model:          s.config.Model,
		MaxTokens:      s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	summary := &model.LLMSummary{
		Enabled:       true,
		Provider:      s.provider.Name(),
		Model:         resp.Model,
		StrictMarkers: s.config.StrictMarkers,
		SummaryMD:     resp.Summary,
	}

	if s.config.StrictMarkers {
		for _, name := range MentionedMarkers(resp.Summary, knownMarkers) {
			if !allowedSet[name] {
				summary.Warnings = append(summary.Warnings,
					fmt.Sprintf("summary mentions marker not present in this case: %s", name))
			}
		}
	}

	return summary, nil
}

// RenderSeparateMarkdown renders the LLM summary for its own file, clearly
// labelled so it cannot be mistaken for the deterministic report.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	md := "# LLM Sign-out Summary (non-authoritative)\n\n"
	md += fmt.Sprintf("*Provider: %s / %s. This text is generated and does not affect extraction or validation.*\n\n", summary.Provider, summary.Model)
	md += summary.SummaryMD + "\n"

	if len(summary.Warnings) > 0 {
		md += "\n## Summary warnings\n\n"
		for _, w := range summary.Warnings {
			md += "- " + w + "\n"
		}
	}
	return md
}
