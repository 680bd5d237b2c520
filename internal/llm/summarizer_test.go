package llm

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/pathbench/ihcstruct/internal/model"
)

type mockProvider struct {
	summary string
	called  bool
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.called = true
	return &SummarizeResponse{Summary: m.summary, Model: "mock-model"}, nil
}

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return true }

func sampleOutput() *model.CaseOutput {
	return &model.CaseOutput{
		InputID: "case-01",
		Status:  model.StatusOK,
		IHC: model.IHCResult{
			Markers: []*model.MarkerState{
				{MarkerName: "ER", MarkerCanonical: "ER", Result: model.ResultNegative},
				{MarkerName: "PR", MarkerCanonical: "PR", Result: model.ResultNegative},
			},
		},
	}
}

func TestNewSummarizerDisabled(t *testing.T) {
	s, err := NewSummarizer(Config{})
	if err != nil {
		t.Fatalf("NewSummarizer: %v", err)
	}
	if s.IsEnabled() {
		t.Error("empty provider should yield a disabled summarizer")
	}
	if s.ProviderName() != "" {
		t.Errorf("provider name = %q", s.ProviderName())
	}

	summary, err := s.GenerateSummary(context.Background(), sampleOutput(), nil)
	if err != nil || summary != nil {
		t.Errorf("disabled summarizer returned %v, %v", summary, err)
	}
}

func TestNewSummarizerUnknownProvider(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "gemini"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestGenerateSummary(t *testing.T) {
	mock := &mockProvider{summary: "ER and PR were reported negative."}
	s := &Summarizer{provider: mock, config: Config{StrictMarkers: true}}

	known := []string{"ER", "PR", "HER2", "Ki-67"}
	summary, err := s.GenerateSummary(context.Background(), sampleOutput(), known)
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if !mock.called {
		t.Error("provider not invoked")
	}
	if !summary.Enabled || summary.Provider != "mock" || summary.Model != "mock-model" {
		t.Errorf("summary = %+v", summary)
	}
	if len(summary.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", summary.Warnings)
	}
}

func TestGenerateSummaryLeakCheck(t *testing.T) {
	mock := &mockProvider{summary: "ER negative; HER2 should also be considered."}
	s := &Summarizer{provider: mock, config: Config{StrictMarkers: true}}

	known := []string{"ER", "PR", "HER2"}
	summary, err := s.GenerateSummary(context.Background(), sampleOutput(), known)
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if len(summary.Warnings) != 1 || !strings.Contains(summary.Warnings[0], "HER2") {
		t.Errorf("warnings = %v, want a HER2 leak warning", summary.Warnings)
	}
}

func TestGenerateSummaryLeakCheckDisabled(t *testing.T) {
	mock := &mockProvider{summary: "HER2 should also be considered."}
	s := &Summarizer{provider: mock, config: Config{StrictMarkers: false}}

	summary, err := s.GenerateSummary(context.Background(), sampleOutput(), []string{"ER", "PR", "HER2"})
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if !summary.StrictMarkers && len(summary.Warnings) != 0 {
		t.Errorf("warnings = %v with strict markers off", summary.Warnings)
	}
}

func TestMentionedMarkers(t *testing.T) {
	candidates := []string{"ER", "PR", "HER2", "Ki-67"}

	tests := []struct {
		summary string
		want    []string
	}{
		{"ER was negative.", []string{"ER"}},
		{"er and pr were negative.", []string{"ER", "PR"}},
		{"The Ki-67 index is high.", []string{"Ki-67"}},
		// "other" contains "er" but not on a word boundary
		{"No other findings.", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := MentionedMarkers(tt.summary, candidates)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("MentionedMarkers(%q) = %v, want %v", tt.summary, got, tt.want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	out := sampleOutput()
	out.Validation.Errors = []model.Issue{{
		Code: model.CodeResultMissing, Message: "Missing result for ER.", Severity: model.SeverityError,
	}}

	prompt := BuildPrompt(*out, []string{"ER", "PR"})

	for _, want := range []string{
		"ONLY discuss these markers",
		"- ER",
		"- PR",
		"DO NOT offer a diagnosis",
		"- ER: Negative",
		"RESULT_MISSING",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptNoMarkers(t *testing.T) {
	prompt := BuildPrompt(model.CaseOutput{Status: model.StatusFailed}, nil)
	if !strings.Contains(prompt, "(No markers in this case)") {
		t.Error("empty allowlist not stated")
	}
}

func TestRenderSeparateMarkdown(t *testing.T) {
	md := RenderSeparateMarkdown(&model.LLMSummary{
		Provider:  "mock",
		Model:     "mock-model",
		SummaryMD: "ER negative.",
		Warnings:  []string{"summary mentions marker not present in this case: HER2"},
	})

	for _, want := range []string{
		"non-authoritative",
		"mock",
		"ER negative.",
		"Summary warnings",
		"HER2",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
