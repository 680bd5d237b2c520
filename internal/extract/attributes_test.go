package extract

import (
	"reflect"
	"testing"

	"github.com/pathbench/ihcstruct/internal/model"
)

func TestAttributesResult(t *testing.T) {
	tests := []struct {
		in   string
		want model.Result
	}{
		{"ER positive", model.ResultPositive},
		{"strong positivity", model.ResultPositive},
		{"PR negative", model.ResultNegative},
		{"HER2 not done", model.ResultNotDone},
		{"results awaited", model.ResultNotDone},
		{"stain pending", model.ResultNotDone},
		// "not done" outranks the positivity word in the same span
		{"positive controls, stain not done", model.ResultNotDone},
		{"nuclear staining", ""},
	}

	for _, tt := range tests {
		if got := Attributes(tt.in).Result; got != tt.want {
			t.Errorf("Attributes(%q).Result = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAttributesStaining(t *testing.T) {
	attrs := Attributes("Positive, strong diffuse membranous staining")
	if attrs.Pattern != "membranous" {
		t.Errorf("pattern = %q", attrs.Pattern)
	}
	if attrs.Intensity != "strong" {
		t.Errorf("intensity = %q", attrs.Intensity)
	}
	if attrs.Extent != "diffuse" {
		t.Errorf("extent = %q", attrs.Extent)
	}
}

func TestAttributesPercent(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		in       string
		want     *float64
		wantAppx bool
	}{
		{"positive in 50% of cells", f(50), false},
		{"positive in 5 percent of cells", f(5), false},
		{"positive in ninety percent of cells", f(90), false},
		{"positive in 10 to 20 percent of cells", nil, true},
		{"positive in ten to twenty percent of cells", nil, true},
		{"positive", nil, false},
		{"positive in 150% of cells", f(150), false}, // out-of-range is validation's job
	}

	for _, tt := range tests {
		attrs := Attributes(tt.in)
		if !reflect.DeepEqual(attrs.PercentPositive, tt.want) {
			t.Errorf("Attributes(%q).PercentPositive = %v, want %v", tt.in, attrs.PercentPositive, tt.want)
		}
		if attrs.PercentApproximate != tt.wantAppx {
			t.Errorf("Attributes(%q).PercentApproximate = %t, want %t", tt.in, attrs.PercentApproximate, tt.wantAppx)
		}
	}
}

func TestAttributesControls(t *testing.T) {
	tests := []struct {
		in   string
		want model.ControlsStatus
	}{
		{"positive, controls adequate", model.ControlsAdequate},
		{"positive, internal control fine", model.ControlsAdequate},
		{"positive, controls inadequate", model.ControlsInadequate},
		{"positive", model.ControlsNotMentioned},
		// "adequate" without a controls mention is ignored
		{"adequate tissue", model.ControlsNotMentioned},
	}

	for _, tt := range tests {
		if got := Attributes(tt.in).Controls; got != tt.want {
			t.Errorf("Attributes(%q).Controls = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAttributesConfidence(t *testing.T) {
	if got := Attributes("maybe positive").Confidence; got != model.ConfidenceUncertain {
		t.Errorf("hedged span confidence = %q", got)
	}
	if got := Attributes("positive").Confidence; got != model.ConfidenceExplicit {
		t.Errorf("plain span confidence = %q", got)
	}
}

func TestHasSupporting(t *testing.T) {
	if !Attributes("strong nuclear staining").HasSupporting() {
		t.Error("staining attributes should count as supporting")
	}
	if Attributes("was evaluated").HasSupporting() {
		t.Error("bare span should not count as supporting")
	}
}

func TestHasNegativeFor(t *testing.T) {
	if !HasNegativeFor("Negative for ER and PR") {
		t.Error("expected negative-for detection")
	}
	if HasNegativeFor("ER negative") {
		t.Error("plain negative is not a negative-for phrase")
	}
}

func TestHasDiagnosticLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Profile consistent with metastatic carcinoma", true},
		{"Findings favor a lung primary", true},
		{"Suggestive of adenocarcinoma", true},
		{"ER positive, PR negative", false},
	}

	for _, tt := range tests {
		if got := HasDiagnosticLanguage(tt.in); got != tt.want {
			t.Errorf("HasDiagnosticLanguage(%q) = %t, want %t", tt.in, got, tt.want)
		}
	}
}

func TestUnknownMarkerTokens(t *testing.T) {
	aliases := testAliasMap()

	tests := []struct {
		name   string
		clause string
		want   []string
	}{
		{
			name:   "unknown marker shape",
			clause: "CDX2 positive",
			want:   []string{"CDX2"},
		},
		{
			name:   "known alias suppressed",
			clause: "CK7 positive",
			want:   nil,
		},
		{
			name:   "short tokens suppressed",
			clause: "is positive",
			want:   nil,
		},
		{
			name:   "no marker shape",
			clause: "unremarkable tissue",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnknownMarkerTokens(tt.clause, aliases)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UnknownMarkerTokens(%q) = %v, want %v", tt.clause, got, tt.want)
			}
		})
	}
}

func TestVisibleText(t *testing.T) {
	htmlDoc := `<html><head><style>body{}</style><script>x()</script></head>
<body><p>ER positive.</p><p>PR negative.</p></body></html>`

	text, err := VisibleText(htmlDoc)
	if err != nil {
		t.Fatalf("VisibleText: %v", err)
	}
	if text != "ER positive. PR negative. " {
		t.Errorf("text = %q", text)
	}
}
