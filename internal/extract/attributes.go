package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pathbench/ihcstruct/internal/model"
)

// Each field is driven by its own ordered rule list; first match wins and
// fields are evaluated independently, so new clinical vocabulary slots in
// without touching merge or validation logic.

type resultRule struct {
	re    *regexp.Regexp
	value model.Result
}

var resultRules = []resultRule{
	{regexp.MustCompile(`\b(not\s+done|awaited|pending)\b`), model.ResultNotDone},
	{regexp.MustCompile(`\b(positive|positivity)\b`), model.ResultPositive},
	{regexp.MustCompile(`\bnegative\b`), model.ResultNegative},
}

var (
	patternRe   = regexp.MustCompile(`\b(nuclear|cytoplasmic|membranous)\b`)
	intensityRe = regexp.MustCompile(`\b(weak|moderate|strong)\b`)
	extentRe    = regexp.MustCompile(`\b(focal|diffuse)\b`)

	percentRangeRe   = regexp.MustCompile(`\b(\w+|\d+)\s+to\s+(\w+|\d+)\s+percent\b`)
	percentLiteralRe = regexp.MustCompile(`\b(\d{1,3})\s*%`)
	percentSpelledRe = regexp.MustCompile(`\b(\d{1,3})\s+percent\b`)
	percentWordRe    = regexp.MustCompile(`\b(\w+)\s+percent\b`)

	controlsMentionRe  = regexp.MustCompile(`\b(control|controls|internal control)\b`)
	controlsAdequateRe = regexp.MustCompile(`\b(adequate|fine)\b`)

	hedgeRe       = regexp.MustCompile(`\b(maybe|kind of|around)\b`)
	negativeForRe = regexp.MustCompile(`\bnegative\s+for\b`)
	diagnosticRe  = regexp.MustCompile(`\b(supports?|consistent with|suggestive of|favor|favours?|primary|metastasis|metastatic)\b`)

	unknownMarkerRe = regexp.MustCompile(`\b([A-Za-z][A-Za-z]+\d*)\s+(?:positive|negative)\b`)
)

// numberWords maps spelled-out percentages to values
var numberWords = map[string]float64{
	"zero":    0,
	"ten":     10,
	"twenty":  20,
	"thirty":  30,
	"forty":   40,
	"fifty":   50,
	"sixty":   60,
	"seventy": 70,
	"eighty":  80,
	"ninety":  90,
	"hundred": 100,
}

// Attributes parses one text span into its clinical attributes. Pure
// function; absence of a field is represented as an empty/default value,
// never an error.
func Attributes(span string) model.Attributes {
	lower := strings.ToLower(span)

	attrs := model.Attributes{
		Controls:   model.ControlsNotMentioned,
		Confidence: model.ConfidenceExplicit,
	}

	for _, rule := range resultRules {
		if rule.re.MatchString(lower) {
			attrs.Result = rule.value
			break
		}
	}

	if m := patternRe.FindStringSubmatch(lower); m != nil {
		attrs.Pattern = m[1]
	}
	if m := intensityRe.FindStringSubmatch(lower); m != nil {
		attrs.Intensity = m[1]
	}
	if m := extentRe.FindStringSubmatch(lower); m != nil {
		attrs.Extent = m[1]
	}

	attrs.PercentPositive, attrs.PercentApproximate = parsePercent(lower)

	if controlsMentionRe.MatchString(lower) {
		if strings.Contains(lower, "inadequate") {
			attrs.Controls = model.ControlsInadequate
		} else if controlsAdequateRe.MatchString(lower) {
			attrs.Controls = model.ControlsAdequate
		}
	}

	if hedgeRe.MatchString(lower) {
		attrs.Confidence = model.ConfidenceUncertain
	}

	return attrs
}

// parsePercent resolves the percent-positivity of a span. A range such as
// "10 to 20 percent" yields (nil, true): present but imprecise. A literal
// "NN%" / "NN percent" or a spelled-out number word yields the exact value.
func parsePercent(lower string) (*float64, bool) {
	if percentRangeRe.MatchString(lower) {
		return nil, true
	}

	m := percentLiteralRe.FindStringSubmatch(lower)
	if m == nil {
		m = percentSpelledRe.FindStringSubmatch(lower)
	}
	if m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return &v, false
		}
	}

	if m := percentWordRe.FindStringSubmatch(lower); m != nil {
		if v, ok := numberWords[m[1]]; ok {
			return &v, false
		}
	}

	return nil, false
}

// HasNegativeFor reports whether the clause carries a "negative for" phrase,
// used as a clause-wide fallback polarity.
func HasNegativeFor(clause string) bool {
	return negativeForRe.MatchString(strings.ToLower(clause))
}

// HasDiagnosticLanguage reports whether the raw case text contains
// diagnostic phrasing ("consistent with", "metastatic", ...), which belongs
// in a diagnosis line rather than an IHC findings block.
func HasDiagnosticLanguage(text string) bool {
	return diagnosticRe.MatchString(strings.ToLower(text))
}

// UnknownMarkerTokens scans a markerless clause for "TOKEN positive/negative"
// shapes and returns tokens that do not resolve through the alias map.
// Tokens of one or two characters are suppressed as likely lab acronym noise.
func UnknownMarkerTokens(clause string, aliasMap map[string]*model.MarkerDefinition) []string {
	var tokens []string
	for _, m := range unknownMarkerRe.FindAllStringSubmatch(clause, -1) {
		token := m[1]
		if len(token) <= 2 {
			continue
		}
		if _, known := aliasMap[strings.ToLower(token)]; known {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
