// Package extract implements the rule-based extraction stages: clause
// splitting, marker locating, marker-scoped segmentation and per-span
// attribute parsing. Everything here is pure and deterministic; malformed
// clinical text never produces an error, only absent fields.
package extract

import (
	"regexp"
	"strings"
)

var clauseSplitRe = regexp.MustCompile(`[.;]+`)

// SplitClauses breaks raw case text into sentence-like clauses. Newlines act
// as sentence terminators; runs of '.' or ';' split; empty pieces are dropped.
func SplitClauses(text string) []string {
	text = strings.ReplaceAll(text, "\n", ". ")

	var clauses []string
	for _, piece := range clauseSplitRe.Split(text, -1) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			clauses = append(clauses, piece)
		}
	}
	return clauses
}
