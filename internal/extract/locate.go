package extract

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pathbench/ihcstruct/internal/model"
)

// Mention is one located marker alias occurrence inside a clause
type Mention struct {
	Def   *model.MarkerDefinition
	Start int
	End   int
	Alias string // the matched text as it appeared in the clause
}

// Segment is a marker-scoped span of a clause: from one marker's mention to
// the start of the next (or clause end), the direct input to attribute
// extraction.
type Segment struct {
	Canonical   string
	DisplayName string
	Text        string
}

// FindMentions locates all case-insensitive, word-boundary alias matches in a
// clause. Candidates are ordered by (start ascending, length descending) so
// longer aliases win at the same position, then any candidate fully contained
// in an already-accepted span is discarded. An empty result is a valid
// outcome (markerless clause).
func FindMentions(clause string, aliasMap map[string]*model.MarkerDefinition) []Mention {
	lower := strings.ToLower(clause)

	var found []Mention
	for alias, def := range aliasMap {
		re := aliasRe(alias)
		for _, loc := range re.FindAllStringIndex(lower, -1) {
			found = append(found, Mention{
				Def:   def,
				Start: loc[0],
				End:   loc[1],
				Alias: clause[loc[0]:loc[1]],
			})
		}
	}

	// Map iteration order is random; the alias tiebreak keeps output stable.
	sort.Slice(found, func(i, j int) bool {
		if found[i].Start != found[j].Start {
			return found[i].Start < found[j].Start
		}
		li, lj := found[i].End-found[i].Start, found[j].End-found[j].Start
		if li != lj {
			return li > lj
		}
		return found[i].Alias < found[j].Alias
	})

	var accepted []Mention
	for _, m := range found {
		contained := false
		for _, a := range accepted {
			if m.Start >= a.Start && m.End <= a.End {
				contained = true
				break
			}
		}
		if !contained {
			accepted = append(accepted, m)
		}
	}
	return accepted
}

// ScopeSegments partitions a clause into marker-scoped spans. Mention i's
// segment runs from its start to mention i+1's start (or clause end),
// trimmed of surrounding commas, semicolons and spaces. A run-on clause like
// "TTF1 and CK7 positive, focal" scopes the trailing modifiers to CK7 only.
func ScopeSegments(clause string, mentions []Mention) []Segment {
	if len(mentions) == 0 {
		return nil
	}

	ordered := append([]Mention(nil), mentions...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	segments := make([]Segment, 0, len(ordered))
	for i, m := range ordered {
		end := len(clause)
		if i+1 < len(ordered) {
			end = ordered[i+1].Start
		}
		segments = append(segments, Segment{
			Canonical:   m.Def.MarkerCanonical,
			DisplayName: m.Def.DisplayName,
			Text:        strings.Trim(clause[m.Start:end], " ,;"),
		})
	}
	return segments
}

var aliasReCache sync.Map // alias -> *regexp.Regexp

func aliasRe(alias string) *regexp.Regexp {
	if re, ok := aliasReCache.Load(alias); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(alias) + `\b`)
	aliasReCache.Store(alias, re)
	return re
}
