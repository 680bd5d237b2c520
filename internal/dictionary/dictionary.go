// Package dictionary loads and validates the marker dictionary: the static
// mapping of canonical biomarkers to aliases, allowed staining patterns and
// reporting requirements. A loaded Dictionary is immutable and may be shared
// across concurrent case runs.
package dictionary

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pathbench/ihcstruct/internal/model"
	"gopkg.in/yaml.v3"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeAlias lowercases an alias and collapses internal whitespace
func NormalizeAlias(alias string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(alias)), " ")
}

// file is the on-disk YAML shape
type file struct {
	Markers []model.MarkerDefinition `yaml:"markers"`
}

// Dictionary is the parsed, validated marker dictionary
type Dictionary struct {
	defs        []model.MarkerDefinition
	byCanonical map[string]*model.MarkerDefinition
	aliasMap    map[string]*model.MarkerDefinition
	fingerprint string
}

// New builds a Dictionary from an ordered list of definitions.
// Validation failures here are contract violations and fail fast.
func New(defs []model.MarkerDefinition) (*Dictionary, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("dictionary has no markers")
	}

	d := &Dictionary{
		defs:        defs,
		byCanonical: make(map[string]*model.MarkerDefinition, len(defs)),
		aliasMap:    make(map[string]*model.MarkerDefinition),
	}

	for i := range d.defs {
		def := &d.defs[i]
		if def.MarkerCanonical == "" {
			return nil, fmt.Errorf("marker %d: missing canonical id", i)
		}
		if _, dup := d.byCanonical[def.MarkerCanonical]; dup {
			return nil, fmt.Errorf("duplicate canonical id: %s", def.MarkerCanonical)
		}
		if def.DisplayName == "" {
			def.DisplayName = def.MarkerCanonical
		}
		if len(def.Aliases) == 0 {
			return nil, fmt.Errorf("marker %s: empty alias list", def.MarkerCanonical)
		}
		d.byCanonical[def.MarkerCanonical] = def

		for _, alias := range def.Aliases {
			norm := NormalizeAlias(alias)
			if norm == "" {
				return nil, fmt.Errorf("marker %s: blank alias", def.MarkerCanonical)
			}
			if prev, dup := d.aliasMap[norm]; dup && prev != def {
				return nil, fmt.Errorf("alias %q maps to both %s and %s", norm, prev.MarkerCanonical, def.MarkerCanonical)
			}
			d.aliasMap[norm] = def
		}
	}

	d.fingerprint = computeFingerprint(d.defs)
	return d, nil
}

// Load reads a YAML marker dictionary from disk
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}

	d, err := New(f.Markers)
	if err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	return d, nil
}

// Definitions returns the definitions in load order
func (d *Dictionary) Definitions() []model.MarkerDefinition {
	return d.defs
}

// ByCanonical looks up a definition by canonical id
func (d *Dictionary) ByCanonical(id string) (*model.MarkerDefinition, bool) {
	def, ok := d.byCanonical[id]
	return def, ok
}

// AliasMap returns the normalized alias to definition mapping
func (d *Dictionary) AliasMap() map[string]*model.MarkerDefinition {
	return d.aliasMap
}

// Len returns the number of markers
func (d *Dictionary) Len() int {
	return len(d.defs)
}

// Fingerprint is a stable digest of the dictionary contents, used to key
// the case-output cache so a dictionary change invalidates prior results.
func (d *Dictionary) Fingerprint() string {
	return d.fingerprint
}

func computeFingerprint(defs []model.MarkerDefinition) string {
	h := sha256.New()
	for _, def := range defs {
		fmt.Fprintf(h, "%s|%s|%t|%t|%t\n", def.MarkerCanonical, def.DisplayName,
			def.HardPatternEnforce, def.Requirements.PercentRequired, def.Requirements.IntensityRequired)

		aliases := append([]string(nil), def.Aliases...)
		sort.Strings(aliases)
		for _, a := range aliases {
			fmt.Fprintf(h, "a:%s\n", NormalizeAlias(a))
		}

		patterns := append([]string(nil), def.AllowedPatterns...)
		sort.Strings(patterns)
		for _, p := range patterns {
			fmt.Fprintf(h, "p:%s\n", p)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
