package extract

import (
	"testing"

	"github.com/pathbench/ihcstruct/internal/model"
)

func testAliasMap() map[string]*model.MarkerDefinition {
	er := &model.MarkerDefinition{MarkerCanonical: "ER", DisplayName: "ER"}
	her2 := &model.MarkerDefinition{MarkerCanonical: "HER2", DisplayName: "HER2"}
	ttf1 := &model.MarkerDefinition{MarkerCanonical: "TTF1", DisplayName: "TTF1"}
	ck7 := &model.MarkerDefinition{MarkerCanonical: "CK7", DisplayName: "CK7"}

	return map[string]*model.MarkerDefinition{
		"er":                er,
		"estrogen receptor": er,
		"her2":              her2,
		"her2/neu":          her2,
		"ttf1":              ttf1,
		"ck7":               ck7,
	}
}

func TestFindMentions(t *testing.T) {
	aliases := testAliasMap()

	t.Run("single marker", func(t *testing.T) {
		got := FindMentions("ER negative", aliases)
		if len(got) != 1 {
			t.Fatalf("got %d mentions, want 1", len(got))
		}
		if got[0].Def.MarkerCanonical != "ER" || got[0].Start != 0 {
			t.Errorf("got %+v", got[0])
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := FindMentions("estrogen Receptor positive", aliases)
		if len(got) != 1 || got[0].Def.MarkerCanonical != "ER" {
			t.Fatalf("got %+v", got)
		}
		if got[0].Alias != "estrogen Receptor" {
			t.Errorf("alias text = %q, want original casing preserved", got[0].Alias)
		}
	})

	t.Run("word boundary", func(t *testing.T) {
		// "perfect" contains "er" but not on a word boundary
		if got := FindMentions("perfect staining", aliases); len(got) != 0 {
			t.Errorf("got %+v, want none", got)
		}
	})

	t.Run("longer alias wins at same position", func(t *testing.T) {
		got := FindMentions("HER2/neu positive", aliases)
		if len(got) != 1 {
			t.Fatalf("got %d mentions, want 1 after containment dedup", len(got))
		}
		if got[0].Alias != "HER2/neu" {
			t.Errorf("kept alias %q, want HER2/neu", got[0].Alias)
		}
	})

	t.Run("multiple markers in order", func(t *testing.T) {
		got := FindMentions("TTF1 and CK7 positive", aliases)
		if len(got) != 2 {
			t.Fatalf("got %d mentions, want 2", len(got))
		}
		if got[0].Def.MarkerCanonical != "TTF1" || got[1].Def.MarkerCanonical != "CK7" {
			t.Errorf("order = %s, %s", got[0].Def.MarkerCanonical, got[1].Def.MarkerCanonical)
		}
	})

	t.Run("markerless clause", func(t *testing.T) {
		if got := FindMentions("controls are adequate", aliases); got != nil {
			t.Errorf("got %+v, want nil", got)
		}
	})
}

func TestScopeSegments(t *testing.T) {
	aliases := testAliasMap()

	t.Run("trailing modifiers scope to the last marker", func(t *testing.T) {
		clause := "TTF1 and CK7 positive, diffuse"
		segs := ScopeSegments(clause, FindMentions(clause, aliases))
		if len(segs) != 2 {
			t.Fatalf("got %d segments, want 2", len(segs))
		}
		if segs[0].Canonical != "TTF1" || segs[0].Text != "TTF1 and" {
			t.Errorf("segment 0 = %+v", segs[0])
		}
		if segs[1].Canonical != "CK7" || segs[1].Text != "CK7 positive, diffuse" {
			t.Errorf("segment 1 = %+v", segs[1])
		}
	})

	t.Run("single marker spans to clause end", func(t *testing.T) {
		clause := "ER positive, nuclear, strong, in 90% of cells"
		segs := ScopeSegments(clause, FindMentions(clause, aliases))
		if len(segs) != 1 {
			t.Fatalf("got %d segments, want 1", len(segs))
		}
		if segs[0].Text != clause {
			t.Errorf("segment text = %q", segs[0].Text)
		}
	})

	t.Run("separators trimmed", func(t *testing.T) {
		clause := "ER, HER2 positive"
		segs := ScopeSegments(clause, FindMentions(clause, aliases))
		if len(segs) != 2 {
			t.Fatalf("got %d segments, want 2", len(segs))
		}
		if segs[0].Text != "ER" {
			t.Errorf("segment 0 text = %q, want trimmed %q", segs[0].Text, "ER")
		}
	})

	t.Run("no mentions", func(t *testing.T) {
		if segs := ScopeSegments("nothing here", nil); segs != nil {
			t.Errorf("got %+v, want nil", segs)
		}
	})
}
