package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pathbench/ihcstruct/internal/model"
)

func TestCaseKey(t *testing.T) {
	input := model.CaseInput{InputID: "case-01", RawText: "ER positive."}

	k1 := CaseKey("fp1", input)
	k2 := CaseKey("fp1", input)
	if k1 != k2 {
		t.Error("same inputs produced different keys")
	}
	if !strings.HasPrefix(k1, "ihcstruct:v1:") {
		t.Errorf("key = %q", k1)
	}

	if CaseKey("fp2", input) == k1 {
		t.Error("dictionary fingerprint not part of the key")
	}

	changed := input
	changed.RawText = "ER negative."
	if CaseKey("fp1", changed) == k1 {
		t.Error("raw text not part of the key")
	}

	// The input id is rewritten on hit, so it must not fragment the key
	renamed := input
	renamed.InputID = "case-99"
	if CaseKey("fp1", renamed) != k1 {
		t.Error("input id should not be part of the key")
	}
}

func TestCaseKeyCoversContext(t *testing.T) {
	base := model.CaseInput{InputID: "case-01", RawText: "ER positive."}

	tests := []struct {
		name   string
		mutate func(*model.CaseInput)
	}{
		{"specimen id", func(in *model.CaseInput) { in.Context.SpecimenID = "Block B2" }},
		{"case id", func(in *model.CaseInput) { in.Context.CaseID = "S24-1001" }},
		{"panel hint", func(in *model.CaseInput) { in.Context.PanelHint = "breast" }},
		{"input type", func(in *model.CaseInput) { in.InputType = model.InputTypeHTML }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := base
			tt.mutate(&changed)
			if CaseKey("fp", changed) == CaseKey("fp", base) {
				t.Error("key unchanged; stale context would be served from cache")
			}
		})
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, found := c.Get("k")
	if !found || !bytes.Equal(got, []byte("v")) {
		t.Errorf("Get = %q, %t", got, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("hit after delete")
	}

	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("hit after clear")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("hit after TTL expiry")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit")
	}

	key := CaseKey("fp", model.CaseInput{RawText: "text"})
	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, found := c.Get(key)
	if !found || !bytes.Equal(got, []byte("payload")) {
		t.Errorf("Get = %q, %t", got, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("hit after delete")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("hit after TTL expiry")
	}
}

func TestDiskCacheClear(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("hit after clear")
	}
}

func TestLayeredCache(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	key := CaseKey("fp", model.CaseInput{RawText: "text"})
	if err := c.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Disk hit survives the loss of the memory layer and is promoted back
	fresh := NewLayeredCache(time.Minute, dir, time.Minute)
	got, found := fresh.Get(key)
	if !found || !bytes.Equal(got, []byte("payload")) {
		t.Fatalf("Get = %q, %t", got, found)
	}
	if got, found := fresh.memory.Get(key); !found || !bytes.Equal(got, []byte("payload")) {
		t.Error("disk hit not promoted to memory")
	}

	if err := fresh.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := fresh.Get(key); found {
		t.Error("hit after delete")
	}
}
