package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pathbench/ihcstruct/internal/model"
)

type fakeProcessor struct {
	failID string
}

func (p *fakeProcessor) ProcessCase(ctx context.Context, input model.CaseInput) (*model.CaseOutput, error) {
	if input.InputID == p.failID {
		return nil, fmt.Errorf("forced failure for %s", input.InputID)
	}
	return &model.CaseOutput{
		OutputID: "out-" + input.InputID,
		InputID:  input.InputID,
		Status:   model.StatusOK,
	}, nil
}

func TestSplitBatchText(t *testing.T) {
	text := "ER positive.\nPR negative.\n\nHER2 positive in 30% of cells.\n\n\nTTF1 negative."
	inputs := SplitBatchText(text, "Block A")

	if len(inputs) != 3 {
		t.Fatalf("got %d cases, want 3", len(inputs))
	}
	if inputs[0].InputID != "case-01" || inputs[1].InputID != "case-02" || inputs[2].InputID != "case-03" {
		t.Errorf("ids = %s, %s, %s", inputs[0].InputID, inputs[1].InputID, inputs[2].InputID)
	}
	if inputs[0].RawText != "ER positive.\nPR negative." {
		t.Errorf("case 1 text = %q", inputs[0].RawText)
	}
	for _, in := range inputs {
		if in.Context.SpecimenID != "Block A" {
			t.Errorf("%s specimen = %q", in.InputID, in.Context.SpecimenID)
		}
		if in.InputType != model.InputTypeText {
			t.Errorf("%s input type = %q", in.InputID, in.InputType)
		}
	}
}

func TestSplitBatchTextCRLF(t *testing.T) {
	inputs := SplitBatchText("ER positive.\r\n\r\nPR negative.", "")
	if len(inputs) != 2 {
		t.Fatalf("got %d cases, want 2", len(inputs))
	}
}

func TestSplitBatchTextEmpty(t *testing.T) {
	if inputs := SplitBatchText("   \n\n  ", ""); len(inputs) != 0 {
		t.Errorf("got %d cases, want 0", len(inputs))
	}
}

func TestReadCasesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.txt")
	if err := os.WriteFile(path, []byte("ER positive.\n\nPR negative.\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	inputs, err := ReadCasesFromFile(path, "")
	if err != nil {
		t.Fatalf("ReadCasesFromFile: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d cases, want 2", len(inputs))
	}
}

func TestReadCasesFromFileMissing(t *testing.T) {
	if _, err := ReadCasesFromFile(filepath.Join(t.TempDir(), "nope.txt"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBatchProcessorProcessCases(t *testing.T) {
	inputs := SplitBatchText("ER positive.\n\nPR negative.\n\nHER2 positive.", "")

	b := NewBatchProcessor(&fakeProcessor{}, 2)
	results := b.ProcessCases(context.Background(), inputs)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Results arrive in completion order; account by id
	seen := make(map[string]bool)
	for _, r := range results {
		if r.Error != nil {
			t.Errorf("%s failed: %v", r.InputID, r.Error)
		}
		if r.Output == nil || r.Output.InputID != r.InputID {
			t.Errorf("result %s output = %+v", r.InputID, r.Output)
		}
		seen[r.InputID] = true
	}
	for _, id := range []string{"case-01", "case-02", "case-03"} {
		if !seen[id] {
			t.Errorf("missing result for %s", id)
		}
	}
}

func TestBatchProcessorLargeBatch(t *testing.T) {
	// A batch far bigger than the worker count must drain completely even
	// with a single worker
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "ER negative.\n\n")
	}
	inputs := SplitBatchText(b.String(), "")
	if len(inputs) != 30 {
		t.Fatalf("got %d cases, want 30", len(inputs))
	}

	done := make(chan []*CaseResult, 1)
	go func() {
		done <- NewBatchProcessor(&fakeProcessor{}, 1).ProcessCases(context.Background(), inputs)
	}()

	select {
	case results := <-done:
		if len(results) != 30 {
			t.Fatalf("got %d results, want 30", len(results))
		}
	case <-time.After(10 * time.Second):
		t.Fatal("batch of 30 cases with 1 worker never completed")
	}
}

func TestBatchProcessorIsolatesFailures(t *testing.T) {
	inputs := SplitBatchText("ER positive.\n\nPR negative.", "")

	b := NewBatchProcessor(&fakeProcessor{failID: "case-01"}, 2)
	results := b.ProcessCases(context.Background(), inputs)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	var failed, ok int
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		} else {
			ok++
		}
	}
	if failed != 1 || ok != 1 {
		t.Errorf("failed=%d ok=%d", failed, ok)
	}
}

func TestBatchProcessorEmptyInput(t *testing.T) {
	b := NewBatchProcessor(&fakeProcessor{}, 2)
	if results := b.ProcessCases(context.Background(), nil); len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow() || !l.Allow() {
		t.Error("burst of 2 should be allowed immediately")
	}
	if l.Allow() {
		t.Error("third immediate request should be limited")
	}
}

func TestLimiterWaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow() // drain the bucket

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("expected context error")
	}
}
