package worker

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pathbench/ihcstruct/internal/model"
)

// Processor defines the interface for processing one case
type Processor interface {
	ProcessCase(ctx context.Context, input model.CaseInput) (*model.CaseOutput, error)
}

// CaseJob represents one case to structure
type CaseJob struct {
	Input     model.CaseInput
	Processor Processor
}

// Execute executes the case job
func (j *CaseJob) Execute(ctx context.Context) Result {
	output, err := j.Processor.ProcessCase(ctx, j.Input)
	return &CaseResult{
		InputID: j.Input.InputID,
		Output:  output,
		Error:   err,
	}
}

// CaseResult represents the result of a case job
type CaseResult struct {
	InputID string
	Output  *model.CaseOutput
	Error   error
}

// GetError returns the error from the case result
func (r *CaseResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple cases concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessCases processes multiple cases concurrently
func (b *BatchProcessor) ProcessCases(ctx context.Context, inputs []model.CaseInput) []*CaseResult {
	if len(inputs) == 0 {
		return []*CaseResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, input := range inputs {
		pool.Submit(&CaseJob{
			Input:     input,
			Processor: b.processor,
		})
	}

	results := pool.Wait()

	caseResults := make([]*CaseResult, len(results))
	for i, result := range results {
		caseResults[i] = result.(*CaseResult)
	}

	return caseResults
}

// ProcessFile reads a batch file and processes its cases concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath, specimenID string) ([]*CaseResult, error) {
	inputs, err := ReadCasesFromFile(filePath, specimenID)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}

	return b.ProcessCases(ctx, inputs), nil
}

// ReadCasesFromFile reads a batch text file; blank lines split cases.
// Case n gets input id "case-NN".
func ReadCasesFromFile(filePath, specimenID string) ([]model.CaseInput, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return SplitBatchText(string(data), specimenID), nil
}

// SplitBatchText splits batch text into case inputs on blank lines
func SplitBatchText(text, specimenID string) []model.CaseInput {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var inputs []model.CaseInput
	for _, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		inputs = append(inputs, model.CaseInput{
			InputID:   fmt.Sprintf("case-%02d", len(inputs)+1),
			InputType: model.InputTypeText,
			RawText:   para,
			Context: model.CaseContext{
				SpecimenID: specimenID,
			},
		})
	}
	return inputs
}
