package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/pathbench/ihcstruct/internal/model"
	"github.com/pathbench/ihcstruct/internal/pipeline"
	"github.com/pathbench/ihcstruct/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Structure multiple cases from a batch file in parallel",
	Long: `Batch processes a text file in which blank lines separate cases:
- Case n is assigned input id case-NN
- Cases are processed in parallel with a configurable worker count
- Each case gets its own JSON and Markdown report in the output directory

Example:
  ihcstruct batch cases.txt
  ihcstruct batch cases.txt --concurrency 8 --output-dir ./reports
  ihcstruct batch cases.txt --specimen "Specimen B" --llm --llm-provider ollama --llm-model llama3.1:8b`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./ihc-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&specimenID, "specimen", "Specimen A", "specimen identifier applied to every case")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force reprocessing)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM sign-out summaries")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  ihcstruct Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Concurrency.Workers = concurrency
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	if err := configureLLM(cfg); err != nil {
		return err
	}
	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", llmProvider, llmModel)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	dict, err := loadDictionary()
	if err != nil {
		return err
	}

	p, err := pipeline.New(dict, cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading cases from file...\n")
	results, err := processor.ProcessFile(ctx, file, specimenID)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d cases\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")

	// Pool results arrive in completion order
	sort.Slice(results, func(i, j int) bool { return results[i].InputID < results[j].InputID })

	successCount := 0
	failureCount := 0
	statusCounts := map[model.CaseStatus]int{}

	renderer := p.Renderer()
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.InputID, result.Error)
			continue
		}

		successCount++
		statusCounts[result.Output.Status]++

		jsonPath := filepath.Join(outputDir, result.InputID+".json")
		mdPath := filepath.Join(outputDir, result.InputID+".md")

		if err := renderer.RenderJSON(result.Output, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.InputID, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Output, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.InputID, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s: %s (%d markers, %d errors, %d warnings)\n",
			result.InputID, result.Output.Status, len(result.Output.IHC.Markers),
			len(result.Output.Validation.Errors), len(result.Output.Validation.Warnings))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:         %d cases\n", len(results))
	fmt.Fprintf(os.Stderr, "  Processed:     %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:      %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  ok:            %d\n", statusCounts[model.StatusOK])
	fmt.Fprintf(os.Stderr, "  needs_review:  %d\n", statusCounts[model.StatusNeedsReview])
	fmt.Fprintf(os.Stderr, "  failed:        %d\n", statusCounts[model.StatusFailed])
	fmt.Fprintf(os.Stderr, "  Output:        %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
