package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pathbench/ihcstruct/internal/model"
	"github.com/pathbench/ihcstruct/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	inputFile   string
	inputType   string
	specimenID  string
	inputID     string
	outJSON     string
	outMD       string
	procTimeout time.Duration
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process [narrative text]",
	Short: "Structure a single IHC narrative",
	Long: `Process structures one free-text IHC narrative:
- Split the text into clauses and locate marker mentions
- Extract result, pattern, intensity, percent, extent and controls per marker
- Merge repeated mentions under the conflict rules
- Run the validation rule set and derive the case status
- Render the narrative, the table and JSON output

Example:
  ihcstruct process "ER negative, PR negative. HER2 positive in 30 percent."
  ihcstruct process -f case.txt --specimen "Specimen B" --json case.json
  ihcstruct process -f report.html --input-type html
  ihcstruct process -f case.txt --llm --llm-provider openai`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&inputFile, "file", "f", "", "read the narrative from a file instead of the argument")
	processCmd.Flags().StringVar(&inputType, "input-type", "text", "input payload type (text, html)")
	processCmd.Flags().StringVar(&specimenID, "specimen", "Specimen A", "specimen identifier for the rendered narrative")
	processCmd.Flags().StringVar(&inputID, "input-id", "case-01", "input identifier for the case")

	// Output flags
	processCmd.Flags().StringVar(&outJSON, "json", "case.json", "output JSON path")
	processCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	processCmd.Flags().DurationVar(&procTimeout, "timeout", time.Minute, "overall processing timeout (only LLM calls can block)")
	processCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force reprocessing)")
	processCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	processCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM sign-out summary")
	processCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	processCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runProcess(cmd *cobra.Command, args []string) error {
	raw, err := readNarrative(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), procTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	if err := configureLLM(cfg); err != nil {
		return err
	}

	dict, err := loadDictionary()
	if err != nil {
		return err
	}

	p, err := pipeline.New(dict, cfg)
	if err != nil {
		return err
	}

	input := model.CaseInput{
		InputID:   inputID,
		InputType: model.InputType(inputType),
		RawText:   raw,
		Context: model.CaseContext{
			SpecimenID: specimenID,
		},
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing case %s (%d bytes, %d markers in dictionary)\n",
			input.InputID, len(raw), dict.Len())
	}

	out, err := p.ProcessCase(ctx, input)
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	if err := p.RenderOutput(out, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

func readNarrative(args []string) (string, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	return "", fmt.Errorf("provide a narrative argument or --file")
}

// configureLLM wires the LLM flags and API keys into the config
func configureLLM(cfg *model.Config) error {
	if !llmEnabled {
		return nil
	}

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.StrictMarkers = true // Always enforce

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}
