// Package pipeline composes the case-processing run: cache lookup, the
// deterministic engine, the optional LLM summary, and output rendering.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pathbench/ihcstruct/internal/cache"
	"github.com/pathbench/ihcstruct/internal/dictionary"
	"github.com/pathbench/ihcstruct/internal/engine"
	"github.com/pathbench/ihcstruct/internal/llm"
	"github.com/pathbench/ihcstruct/internal/model"
	"github.com/pathbench/ihcstruct/internal/worker"
)

// Pipeline orchestrates the complete processing of cases
type Pipeline struct {
	engine     *engine.Engine
	renderer   *engine.Renderer
	cache      cache.Cache // nil when disabled
	summarizer *llm.Summarizer
	limiter    *worker.Limiter
	config     *model.Config
}

// New creates a pipeline with the given dictionary and configuration
func New(dict *dictionary.Dictionary, cfg *model.Config) (*Pipeline, error) {
	eng, err := engine.New(dict)
	if err != nil {
		return nil, err
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = defaultCacheDir()
		}
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		engine:     eng,
		renderer:   engine.NewRenderer(cfg.Output.IncludeFooter),
		cache:      c,
		summarizer: summarizer,
		limiter:    worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		config:     cfg,
	}, nil
}

// ProcessCase runs one case: cache, engine, optional LLM summary.
// Implements worker.Processor.
func (p *Pipeline) ProcessCase(ctx context.Context, input model.CaseInput) (*model.CaseOutput, error) {
	key := cache.CaseKey(p.engine.Dictionary().Fingerprint(), input)

	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var out model.CaseOutput
			if err := json.Unmarshal(data, &out); err == nil {
				out.InputID = input.InputID
				return &out, nil
			}
			// Corrupt entry; fall through and reprocess
			_ = p.cache.Delete(key)
		}
	}

	out, err := p.engine.Process(input)
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	// LLM summary runs AFTER validation and never changes it
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		summary, err := p.summarizer.GenerateSummary(ctx, out, p.knownMarkerNames())
		if err != nil {
			// Don't fail the case, just warn
			fmt.Fprintf(os.Stderr, "Warning: LLM summary generation failed: %v\n", err)
		} else if summary != nil {
			out.LLM = summary
		}
	}

	if p.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			_ = p.cache.Set(key, data, 0)
		}
	}

	return out, nil
}

// RenderOutput writes the case output to the requested destinations and
// prints the stdout summary.
func (p *Pipeline) RenderOutput(out *model.CaseOutput, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(out, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(out, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if out.LLM != nil && out.LLM.Enabled && mdPath != "" {
		llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(out.LLM), llmPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to write LLM summary: %v\n", err)
		} else if verbose {
			fmt.Printf("✓ Wrote LLM Summary: %s\n", llmPath)
		}
	}

	p.renderer.RenderSummary(out)

	return nil
}

// Renderer exposes the pipeline's renderer for batch output
func (p *Pipeline) Renderer() *engine.Renderer {
	return p.renderer
}

func (p *Pipeline) knownMarkerNames() []string {
	defs := p.engine.Dictionary().Definitions()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.DisplayName)
	}
	return names
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ihcstruct-cache"
	}
	return home + "/.ihcstruct/cache"
}
