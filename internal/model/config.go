package model

import "time"

// Config is the full ihcstruct configuration
type Config struct {
	Dictionary   DictionaryConfig  `yaml:"dictionary" mapstructure:"dictionary"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// DictionaryConfig selects the marker dictionary source
type DictionaryConfig struct {
	// Path to a YAML marker dictionary; empty uses the built-in panel
	Path string `yaml:"path" mapstructure:"path"`
}

// CacheConfig controls the case-output cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig paces outbound LLM API requests
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls rendering and verbosity
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LLMConfig configures the optional sign-out summarizer
type LLMConfig struct {
	// Provider name: "openai", "ollama", "" (disabled)
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"` // seconds

	// StrictMarkers enforces the marker allowlist check on summaries
	StrictMarkers bool `yaml:"strict_markers" mapstructure:"strict_markers"`
	MaxTokens     int  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Dictionary: DictionaryConfig{
			Path: "",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:      "",
			Model:         "",
			Timeout:       30,
			StrictMarkers: true, // Always enforce
			MaxTokens:     600,
		},
	}
}
