package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime options for the summarization pipeline.
type Config struct {
	// Cache
	CacheDir     string `yaml:"cache_dir"`
	CacheEnabled bool   `yaml:"cache_enabled"`

	// Retry behavior for LLM calls
	MaxRetries int `yaml:"max_retries"`

	// Token budgets
	ContentTokenBudget int `yaml:"content_token_budget"`
	SafeTokensPerChunk int `yaml:"safe_tokens_per_chunk"`

	// Section extraction
	MinSectionLength int `yaml:"min_section_length"`

	// Chunking defaults (characters)
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	// Anthropic
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`

	// Prompt set config file ({filing_type: {mode: template_path}}).
	// Empty means the built-in default prompt set.
	PromptSet string `yaml:"prompt_set"`

	// Serve command
	ServeAddr   string `yaml:"serve_addr"`
	ServeAPIKey string `yaml:"serve_api_key"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		CacheDir:           ".cache",
		CacheEnabled:       true,
		MaxRetries:         3,
		ContentTokenBudget: 190000,
		SafeTokensPerChunk: 50000,
		MinSectionLength:   50,
		ChunkSize:          2000,
		ChunkOverlap:       100,
		AnthropicModel:     "claude-3-haiku-20240307",
		ServeAddr:          ":8090",
	}
}

// Load reads the optional YAML config file at path, then applies
// environment-variable overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.AnthropicModel = envOr("ANTHROPIC_MODEL", cfg.AnthropicModel)
	cfg.CacheDir = envOr("DOCSUM_CACHE_DIR", cfg.CacheDir)
	cfg.PromptSet = envOr("DOCSUM_PROMPT_SET", cfg.PromptSet)
	cfg.ServeAddr = envOr("DOCSUM_SERVE_ADDR", cfg.ServeAddr)
	cfg.ServeAPIKey = envOr("DOCSUM_API_KEY", cfg.ServeAPIKey)
	cfg.MaxRetries = envInt("DOCSUM_MAX_RETRIES", cfg.MaxRetries)

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.ContentTokenBudget <= 0 {
		cfg.ContentTokenBudget = 190000
	}
	if cfg.SafeTokensPerChunk <= 0 {
		cfg.SafeTokensPerChunk = 50000
	}
	if cfg.MinSectionLength < 0 {
		cfg.MinSectionLength = 0
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 2000
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}

	return cfg, nil
}

// Validate checks options required for summarization runs.
func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if c.CacheEnabled && c.CacheDir == "" {
		return fmt.Errorf("cache_dir is required when caching is enabled")
	}
	return nil
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
