package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.CacheDir != ".cache" || !cfg.CacheEnabled {
		t.Errorf("unexpected cache defaults: %+v", cfg)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.MaxRetries)
	}
	if cfg.ContentTokenBudget != 190000 || cfg.SafeTokensPerChunk != 50000 {
		t.Errorf("unexpected token budgets: %+v", cfg)
	}
	if cfg.AnthropicModel == "" {
		t.Error("expected a default model")
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "cache_dir: /tmp/custom-cache\nmax_retries: 5\nmin_section_length: 100\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheDir != "/tmp/custom-cache" {
		t.Errorf("expected yaml cache_dir, got %q", cfg.CacheDir)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("expected yaml max_retries, got %d", cfg.MaxRetries)
	}
	if cfg.MinSectionLength != 100 {
		t.Errorf("expected yaml min_section_length, got %d", cfg.MinSectionLength)
	}
	// Untouched keys keep their defaults.
	if cfg.ContentTokenBudget != 190000 {
		t.Errorf("expected default token budget, got %d", cfg.ContentTokenBudget)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("anthropic_model: from-yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ANTHROPIC_MODEL", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AnthropicModel != "from-env" {
		t.Errorf("expected env override, got %q", cfg.AnthropicModel)
	}
}

func TestLoad_ExpandsEnvVarsInYAML(t *testing.T) {
	t.Setenv("TEST_DOCSUM_KEY", "secret-value")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("serve_api_key: ${TEST_DOCSUM_KEY}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServeAPIKey != "secret-value" {
		t.Errorf("expected ${VAR} expansion, got %q", cfg.ServeAPIKey)
	}
}

func TestLoad_ClampsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("max_retries: -2\nchunk_size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("expected negative retries clamped to 0, got %d", cfg.MaxRetries)
	}
	if cfg.ChunkSize != 2000 {
		t.Errorf("expected zero chunk size reset to default, got %d", cfg.ChunkSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without api key")
	}

	cfg.AnthropicAPIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.CacheDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for enabled cache without directory")
	}
}
