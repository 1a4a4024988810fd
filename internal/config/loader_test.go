package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sql2erd.yaml")

	configContent := `
input:
  extension: .tsql

output:
  path: build/erd
  format: svg
  keep_source: true

render:
  engine: /opt/graphviz/bin/dot

strict:
  reject_duplicates: true

logging:
  level: debug
  format: json
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Input.Extension != ".tsql" {
		t.Errorf("expected extension '.tsql', got %q", cfg.Input.Extension)
	}
	if cfg.Output.Path != "build/erd" {
		t.Errorf("expected output path 'build/erd', got %q", cfg.Output.Path)
	}
	if cfg.Output.Format != "svg" {
		t.Errorf("expected format 'svg', got %q", cfg.Output.Format)
	}
	if !cfg.Output.KeepSource {
		t.Error("expected keep_source true")
	}
	if cfg.Render.Engine != "/opt/graphviz/bin/dot" {
		t.Errorf("expected engine path, got %q", cfg.Render.Engine)
	}
	if !cfg.Strict.RejectDuplicates {
		t.Error("expected reject_duplicates true")
	}
	if cfg.Strict.RejectDangling {
		t.Error("expected reject_dangling to keep its default")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" || cfg.Logging.Output != "stdout" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  format: png\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Output.Format != "png" {
		t.Errorf("expected format 'png', got %q", cfg.Output.Format)
	}
	if cfg.Output.Path != "erd" {
		t.Errorf("expected default path 'erd', got %q", cfg.Output.Path)
	}
	if cfg.Input.Extension != ".sql" {
		t.Errorf("expected default extension '.sql', got %q", cfg.Input.Extension)
	}
	if cfg.Render.Engine != "dot" {
		t.Errorf("expected default engine 'dot', got %q", cfg.Render.Engine)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != "pdf" {
		t.Errorf("expected default format, got %q", cfg.Output.Format)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("output: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvVarSubstitution(t *testing.T) {
	t.Setenv("SQL2ERD_TEST_OUT", "/tmp/diagrams")
	t.Setenv("SQL2ERD_TEST_ENGINE", "neato")

	configPath := filepath.Join(t.TempDir(), "env.yaml")
	content := `
output:
  path: ${SQL2ERD_TEST_OUT}/erd
render:
  engine: $SQL2ERD_TEST_ENGINE
logging:
  output: ${SQL2ERD_TEST_UNSET}
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Output.Path != "/tmp/diagrams/erd" {
		t.Errorf("expected substituted path, got %q", cfg.Output.Path)
	}
	if cfg.Render.Engine != "neato" {
		t.Errorf("expected substituted engine, got %q", cfg.Render.Engine)
	}
	if cfg.Logging.Output != "${SQL2ERD_TEST_UNSET}" {
		t.Errorf("expected unset variable to be kept, got %q", cfg.Logging.Output)
	}
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.Set("output.format", "svg")
	v.Set("strict.reject_dangling", true)

	cfg, err := LoadFromViper(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Output.Format != "svg" {
		t.Errorf("expected format 'svg', got %q", cfg.Output.Format)
	}
	if !cfg.Strict.RejectDangling {
		t.Error("expected reject_dangling true")
	}
	if cfg.Output.Path != "erd" {
		t.Errorf("expected default path, got %q", cfg.Output.Path)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("SQL2ERD_TEST_A", "alpha")

	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"${SQL2ERD_TEST_A}", "alpha"},
		{"$SQL2ERD_TEST_A/x", "alpha/x"},
		{"pre-${SQL2ERD_TEST_A}-post", "pre-alpha-post"},
		{"${SQL2ERD_TEST_NOPE}", "${SQL2ERD_TEST_NOPE}"},
	}

	for _, tt := range tests {
		if got := expandEnvVar(tt.input); got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
