package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
raw_bucket: aer-raw
notify:
  target: https://hooks.example.com/digest
llm:
  model: claude-sonnet
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.FetchTimeoutSeconds != 60 {
		t.Errorf("FetchTimeoutSeconds = %d, want 60", cfg.FetchTimeoutSeconds)
	}
	if cfg.Storage.Backend != "FS" {
		t.Errorf("Storage.Backend = %q, want FS", cfg.Storage.Backend)
	}
	if cfg.LLM.MaxTokens != 700 {
		t.Errorf("LLM.MaxTokens = %d, want 700", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.ExcerptLimit != 8000 {
		t.Errorf("LLM.ExcerptLimit = %d, want 8000", cfg.LLM.ExcerptLimit)
	}
}

func TestLoadConfigRequiresBucket(t *testing.T) {
	path := writeConfig(t, `
notify:
  target: https://hooks.example.com/digest
llm:
  model: claude-sonnet
`)

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "raw_bucket") {
		t.Fatalf("err = %v, want raw_bucket validation failure", err)
	}
}

func TestLoadConfigRequiresModel(t *testing.T) {
	path := writeConfig(t, `
raw_bucket: aer-raw
notify:
  target: https://hooks.example.com/digest
llm:
  provider: OPENAI
`)

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "llm.model") {
		t.Fatalf("err = %v, want llm.model validation failure", err)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
raw_bucket: from-file
notify:
  target: https://hooks.example.com/digest
llm:
  model: from-file
`)

	t.Setenv("RAW_BUCKET", "from-env")
	t.Setenv("MODEL_ID", "model-from-env")
	t.Setenv("REPORT_DATE", "2024-03-15")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RawBucket != "from-env" {
		t.Errorf("RawBucket = %q, want from-env", cfg.RawBucket)
	}
	if cfg.LLM.Model != "model-from-env" {
		t.Errorf("LLM.Model = %q, want model-from-env", cfg.LLM.Model)
	}
	if cfg.ReportDate != "2024-03-15" {
		t.Errorf("ReportDate = %q, want 2024-03-15", cfg.ReportDate)
	}
}

func TestLoadConfigRejectsBadBackend(t *testing.T) {
	path := writeConfig(t, `
raw_bucket: aer-raw
storage:
  backend: S3
notify:
  target: https://hooks.example.com/digest
llm:
  model: claude-sonnet
`)

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "storage.backend") {
		t.Fatalf("err = %v, want storage.backend validation failure", err)
	}
}

func TestLoadConfigPostgresNeedsURL(t *testing.T) {
	path := writeConfig(t, `
raw_bucket: aer-raw
storage:
  backend: POSTGRES
notify:
  target: https://hooks.example.com/digest
llm:
  model: claude-sonnet
`)

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "database_url") {
		t.Fatalf("err = %v, want database_url validation failure", err)
	}
}
