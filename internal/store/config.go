package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration. The yaml file carries the ambient
// knobs; the required service identifiers come from the environment and are
// validated once at startup.
type Config struct {
	// RawBucket is the transient storage bucket/namespace. Env: RAW_BUCKET.
	RawBucket string `yaml:"raw_bucket"`
	// ReportDate optionally pins the report date ("YYYY-MM-DD"), bypassing
	// all resolution rules. Env: REPORT_DATE.
	ReportDate string `yaml:"report_date"`

	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`

	Storage struct {
		Backend     string `yaml:"backend"` // FS or POSTGRES
		Root        string `yaml:"root"`
		DatabaseURL string `yaml:"database_url"` // env: DATABASE_URL
	} `yaml:"storage"`

	Notify struct {
		Provider string `yaml:"provider"` // WEBHOOK or STDOUT
		// Target is the delivery channel identifier (webhook URL).
		// Env: NOTIFY_TARGET.
		Target string `yaml:"target"`
	} `yaml:"notify"`

	LLM struct {
		Provider string `yaml:"provider"` // CLAUDE, OPENAI, GEMINI or NOOP
		// Model is the summarization model identifier. Env: MODEL_ID.
		Model        string  `yaml:"model"`
		MaxTokens    int     `yaml:"max_tokens"`
		Temperature  float32 `yaml:"temperature"`
		ExcerptLimit int     `yaml:"excerpt_limit"`
	} `yaml:"llm"`

	Serve struct {
		Listen string `yaml:"listen"`
	} `yaml:"serve"`
}

func (c *Config) Validate() error {
	if c.RawBucket == "" {
		return errors.New("raw_bucket is required (set RAW_BUCKET)")
	}
	if c.Notify.Target == "" && c.Notify.Provider != "STDOUT" {
		return errors.New("notify.target is required (set NOTIFY_TARGET)")
	}
	if c.LLM.Model == "" && c.LLM.Provider != "NOOP" {
		return errors.New("llm.model is required (set MODEL_ID)")
	}
	switch c.Storage.Backend {
	case "FS", "POSTGRES":
	default:
		return fmt.Errorf("invalid storage.backend '%s': must be 'FS' or 'POSTGRES'", c.Storage.Backend)
	}
	if c.Storage.Backend == "POSTGRES" && c.Storage.DatabaseURL == "" {
		return errors.New("storage.database_url is required for the POSTGRES backend (set DATABASE_URL)")
	}
	switch c.Notify.Provider {
	case "WEBHOOK", "STDOUT":
	default:
		return fmt.Errorf("invalid notify.provider '%s': must be 'WEBHOOK' or 'STDOUT'", c.Notify.Provider)
	}
	switch c.LLM.Provider {
	case "CLAUDE", "OPENAI", "GEMINI", "NOOP":
	default:
		return fmt.Errorf("invalid llm.provider '%s': must be 'CLAUDE', 'OPENAI', 'GEMINI' or 'NOOP'", c.LLM.Provider)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive, got %d", c.FetchTimeoutSeconds)
	}
	return nil
}

// LoadConfig reads the yaml file at path (optional: defaults apply when the
// file is absent), overlays environment variables, and validates. Any
// validation failure is fatal to the caller.
func LoadConfig(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	applyDefaults(&c)
	applyEnv(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.FetchTimeoutSeconds == 0 {
		c.FetchTimeoutSeconds = 60
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "FS"
	}
	if c.Storage.Root == "" {
		c.Storage.Root = "data"
	}
	if c.Notify.Provider == "" {
		c.Notify.Provider = "WEBHOOK"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "CLAUDE"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 700
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.ExcerptLimit == 0 {
		c.LLM.ExcerptLimit = 8000
	}
	if c.Serve.Listen == "" {
		c.Serve.Listen = ":8080"
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv("RAW_BUCKET"); v != "" {
		c.RawBucket = v
	}
	if v := os.Getenv("NOTIFY_TARGET"); v != "" {
		c.Notify.Target = v
	}
	if v := os.Getenv("MODEL_ID"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DatabaseURL = v
	}
	if v := os.Getenv("REPORT_DATE"); v != "" {
		c.ReportDate = v
	}
}
