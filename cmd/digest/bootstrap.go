package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"aer-digest/internal/blob/blobobs"
	"aer-digest/internal/blob/fsblob"
	"aer-digest/internal/blob/pgblob"
	"aer-digest/internal/fetch"
	"aer-digest/internal/interfaces"
	"aer-digest/internal/logger"
	"aer-digest/internal/metrics"
	"aer-digest/internal/notify/notifyobs"
	"aer-digest/internal/notify/stdout"
	"aer-digest/internal/notify/webhook"
	"aer-digest/internal/pipeline"
	"aer-digest/internal/store"
	"aer-digest/internal/summarize/claude"
	"aer-digest/internal/summarize/gemini"
	"aer-digest/internal/summarize/llmobs"
	"aer-digest/internal/summarize/noop"
	"aer-digest/internal/summarize/openai"
	"aer-digest/internal/trace"
)

// initializeSystem initializes logger, tracer, and metrics
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	// Register metrics with the default registry
	metrics.Init()

	return nil
}

// shutdownObservability flushes the tracer before exit
func shutdownObservability() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = trace.Shutdown(ctx)
	_ = logger.Shutdown(ctx)
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeStore initializes the artifact store backend with observability.
// The returned cleanup closes backend connections.
func initializeStore(ctx context.Context, cfg *store.Config) (interfaces.ArtifactStore, func(), error) {
	switch cfg.Storage.Backend {
	case "POSTGRES":
		pg, err := pgblob.Open(ctx, cfg.Storage.DatabaseURL, cfg.RawBucket)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres artifact store: %w", err)
		}
		logger.Info(ctx, "Using Postgres artifact store", "bucket", cfg.RawBucket)
		return blobobs.Wrap(pg), func() { _ = pg.Close() }, nil

	default:
		fs := fsblob.New(cfg.Storage.Root, cfg.RawBucket)
		logger.Info(ctx, "Using filesystem artifact store", "root", cfg.Storage.Root, "bucket", cfg.RawBucket)
		return blobobs.Wrap(fs), func() {}, nil
	}
}

// initializeSummarizer initializes the LLM summarizer with observability
func initializeSummarizer(ctx context.Context, cfg *store.Config) (interfaces.Summarizer, error) {
	var summarizer interfaces.Summarizer

	switch cfg.LLM.Provider {
	case "OPENAI":
		summarizer = openai.NewOpenAISummarizer(cfg)
	case "CLAUDE":
		summarizer = claude.NewClaudeSummarizer(cfg)
	case "GEMINI":
		g, err := gemini.NewGeminiSummarizer(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("initialize gemini summarizer: %w", err)
		}
		summarizer = g
	default:
		summarizer = noop.NewNoopSummarizer()
		logger.Warn(ctx, "No LLM provider configured - summaries will be placeholders")
	}

	// Wrap with observability middleware
	return llmobs.Wrap(summarizer), nil
}

// initializeNotifier initializes the notification channel with observability
func initializeNotifier(ctx context.Context, cfg *store.Config) interfaces.Notifier {
	var notifier interfaces.Notifier
	channel := "stdout"

	switch cfg.Notify.Provider {
	case "WEBHOOK":
		notifier = webhook.New(cfg.Notify.Target)
		channel = "webhook"
	default:
		notifier = stdout.New()
		logger.Warn(ctx, "No delivery channel configured - printing notifications to stdout")
	}

	// Wrap with observability middleware
	return notifyobs.Wrap(notifier, channel)
}

// buildPipeline wires all collaborators into a pipeline. The returned cleanup
// releases backend resources.
func buildPipeline(ctx context.Context, cfg *store.Config) (*pipeline.Pipeline, func(), error) {
	blobs, cleanup, err := initializeStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	summarizer, err := initializeSummarizer(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	fetcher := fetch.New(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)
	notifier := initializeNotifier(ctx, cfg)

	return pipeline.New(cfg, fetcher, blobs, summarizer, notifier), cleanup, nil
}
