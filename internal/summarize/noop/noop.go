package noop

import (
	"context"

	"aer-digest/internal/logger"
)

// NoopSummarizer is a fallback used when no LLM provider is configured
type NoopSummarizer struct{}

// NewNoopSummarizer returns an instance that echoes a placeholder summary
func NewNoopSummarizer() *NoopSummarizer {
	return &NoopSummarizer{}
}

// Summarize implements the Summarizer interface without calling any service
func (s *NoopSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	logger.Debug(ctx, "Noop summarizer called - returning placeholder", "prompt_bytes", len(prompt))
	return "(summarization disabled: no LLM provider configured)", nil
}
