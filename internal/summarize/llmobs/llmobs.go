package llmobs

import (
	"context"

	"aer-digest/internal/interfaces"
	"aer-digest/internal/logger"
	"aer-digest/internal/trace"
)

// observableSummarizer wraps a Summarizer with observability (logging & tracing)
type observableSummarizer struct {
	summarizer interfaces.Summarizer
}

// Compile-time interface check
var _ interfaces.Summarizer = (*observableSummarizer)(nil)

// Wrap wraps a summarizer with observability middleware
func Wrap(summarizer interfaces.Summarizer) interfaces.Summarizer {
	return &observableSummarizer{summarizer: summarizer}
}

// Summarize produces a summary with observability
func (os *observableSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Summarize")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting summary", "prompt_bytes", len(prompt))

	summary, err := os.summarizer.Summarize(ctx, prompt)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to produce summary", err, "prompt_bytes", len(prompt))
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Summary produced", "summary_bytes", len(summary))
	return summary, nil
}
