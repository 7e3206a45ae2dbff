package interfaces

import "context"

// Summarizer turns a fully built prompt into summary text.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}
