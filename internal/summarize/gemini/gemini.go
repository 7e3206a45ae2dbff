package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"aer-digest/internal/store"
	"aer-digest/internal/trace"
)

// GeminiSummarizer produces summaries using Google's Gemini API.
type GeminiSummarizer struct {
	client *genai.Client
	cfg    *store.Config
}

// NewGeminiSummarizer creates a Gemini-backed summarizer.
func NewGeminiSummarizer(ctx context.Context, cfg *store.Config) (*GeminiSummarizer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY missing")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiSummarizer{client: client, cfg: cfg}, nil
}

// Summarize sends the prompt to Gemini and returns the summary text.
func (s *GeminiSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	temperature := s.cfg.LLM.Temperature
	result, err := s.client.Models.GenerateContent(ctx, s.cfg.LLM.Model, contents, &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(s.cfg.LLM.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("gemini response contained no text")
	}
	return text, nil
}
