package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"aer-digest/internal/api"
	"aer-digest/internal/store"
	"aer-digest/internal/trace"
)

type OpenAISummarizer struct {
	cfg    *store.Config
	client *api.Client
}

func NewOpenAISummarizer(cfg *store.Config) *OpenAISummarizer {
	return &OpenAISummarizer{cfg: cfg, client: api.NewClient()}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model":       s.cfg.LLM.Model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"temperature": s.cfg.LLM.Temperature,
		"max_tokens":  s.cfg.LLM.MaxTokens,
	}

	resp, err := s.client.POST(ctx, "https://api.openai.com/v1/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}

	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	out := strings.TrimSpace(r.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("empty completion")
	}
	return out, nil
}
