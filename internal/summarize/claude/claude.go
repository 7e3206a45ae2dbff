package claude

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

// ClaudeSummarizer produces summaries via the Anthropic messages API
type ClaudeSummarizer struct {
	cfg      *store.Config
	endpoint string
	client   *api.Client
}

// NewClaudeSummarizer creates a new Claude-based summarizer
func NewClaudeSummarizer(cfg *store.Config) *ClaudeSummarizer {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeSummarizer{
		cfg:      cfg,
		endpoint: endpoint,
		client:   api.NewClient(),
	}
}

// Summarize sends the prompt to Claude and returns the summary text
func (s *ClaudeSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return "", errors.New("CLAUDE_API_KEY missing")
	}

	reqBody := map[string]any{
		"model":       s.cfg.LLM.Model,
		"max_tokens":  s.cfg.LLM.MaxTokens,
		"temperature": s.cfg.LLM.Temperature,
		"messages": []map[string]any{
			{"role": "user", "content": []map[string]string{{"type": "text", "text": prompt}}},
		},
	}

	resp, err := s.client.POST(ctx, s.endpoint, reqBody, map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", fmt.Errorf("claude request: %w", err)
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}

	for _, block := range r.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("claude response contained no text block")
}
