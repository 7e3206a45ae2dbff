// Package webhook delivers notifications as a JSON POST to a channel URL.
package webhook

import (
	"context"
	"fmt"
	"time"

	"aer-digest/internal/api"
	"aer-digest/internal/trace"
)

// Notifier posts {subject, message} payloads to a webhook endpoint.
type Notifier struct {
	target string
	client *api.Client
}

type payload struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// New creates a webhook notifier for the given channel URL.
func New(target string) *Notifier {
	return &Notifier{
		target: target,
		client: api.NewClient(
			api.WithTimeout(30*time.Second),
			api.WithLogging(true),
		),
	}
}

// Send delivers one notification. Failures propagate unmodified; the
// invocation owns the consequences.
func (n *Notifier) Send(ctx context.Context, subject, body string) error {
	ctx, span := trace.StartSpan(ctx, "webhook-notify")
	defer span.End()

	if _, err := n.client.POST(ctx, n.target, payload{Subject: subject, Message: body}); err != nil {
		return fmt.Errorf("webhook delivery: %w", err)
	}
	return nil
}
