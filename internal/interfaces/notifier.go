package interfaces

import "context"

// Notifier delivers a plain-text message to the configured channel.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}
