package notifyobs

import (
	"context"

	"aer-digest/internal/interfaces"
	"aer-digest/internal/logger"
	"aer-digest/internal/trace"
)

// observableNotifier wraps a Notifier with observability (logging & tracing)
type observableNotifier struct {
	notifier interfaces.Notifier
	channel  string
}

// Compile-time interface check
var _ interfaces.Notifier = (*observableNotifier)(nil)

// Wrap wraps a notifier with observability middleware. The channel label is
// only used for logging.
func Wrap(notifier interfaces.Notifier, channel string) interfaces.Notifier {
	return &observableNotifier{notifier: notifier, channel: channel}
}

// Send delivers a notification with observability
func (on *observableNotifier) Send(ctx context.Context, subject, body string) error {
	ctx, span := trace.StartSpan(ctx, "notify.Send")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Sending notification", "channel", on.channel, "subject", subject)

	if err := on.notifier.Send(ctx, subject, body); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to send notification", err, "channel", on.channel, "subject", subject)
		return err
	}

	logger.Delivery(ctx, on.channel, subject, "body_bytes", len(body))
	return nil
}
