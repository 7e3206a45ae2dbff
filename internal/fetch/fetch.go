// Package fetch retrieves raw report files from the AER static endpoints.
package fetch

import (
	"context"
	"fmt"
	"time"

	"aer-digest/internal/api"
	"aer-digest/internal/trace"
)

// Client downloads source artifacts. Statuses come back as data so the
// pipeline can treat 404 as "not yet published" rather than a failure.
type Client struct {
	api *api.Client
}

// New creates a fetch client with the given timeout.
func New(timeout time.Duration) *Client {
	return &Client{
		api: api.NewClient(
			api.WithTimeout(timeout),
			api.WithLogging(true),
		),
	}
}

// Fetch performs a single GET of url. Transport failures are errors; any
// HTTP status is returned to the caller. No retries: the invoker owns
// retry/backoff policy.
func (c *Client) Fetch(ctx context.Context, url string) (int, []byte, error) {
	ctx, span := trace.StartSpan(ctx, "source-fetch")
	defer span.End()

	resp, err := c.api.GetRaw(ctx, url)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, resp.Body, nil
}

// StatusError reports a non-404 failure status from the source.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to download %s: status=%d", e.URL, e.StatusCode)
}
