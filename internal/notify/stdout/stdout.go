// Package stdout prints notifications instead of delivering them. Used for
// local runs where no channel is configured.
package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
)

type Notifier struct {
	w io.Writer
}

func New() *Notifier {
	return &Notifier{w: os.Stdout}
}

// NewWithWriter is used by tests to capture output.
func NewWithWriter(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) Send(ctx context.Context, subject, body string) error {
	_, err := fmt.Fprintf(n.w, "=== %s ===\n%s\n", subject, body)
	return err
}
