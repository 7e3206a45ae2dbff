package interfaces

import "context"

// Fetcher retrieves a source artifact. A non-2xx status is returned as data,
// not an error; transport failures are errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (status int, body []byte, err error)
}
