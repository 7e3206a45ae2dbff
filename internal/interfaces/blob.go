package interfaces

import "context"

// ObjectInfo describes a stored artifact without its body.
type ObjectInfo struct {
	Key      string
	Size     int64
	Metadata map[string]string
}

// ArtifactStore is the transient blob store the pipeline parks raw report
// files in between fetch and delivery.
type ArtifactStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error
	Get(ctx context.Context, key string) ([]byte, map[string]string, error)
	Head(ctx context.Context, key string) (ObjectInfo, bool, error)
	Delete(ctx context.Context, key string) error
}
