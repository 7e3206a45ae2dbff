package blobobs

import (
	"context"

	"aer-digest/internal/interfaces"
	"aer-digest/internal/logger"
	"aer-digest/internal/trace"
)

// observableStore wraps an ArtifactStore with observability (logging & tracing)
type observableStore struct {
	store interfaces.ArtifactStore
}

// Compile-time interface check
var _ interfaces.ArtifactStore = (*observableStore)(nil)

// Wrap wraps an artifact store with observability middleware
func Wrap(store interfaces.ArtifactStore) interfaces.ArtifactStore {
	return &observableStore{store: store}
}

func (os *observableStore) Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error {
	ctx, span := trace.StartSpan(ctx, "blob.Put")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Storing artifact", "key", key, "size", len(body))

	if err := os.store.Put(ctx, key, body, contentType, metadata); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to store artifact", err, "key", key)
		return err
	}

	logger.InfoSkip(ctx, 1, "Artifact stored", "key", key, "size", len(body))
	return nil
}

func (os *observableStore) Get(ctx context.Context, key string) ([]byte, map[string]string, error) {
	ctx, span := trace.StartSpan(ctx, "blob.Get")
	defer span.End()

	body, metadata, err := os.store.Get(ctx, key)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to read artifact", err, "key", key)
		return nil, nil, err
	}
	return body, metadata, nil
}

func (os *observableStore) Head(ctx context.Context, key string) (interfaces.ObjectInfo, bool, error) {
	ctx, span := trace.StartSpan(ctx, "blob.Head")
	defer span.End()

	info, ok, err := os.store.Head(ctx, key)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to stat artifact", err, "key", key)
		return interfaces.ObjectInfo{}, false, err
	}
	logger.DebugSkip(ctx, 1, "Artifact stat", "key", key, "exists", ok)
	return info, ok, nil
}

func (os *observableStore) Delete(ctx context.Context, key string) error {
	ctx, span := trace.StartSpan(ctx, "blob.Delete")
	defer span.End()

	if err := os.store.Delete(ctx, key); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to delete artifact", err, "key", key)
		return err
	}

	logger.InfoSkip(ctx, 1, "Artifact deleted", "key", key)
	return nil
}
