// Package fsblob is a filesystem-backed artifact store for local operation.
// Objects live under <root>/<bucket>/<key>, metadata in a JSON sidecar.
package fsblob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aer-digest/internal/interfaces"
)

const sidecarSuffix = ".meta.json"

// Store implements interfaces.ArtifactStore over a local directory.
type Store struct {
	dir string
}

type sidecar struct {
	ContentType string            `json:"content_type"`
	Metadata    map[string]string `json:"metadata"`
}

// New creates a filesystem store rooted at root/bucket.
func New(root, bucket string) *Store {
	return &Store{dir: filepath.Join(root, bucket)}
}

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(key)), nil
}

func (s *Store) Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	meta, err := json.Marshal(sidecar{ContentType: contentType, Metadata: metadata})
	if err != nil {
		return err
	}
	return os.WriteFile(path+sidecarSuffix, meta, 0o644)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, map[string]string, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, nil, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	meta, err := readSidecar(path)
	if err != nil {
		return nil, nil, err
	}
	return body, meta.Metadata, nil
}

func (s *Store) Head(ctx context.Context, key string) (interfaces.ObjectInfo, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return interfaces.ObjectInfo{}, false, err
	}
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return interfaces.ObjectInfo{}, false, nil
	}
	if err != nil {
		return interfaces.ObjectInfo{}, false, err
	}
	meta, err := readSidecar(path)
	if err != nil {
		return interfaces.ObjectInfo{}, false, err
	}
	return interfaces.ObjectInfo{
		Key:      key,
		Size:     fi.Size(),
		Metadata: meta.Metadata,
	}, true, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	// Sidecar may be missing for objects written by other tools.
	if err := os.Remove(path + sidecarSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func readSidecar(path string) (sidecar, error) {
	var meta sidecar
	b, err := os.ReadFile(path + sidecarSuffix)
	if errors.Is(err, os.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return meta, err
	}
	return meta, nil
}
