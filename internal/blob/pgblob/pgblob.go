// Package pgblob is a Postgres-backed artifact store. Artifacts are small
// daily text files, so a bytea column with JSON metadata is sufficient.
package pgblob

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"aer-digest/internal/interfaces"
)

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
    bucket       text        NOT NULL,
    key          text        NOT NULL,
    body         bytea       NOT NULL,
    content_type text        NOT NULL DEFAULT 'application/octet-stream',
    metadata     jsonb       NOT NULL DEFAULT '{}'::jsonb,
    created_at   timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (bucket, key)
)`

// Store implements interfaces.ArtifactStore over Postgres.
type Store struct {
	db     *sql.DB
	bucket string
}

// Open connects to Postgres, ensures the artifacts table exists, and returns
// a store scoped to bucket.
func Open(ctx context.Context, databaseURL, bucket string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure artifacts table: %w", err)
	}
	return &Store{db: db, bucket: bucket}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error {
	meta, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO artifacts (bucket, key, body, content_type, metadata)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (bucket, key) DO UPDATE
		SET body = EXCLUDED.body,
		    content_type = EXCLUDED.content_type,
		    metadata = EXCLUDED.metadata,
		    created_at = now()`,
		s.bucket, key, body, contentType, meta)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, map[string]string, error) {
	var body []byte
	var meta []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body, metadata FROM artifacts WHERE bucket = $1 AND key = $2`,
		s.bucket, key).Scan(&body, &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("get %s: %w", key, err)
	}
	var metadata map[string]string
	if err := json.Unmarshal(meta, &metadata); err != nil {
		return nil, nil, fmt.Errorf("get %s: decode metadata: %w", key, err)
	}
	return body, metadata, nil
}

func (s *Store) Head(ctx context.Context, key string) (interfaces.ObjectInfo, bool, error) {
	var size int64
	var meta []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT octet_length(body), metadata FROM artifacts WHERE bucket = $1 AND key = $2`,
		s.bucket, key).Scan(&size, &meta)
	if errors.Is(err, sql.ErrNoRows) {
		return interfaces.ObjectInfo{}, false, nil
	}
	if err != nil {
		return interfaces.ObjectInfo{}, false, fmt.Errorf("head %s: %w", key, err)
	}
	var metadata map[string]string
	if err := json.Unmarshal(meta, &metadata); err != nil {
		return interfaces.ObjectInfo{}, false, fmt.Errorf("head %s: decode metadata: %w", key, err)
	}
	return interfaces.ObjectInfo{Key: key, Size: size, Metadata: metadata}, true, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM artifacts WHERE bucket = $1 AND key = $2`,
		s.bucket, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
