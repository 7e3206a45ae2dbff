// Package pipeline orchestrates one digest invocation: resolve the report
// date, fetch the file, store it transiently, summarize, notify, delete.
package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"aer-digest/internal/fetch"
	"aer-digest/internal/interfaces"
	"aer-digest/internal/logger"
	"aer-digest/internal/metrics"
	"aer-digest/internal/reportdate"
	"aer-digest/internal/source"
	"aer-digest/internal/store"
	"aer-digest/internal/summarize"
	"aer-digest/internal/trace"
	"aer-digest/internal/types"
)

// Pipeline runs digest invocations against injected collaborators. All
// external services come in through the constructor so tests can substitute
// fakes.
type Pipeline struct {
	cfg        *store.Config
	fetcher    interfaces.Fetcher
	blobs      interfaces.ArtifactStore
	summarizer interfaces.Summarizer
	notifier   interfaces.Notifier
	now        func() time.Time
}

// New builds a pipeline. No retries are attempted anywhere: a failing stage
// aborts the invocation and the invoker applies its own retry policy.
func New(cfg *store.Config, fetcher interfaces.Fetcher, blobs interfaces.ArtifactStore, summarizer interfaces.Summarizer, notifier interfaces.Notifier) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		fetcher:    fetcher,
		blobs:      blobs,
		summarizer: summarizer,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Run executes a single invocation for the requested dataset.
func (p *Pipeline) Run(ctx context.Context, req types.Request) (types.Result, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	dataset, err := types.ParseDataset(req.Dataset)
	if err != nil {
		return types.Result{}, err
	}

	day, err := reportdate.Resolve(dataset, p.now(), p.cfg.ReportDate)
	if err != nil {
		return types.Result{}, err
	}
	date := day.Format("2006-01-02")

	url, err := source.URL(dataset, day)
	if err != nil {
		return types.Result{}, err
	}

	result, err := p.run(ctx, dataset, day, date, url)
	if err != nil {
		metrics.IncInvocationError(string(dataset))
		return types.Result{}, err
	}
	metrics.IncInvocation(string(dataset), string(result.Status))
	logger.Invocation(ctx, string(dataset), date, string(result.Status), url)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, dataset types.Dataset, day time.Time, date, url string) (types.Result, error) {
	fetchStart := time.Now()
	status, content, err := p.fetcher.Fetch(ctx, url)
	metrics.ObserveStage(metrics.StageFetch, err, time.Since(fetchStart))
	if err != nil {
		return types.Result{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	if status == http.StatusNotFound {
		// Not an error: the report simply is not published yet.
		logger.Info(ctx, "Report not yet published", "dataset", dataset, "date", date, "url", url)
		return types.Result{Dataset: dataset, Date: date, Status: types.StatusNotReady, URL: url}, nil
	}
	if status >= 400 {
		return types.Result{}, &fetch.StatusError{URL: url, StatusCode: status}
	}

	sum := sha256.Sum256(content)
	sha := hex.EncodeToString(sum[:])

	key, err := source.Key(day, dataset)
	if err != nil {
		return types.Result{}, err
	}

	if err := p.storeArtifact(ctx, key, url, sha, dataset, content); err != nil {
		return types.Result{}, err
	}

	// From here the temporary object exists; clean it up on every exit path.
	if err := p.summarizeAndNotify(ctx, dataset, day, date, key, content); err != nil {
		p.compensate(ctx, key)
		return types.Result{}, err
	}

	deleteStart := time.Now()
	err = p.blobs.Delete(ctx, key)
	metrics.ObserveStage(metrics.StageDelete, err, time.Since(deleteStart))
	if err != nil {
		return types.Result{}, fmt.Errorf("delete temporary object %s: %w", key, err)
	}

	return types.Result{Dataset: dataset, Date: date, Status: types.StatusEmailedAndDeleted, URL: url}, nil
}

// storeArtifact writes the fetched content, unless an object with the same
// checksum is already present (a concurrent or earlier invocation got there
// first).
func (p *Pipeline) storeArtifact(ctx context.Context, key, url, sha string, dataset types.Dataset, content []byte) error {
	info, ok, err := p.blobs.Head(ctx, key)
	if err != nil {
		return fmt.Errorf("stat existing object %s: %w", key, err)
	}
	if ok && info.Metadata["sha256"] == sha {
		logger.Info(ctx, "Stored object unchanged, skipping re-store", "key", key, "sha256", sha)
		return nil
	}

	storeStart := time.Now()
	err = p.blobs.Put(ctx, key, content, "text/plain", map[string]string{
		"source_url": url,
		"sha256":     sha,
		"dataset":    string(dataset),
	})
	metrics.ObserveStage(metrics.StageStore, err, time.Since(storeStart))
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (p *Pipeline) summarizeAndNotify(ctx context.Context, dataset types.Dataset, day time.Time, date, key string, content []byte) error {
	// Invalid byte sequences degrade to replacement runes. This is the only
	// soft-failure path in the pipeline.
	text := string(bytes.ToValidUTF8(content, []byte("�")))

	prompt := summarize.BuildPrompt(day, []summarize.Item{
		{Dataset: dataset, Excerpt: text},
	}, p.cfg.LLM.ExcerptLimit)

	summarizeStart := time.Now()
	summary, err := p.summarizer.Summarize(ctx, prompt)
	metrics.ObserveStage(metrics.StageSummarize, err, time.Since(summarizeStart))
	if err != nil {
		return fmt.Errorf("summarize %s: %w", dataset, err)
	}

	subject := fmt.Sprintf("AER %s summary – %s", dataset, date)
	body := fmt.Sprintf("Daily AER Summary – %s\nDataset: %s\n\n%s\n\nSource (temporary storage key): %s",
		date, dataset, summary, key)

	notifyStart := time.Now()
	err = p.notifier.Send(ctx, subject, body)
	metrics.ObserveStage(metrics.StageNotify, err, time.Since(notifyStart))
	if err != nil {
		return fmt.Errorf("notify %s: %w", dataset, err)
	}
	return nil
}

// compensate removes the temporary object after a downstream failure so a
// failed invocation does not leak storage. Best effort: the original error
// is the one that propagates.
func (p *Pipeline) compensate(ctx context.Context, key string) {
	if err := p.blobs.Delete(ctx, key); err != nil {
		logger.Warn(ctx, "Failed to delete temporary object after error", "key", key, "error", err)
	}
}
