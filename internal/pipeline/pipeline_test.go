package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aer-digest/internal/fetch"
	"aer-digest/internal/interfaces"
	"aer-digest/internal/reportdate"
	"aer-digest/internal/store"
	"aer-digest/internal/types"
)

type fakeFetcher struct {
	status int
	body   []byte
	err    error
	urls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (int, []byte, error) {
	f.urls = append(f.urls, url)
	return f.status, f.body, f.err
}

type storedObject struct {
	body     []byte
	metadata map[string]string
}

type fakeStore struct {
	objects map[string]storedObject

	putErr    error
	deleteErr error

	puts    []string
	deletes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]storedObject)}
}

func (s *fakeStore) Put(_ context.Context, key string, body []byte, _ string, metadata map[string]string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.puts = append(s.puts, key)
	s.objects[key] = storedObject{body: body, metadata: metadata}
	return nil
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, map[string]string, error) {
	obj, ok := s.objects[key]
	if !ok {
		return nil, nil, errors.New("not found")
	}
	return obj.body, obj.metadata, nil
}

func (s *fakeStore) Head(_ context.Context, key string) (interfaces.ObjectInfo, bool, error) {
	obj, ok := s.objects[key]
	if !ok {
		return interfaces.ObjectInfo{}, false, nil
	}
	return interfaces.ObjectInfo{Key: key, Size: int64(len(obj.body)), Metadata: obj.metadata}, true, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes = append(s.deletes, key)
	delete(s.objects, key)
	return nil
}

type fakeSummarizer struct {
	summary string
	err     error
	prompts []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.summary, f.err
}

type fakeNotifier struct {
	err      error
	subjects []string
	bodies   []string
}

func (f *fakeNotifier) Send(_ context.Context, subject, body string) error {
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return f.err
}

func testConfig() *store.Config {
	cfg := &store.Config{ReportDate: "2025-03-11"}
	cfg.LLM.ExcerptLimit = 8000
	return cfg
}

func newTestPipeline(cfg *store.Config, f *fakeFetcher, s *fakeStore, sum *fakeSummarizer, n *fakeNotifier) *Pipeline {
	p := New(cfg, f, s, sum, n)
	// Fixed clock so tests are independent of wall time.
	p.now = func() time.Time {
		return time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)
	}
	return p
}

func TestRunSuccess(t *testing.T) {
	fetcher := &fakeFetcher{status: 200, body: []byte("WELL LICENCE DATA")}
	blobs := newFakeStore()
	summarizer := &fakeSummarizer{summary: "12 new well licences, mostly Montney."}
	notifier := &fakeNotifier{}

	p := newTestPipeline(testConfig(), fetcher, blobs, summarizer, notifier)
	result, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.NoError(t, err)

	assert.Equal(t, types.DatasetST1, result.Dataset)
	assert.Equal(t, "2025-03-11", result.Date)
	assert.Equal(t, types.StatusEmailedAndDeleted, result.Status)
	assert.Equal(t, "https://static.aer.ca/data/well-lic/WELLS0311.txt", result.URL)

	key := "2025/03/11/st1_20250311.txt"
	require.Equal(t, []string{key}, blobs.puts)
	require.Equal(t, []string{key}, blobs.deletes)
	assert.Empty(t, blobs.objects, "temporary object must not survive a successful run")

	require.Len(t, summarizer.prompts, 1)
	assert.Contains(t, summarizer.prompts[0], "WELL LICENCE DATA")
	assert.Contains(t, summarizer.prompts[0], "Dataset ST1 (2025-03-11):")

	require.Len(t, notifier.subjects, 1)
	assert.Equal(t, "AER ST1 summary – 2025-03-11", notifier.subjects[0])
	assert.Contains(t, notifier.bodies[0], "Daily AER Summary – 2025-03-11")
	assert.Contains(t, notifier.bodies[0], "Dataset: ST1")
	assert.Contains(t, notifier.bodies[0], summarizer.summary)
	assert.Contains(t, notifier.bodies[0], key)
}

func TestRunStoresChecksumMetadata(t *testing.T) {
	body := []byte("PIPELINE CONSTRUCTION NOTICES")
	fetcher := &fakeFetcher{status: 200, body: body}
	blobs := newFakeStore()
	blobs.deleteErr = errors.New("keep the object around for inspection")

	p := newTestPipeline(testConfig(), fetcher, blobs, &fakeSummarizer{summary: "ok"}, &fakeNotifier{})
	_, err := p.Run(context.Background(), types.Request{Dataset: "ST100"})
	require.Error(t, err)

	key := "2025/03/11/st100_20250311.txt"
	obj, ok := blobs.objects[key]
	require.True(t, ok)

	sum := sha256.Sum256(body)
	assert.Equal(t, hex.EncodeToString(sum[:]), obj.metadata["sha256"])
	assert.Equal(t, "https://static.aer.ca/prd/data/pipeconst/PIPE0311.txt", obj.metadata["source_url"])
	assert.Equal(t, "ST100", obj.metadata["dataset"])
}

func TestRunNotReady(t *testing.T) {
	fetcher := &fakeFetcher{status: 404}
	blobs := newFakeStore()
	summarizer := &fakeSummarizer{}
	notifier := &fakeNotifier{}

	p := newTestPipeline(testConfig(), fetcher, blobs, summarizer, notifier)
	result, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.NoError(t, err)

	assert.Equal(t, types.StatusNotReady, result.Status)
	assert.Equal(t, "2025-03-11", result.Date)
	assert.NotEmpty(t, result.URL)

	// 404 must be side-effect free.
	assert.Empty(t, blobs.puts)
	assert.Empty(t, blobs.deletes)
	assert.Empty(t, summarizer.prompts)
	assert.Empty(t, notifier.subjects)
}

func TestRunServerError(t *testing.T) {
	fetcher := &fakeFetcher{status: 500}
	p := newTestPipeline(testConfig(), fetcher, newFakeStore(), &fakeSummarizer{}, &fakeNotifier{})

	_, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.Error(t, err)

	var statusErr *fetch.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 500, statusErr.StatusCode)
}

func TestRunTransportError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	blobs := newFakeStore()

	p := newTestPipeline(testConfig(), fetcher, blobs, &fakeSummarizer{}, &fakeNotifier{})
	_, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.Error(t, err)
	assert.Empty(t, blobs.puts)
}

func TestRunUnknownDataset(t *testing.T) {
	p := newTestPipeline(testConfig(), &fakeFetcher{}, newFakeStore(), &fakeSummarizer{}, &fakeNotifier{})

	_, err := p.Run(context.Background(), types.Request{Dataset: "ST99"})
	require.ErrorIs(t, err, types.ErrUnknownDataset)
}

func TestRunBadDateOverride(t *testing.T) {
	cfg := testConfig()
	cfg.ReportDate = "03/11/2025"

	p := newTestPipeline(cfg, &fakeFetcher{status: 200, body: []byte("x")}, newFakeStore(), &fakeSummarizer{}, &fakeNotifier{})
	_, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.ErrorIs(t, err, reportdate.ErrBadOverride)
}

func TestRunResolvesDateFromClock(t *testing.T) {
	cfg := testConfig()
	cfg.ReportDate = ""

	fetcher := &fakeFetcher{status: 404}
	p := newTestPipeline(cfg, fetcher, newFakeStore(), &fakeSummarizer{}, &fakeNotifier{})
	// 2025-03-12 18:00 UTC is 12:00 in Edmonton (MDT), past the ST1 cutoff,
	// so the report date is Wednesday the 12th itself.
	result, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", result.Date)
	assert.Equal(t, []string{"https://static.aer.ca/data/well-lic/WELLS0312.txt"}, fetcher.urls)
}

func TestRunSkipsRestoreWhenChecksumMatches(t *testing.T) {
	body := []byte("WELL LICENCE DATA")
	sum := sha256.Sum256(body)

	fetcher := &fakeFetcher{status: 200, body: body}
	blobs := newFakeStore()
	key := "2025/03/11/st1_20250311.txt"
	blobs.objects[key] = storedObject{body: body, metadata: map[string]string{"sha256": hex.EncodeToString(sum[:])}}

	summarizer := &fakeSummarizer{summary: "ok"}
	notifier := &fakeNotifier{}

	p := newTestPipeline(testConfig(), fetcher, blobs, summarizer, notifier)
	result, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.NoError(t, err)

	assert.Empty(t, blobs.puts, "matching checksum must skip the re-store")
	assert.Equal(t, []string{key}, blobs.deletes)
	assert.Equal(t, types.StatusEmailedAndDeleted, result.Status)
	require.Len(t, notifier.subjects, 1)
}

func TestRunRestoresWhenContentChanged(t *testing.T) {
	fetcher := &fakeFetcher{status: 200, body: []byte("new content")}
	blobs := newFakeStore()
	key := "2025/03/11/st1_20250311.txt"
	blobs.objects[key] = storedObject{body: []byte("old content"), metadata: map[string]string{"sha256": "stale"}}

	p := newTestPipeline(testConfig(), fetcher, blobs, &fakeSummarizer{summary: "ok"}, &fakeNotifier{})
	_, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.NoError(t, err)
	assert.Equal(t, []string{key}, blobs.puts)
}

func TestRunSummarizeFailureDeletesObject(t *testing.T) {
	fetcher := &fakeFetcher{status: 200, body: []byte("data")}
	blobs := newFakeStore()
	summarizer := &fakeSummarizer{err: errors.New("model overloaded")}
	notifier := &fakeNotifier{}

	p := newTestPipeline(testConfig(), fetcher, blobs, summarizer, notifier)
	_, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.Error(t, err)

	assert.Equal(t, []string{"2025/03/11/st1_20250311.txt"}, blobs.deletes)
	assert.Empty(t, blobs.objects)
	assert.Empty(t, notifier.subjects)
}

func TestRunNotifyFailureDeletesObject(t *testing.T) {
	fetcher := &fakeFetcher{status: 200, body: []byte("data")}
	blobs := newFakeStore()
	notifier := &fakeNotifier{err: errors.New("webhook down")}

	p := newTestPipeline(testConfig(), fetcher, blobs, &fakeSummarizer{summary: "ok"}, notifier)
	_, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.Error(t, err)

	assert.Equal(t, []string{"2025/03/11/st1_20250311.txt"}, blobs.deletes)
	assert.Empty(t, blobs.objects)
}

func TestRunInvalidUTF8Degrades(t *testing.T) {
	fetcher := &fakeFetcher{status: 200, body: []byte{'W', 'E', 'L', 0xff, 0xfe, 'L', 'S'}}
	summarizer := &fakeSummarizer{summary: "ok"}

	p := newTestPipeline(testConfig(), fetcher, newFakeStore(), summarizer, &fakeNotifier{})
	_, err := p.Run(context.Background(), types.Request{Dataset: "ST1"})
	require.NoError(t, err)

	require.Len(t, summarizer.prompts, 1)
	assert.True(t, strings.Contains(summarizer.prompts[0], "�"), "invalid bytes should become replacement runes")
}
