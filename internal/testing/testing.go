// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/faustok/internal/models"
)

// MockResolver is a test double for [services.Resolver]
type MockResolver struct {
	Media *models.ResolvedMedia
	Err   error

	mu    sync.Mutex
	calls []string
}

func (m *MockResolver) Resolve(ctx context.Context, sourceURL string, kind models.MediaKind) (*models.ResolvedMedia, error) {
	m.mu.Lock()
	m.calls = append(m.calls, sourceURL)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Media, nil
}

// Calls returns the source URLs passed to Resolve.
func (m *MockResolver) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockFetcher is a test double for [services.Fetcher] that writes the URL into
// the destination file. URLs listed in Fail produce a partial file and an error.
type MockFetcher struct {
	Fail map[string]error

	mu      sync.Mutex
	fetched map[string]string
}

func (m *MockFetcher) Fetch(ctx context.Context, directURL, destPath string) (int64, error) {
	if err, ok := m.Fail[directURL]; ok {
		_ = os.WriteFile(destPath, []byte("partial"), 0644)
		return 0, err
	}
	if err := os.WriteFile(destPath, []byte(directURL), 0644); err != nil {
		return 0, err
	}

	m.mu.Lock()
	if m.fetched == nil {
		m.fetched = make(map[string]string)
	}
	m.fetched[destPath] = directURL
	m.mu.Unlock()

	return int64(len(directURL)), nil
}

// Fetched returns destination path → URL for every successful fetch.
func (m *MockFetcher) Fetched() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.fetched))
	for k, v := range m.fetched {
		out[k] = v
	}
	return out
}

// RecordingResponder records Defer and Upload calls. Upload reads every file so
// tests can assert on content and that the file still existed. FailOnUpload makes
// the n-th upload (1-based) fail.
type RecordingResponder struct {
	DeferErr     error
	FailOnUpload int

	mu       sync.Mutex
	deferred int
	batches  [][]string
	events   []string
}

func (r *RecordingResponder) Defer(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deferred++
	r.events = append(r.events, "defer")
	return r.DeferErr
}

func (r *RecordingResponder) Upload(ctx context.Context, files []models.LocalMediaFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "upload")

	if r.FailOnUpload > 0 && len(r.batches)+1 == r.FailOnUpload {
		r.batches = append(r.batches, nil)
		return errors.New("attachment rejected")
	}

	contents := make([]string, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("upload read %s: %w", f.Path, err)
		}
		contents = append(contents, string(data))
	}
	r.batches = append(r.batches, contents)
	return nil
}

// Deferred returns how many times Defer was called.
func (r *RecordingResponder) Deferred() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deferred
}

// Batches returns the uploaded file contents per batch; a failed batch is nil.
func (r *RecordingResponder) Batches() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.batches...)
}

// Events returns the ordered defer/upload calls.
func (r *RecordingResponder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File still exists: %s", path)
	}
}

// AssertDirEmpty fails when dir contains any entries.
func AssertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read directory %s: %v", dir, err)
	}
	for _, e := range entries {
		t.Errorf("Unexpected leftover file: %s", e.Name())
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
