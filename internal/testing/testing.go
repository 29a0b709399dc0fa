// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/soundtable/soundtable/internal/models"
)

// MockAdapter is a configurable test double for [services.Adapter]
type MockAdapter struct {
	ServiceType models.ServiceType
	AdapterName string
	Collections []models.CollectionInfo
	Tracks      map[string][]models.Track
	SearchHits  []models.CollectionInfo
	Connection  models.ConnectionResult

	ListErr   error
	FetchErr  error
	SearchErr error
}

func (m *MockAdapter) Type() models.ServiceType { return m.ServiceType }

func (m *MockAdapter) Name() string {
	if m.AdapterName == "" {
		return "mock"
	}
	return m.AdapterName
}

func (m *MockAdapter) ListCollections(ctx context.Context) ([]models.CollectionInfo, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Collections, nil
}

func (m *MockAdapter) FetchTracks(ctx context.Context, collectionID string) ([]models.Track, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Tracks[collectionID], nil
}

func (m *MockAdapter) SearchCollections(ctx context.Context, query string, limit int) ([]models.CollectionInfo, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchHits, nil
}

func (m *MockAdapter) TestConnection(ctx context.Context) models.ConnectionResult {
	return m.Connection
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

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
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
