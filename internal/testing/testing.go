// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/vibecatch/vibecatch/internal/audio"
	"github.com/vibecatch/vibecatch/internal/models"
)

// MockRecognizer is a test double for [services.Recognizer]
type MockRecognizer struct {
	Track *models.Track
	Err   error
	Calls int
}

func (m *MockRecognizer) Recognize(ctx context.Context, clip *audio.Clip) (*models.Track, error) {
	m.Calls++
	return m.Track, m.Err
}

func (m *MockRecognizer) Name() string { return "mock" }

// SilenceBackend enumerates a single fake loopback device and opens streams
// of zero-filled PCM. Implements [audio.Enumerator] and [audio.Opener].
type SilenceBackend struct{}

func (SilenceBackend) Devices(ctx context.Context) ([]audio.Device, error) {
	return []audio.Device{{ID: "0", Name: "Mock Loopback", InputChannels: 1}}, nil
}

func (SilenceBackend) Open(ctx context.Context, device audio.Device) (audio.Stream, error) {
	return silenceStream{}, nil
}

type silenceStream struct{}

func (silenceStream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func (silenceStream) Close() error { return nil }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
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

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
