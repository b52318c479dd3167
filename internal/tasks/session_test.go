package tasks

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/vibecatch/vibecatch/internal/audio"
	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/repositories"
	"github.com/vibecatch/vibecatch/internal/services"
	"github.com/vibecatch/vibecatch/internal/shared"
)

// silenceStream yields zero-filled PCM forever.
type silenceStream struct{}

func (silenceStream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func (silenceStream) Close() error { return nil }

// brokenStream fails on the first read.
type brokenStream struct{}

func (brokenStream) Read(p []byte) (int, error) { return 0, io.ErrUnexpectedEOF }
func (brokenStream) Close() error               { return nil }

type fakeBackend struct {
	devices []audio.Device
	stream  audio.Stream
}

func (f *fakeBackend) Devices(ctx context.Context) ([]audio.Device, error) {
	return f.devices, nil
}

func (f *fakeBackend) Open(ctx context.Context, device audio.Device) (audio.Stream, error) {
	return f.stream, nil
}

type fakeRecognizer struct {
	track *models.Track
	err   error
	gate  chan struct{} // when set, Recognize blocks until closed
	calls int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, clip *audio.Clip) (*models.Track, error) {
	f.calls++
	if f.gate != nil {
		<-f.gate
	}
	return f.track, f.err
}

func (f *fakeRecognizer) Name() string { return "fake" }

func defaultBackend() *fakeBackend {
	return &fakeBackend{
		devices: []audio.Device{{ID: "0", Name: "Fake Loopback", InputChannels: 1}},
		stream:  silenceStream{},
	}
}

func newTestEngine(backend *fakeBackend, recognizer services.Recognizer) *SessionEngine {
	return NewSessionEngine(SessionOpts{
		Enumerator: backend,
		Opener:     backend,
		Recognizer: recognizer,
		ClipLength: 100 * time.Millisecond,
	})
}

func TestSessionEngine(t *testing.T) {
	weightless := &models.Track{Title: "Weightless", Artist: "Marconi Union", Key: "k1"}

	t.Run("Happy Path", func(t *testing.T) {
		engine := newTestEngine(defaultBackend(), &fakeRecognizer{track: weightless})

		progress := make(chan ProgressUpdate, 64)
		results, err := engine.Start(context.Background(), progress)
		if err != nil {
			t.Fatalf("failed to start session: %v", err)
		}

		var updates []ProgressUpdate
		for update := range progress {
			updates = append(updates, update)
		}
		result := <-results

		if result.State() != Completed {
			t.Fatalf("expected Completed, got %s (%v)", result.State(), result.Err)
		}
		if result.Track == nil || result.Track.Title != "Weightless" {
			t.Errorf("unexpected track: %+v", result.Track)
		}
		if result.SessionID == "" {
			t.Error("expected a session ID")
		}

		// exactly one result
		if _, open := <-results; open {
			t.Error("result channel should deliver exactly one result")
		}

		recognizing := false
		lastPercent := 0
		for i, update := range updates {
			if update.Percent < lastPercent {
				t.Fatalf("progress regressed at update %d: %d -> %d", i, lastPercent, update.Percent)
			}
			lastPercent = update.Percent
			if update.State == Recognizing {
				recognizing = true
			} else if recognizing {
				t.Fatal("no recording updates may follow recognition start")
			}
		}
		if !recognizing {
			t.Error("expected a Recognizing update")
		}
		if lastPercent != 100 {
			t.Errorf("expected capture to reach 100, got %d", lastPercent)
		}

		if engine.State() != Completed {
			t.Errorf("expected engine state Completed, got %s", engine.State())
		}
	})

	t.Run("Busy While Active", func(t *testing.T) {
		recognizer := &fakeRecognizer{track: weightless, gate: make(chan struct{})}
		engine := newTestEngine(defaultBackend(), recognizer)

		progress := make(chan ProgressUpdate, 64)
		results, err := engine.Start(context.Background(), progress)
		if err != nil {
			t.Fatalf("failed to start session: %v", err)
		}

		// wait for the session to reach recognition, so it is mid-flight
		for update := range progress {
			if update.State == Recognizing {
				break
			}
		}

		if _, err := engine.Start(context.Background(), nil); !errors.Is(err, shared.ErrSessionBusy) {
			t.Errorf("expected ErrSessionBusy, got %v", err)
		}

		close(recognizer.gate)
		for range progress {
		}
		<-results
	})

	t.Run("Busy Until Acknowledged", func(t *testing.T) {
		engine := newTestEngine(defaultBackend(), &fakeRecognizer{track: weightless})

		results, err := engine.Start(context.Background(), nil)
		if err != nil {
			t.Fatalf("failed to start session: %v", err)
		}
		<-results

		if _, err := engine.Start(context.Background(), nil); !errors.Is(err, shared.ErrSessionBusy) {
			t.Errorf("terminal result must be acknowledged first, got %v", err)
		}

		if err := engine.Acknowledge(); err != nil {
			t.Fatalf("failed to acknowledge: %v", err)
		}
		if engine.State() != Idle {
			t.Errorf("expected Idle after acknowledge, got %s", engine.State())
		}

		results, err = engine.Start(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected start to succeed after acknowledge: %v", err)
		}
		<-results
	})

	t.Run("Acknowledge Without Terminal Result", func(t *testing.T) {
		engine := newTestEngine(defaultBackend(), &fakeRecognizer{track: weightless})
		if err := engine.Acknowledge(); err == nil {
			t.Error("expected error acknowledging in Idle")
		}
	})

	t.Run("Cancel During Capture", func(t *testing.T) {
		recognizer := &fakeRecognizer{track: weightless}
		backend := defaultBackend()
		engine := NewSessionEngine(SessionOpts{
			Enumerator: backend,
			Opener:     backend,
			Recognizer: recognizer,
			ClipLength: time.Hour, // never completes on its own
		})

		progress := make(chan ProgressUpdate, 64)
		results, err := engine.Start(context.Background(), progress)
		if err != nil {
			t.Fatalf("failed to start session: %v", err)
		}

		cancelled := false
		lastPercent := 0
		for update := range progress {
			lastPercent = update.Percent
			if !cancelled && update.Percent > 0 {
				engine.Cancel()
				cancelled = true
			}
		}
		result := <-results

		if result.State() != Cancelled {
			t.Fatalf("expected Cancelled, got %s (%v)", result.State(), result.Err)
		}
		if lastPercent >= 100 {
			t.Errorf("cancelled capture must not report completion, got %d", lastPercent)
		}
		if recognizer.calls != 0 {
			t.Error("recognition must not run after a cancelled capture")
		}
	})

	t.Run("Cancel During Recognition Discards Result", func(t *testing.T) {
		recognizer := &fakeRecognizer{track: weightless, gate: make(chan struct{})}
		engine := newTestEngine(defaultBackend(), recognizer)

		progress := make(chan ProgressUpdate, 64)
		results, err := engine.Start(context.Background(), progress)
		if err != nil {
			t.Fatalf("failed to start session: %v", err)
		}

		for update := range progress {
			if update.State == Recognizing {
				engine.Cancel()
				close(recognizer.gate)
			}
		}
		result := <-results

		if result.State() != Cancelled {
			t.Fatalf("expected Cancelled, got %s (%v)", result.State(), result.Err)
		}
		if result.Track != nil {
			t.Error("the in-flight match must be discarded")
		}
	})

	t.Run("No Input Device Fails", func(t *testing.T) {
		backend := &fakeBackend{stream: silenceStream{}} // no devices
		engine := newTestEngine(backend, &fakeRecognizer{track: weightless})

		results, err := engine.Start(context.Background(), nil)
		if err != nil {
			t.Fatalf("failed to start session: %v", err)
		}
		result := <-results

		if result.State() != Failed {
			t.Fatalf("expected Failed, got %s", result.State())
		}
		if !errors.Is(result.Err, shared.ErrNoInputDevice) {
			t.Errorf("expected ErrNoInputDevice, got %v", result.Err)
		}
	})

	t.Run("Capture Failure Fails Session", func(t *testing.T) {
		backend := defaultBackend()
		backend.stream = brokenStream{}
		recognizer := &fakeRecognizer{track: weightless}
		engine := newTestEngine(backend, recognizer)

		results, _ := engine.Start(context.Background(), nil)
		result := <-results

		if result.State() != Failed {
			t.Fatalf("expected Failed, got %s", result.State())
		}
		var capErr *audio.CaptureError
		if !errors.As(result.Err, &capErr) {
			t.Errorf("expected CaptureError, got %v", result.Err)
		}
		if recognizer.calls != 0 {
			t.Error("recognition must not run after a failed capture")
		}
	})

	t.Run("Service Error Preserved", func(t *testing.T) {
		recognizer := &fakeRecognizer{err: &services.ServiceError{Transient: true, Code: 502}}
		engine := newTestEngine(defaultBackend(), recognizer)

		results, _ := engine.Start(context.Background(), nil)
		result := <-results

		var serviceErr *services.ServiceError
		if !errors.As(result.Err, &serviceErr) {
			t.Fatalf("expected ServiceError, got %v", result.Err)
		}
		if !serviceErr.Transient || serviceErr.Code != 502 {
			t.Errorf("structured failure must survive: %+v", serviceErr)
		}
	})

	t.Run("End To End Silence Is NotRecognized", func(t *testing.T) {
		store := repositories.NewPlaylistRepository(
			filepath.Join(t.TempDir(), "playlists.json"),
			[]string{"happiness", "relaxation"},
		)
		if err := store.Load(); err != nil {
			t.Fatalf("failed to load store: %v", err)
		}

		backend := defaultBackend()
		engine := NewSessionEngine(SessionOpts{
			Enumerator: backend,
			Opener:     backend,
			Recognizer: &fakeRecognizer{err: shared.ErrNotRecognized},
			ClipLength: 100 * time.Millisecond,
		})

		results, _ := engine.Start(context.Background(), nil)
		result := <-results

		if result.State() != Failed {
			t.Fatalf("expected Failed, got %s", result.State())
		}
		if !errors.Is(result.Err, shared.ErrNotRecognized) {
			t.Errorf("expected ErrNotRecognized, got %v", result.Err)
		}

		for _, category := range store.Categories() {
			tracks, _ := store.ListTracks(category)
			if len(tracks) != 0 {
				t.Errorf("no playlist mutation may occur, found %d tracks in %s", len(tracks), category)
			}
		}
	})
}
