package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/repositories"
	"github.com/vibecatch/vibecatch/internal/services"
	"github.com/vibecatch/vibecatch/internal/shared"
)

func newTestHistory(t *testing.T) *repositories.RecognitionRepository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return repositories.NewRecognitionRepository(db)
}

// collectResults runs the watcher until want results arrive, then cancels and
// returns the results together with Run's error.
func collectResults(t *testing.T, watcher *Watcher, want int) ([]Result, error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan Result)
	errCh := make(chan error, 1)
	go func() { errCh <- watcher.Run(ctx, nil, results) }()

	var collected []Result
	for len(collected) < want {
		select {
		case result := <-results:
			collected = append(collected, result)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watch results")
		}
	}
	cancel()

	for {
		select {
		case <-results:
		case err := <-errCh:
			return collected, err
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for the watcher to stop")
		}
	}
}

func TestWatcher(t *testing.T) {
	weightless := &models.Track{Title: "Weightless", Artist: "Marconi Union", Key: "k1"}

	t.Run("Runs Sessions Until Cancelled", func(t *testing.T) {
		engine := newTestEngine(defaultBackend(), &fakeRecognizer{track: weightless})
		watcher := NewWatcher(engine, WatchOpts{Rate: 1000})

		results, err := collectResults(t, watcher, 3)
		if err != nil {
			t.Fatalf("cancelled watch must stop cleanly, got %v", err)
		}

		for i, result := range results {
			if result.State() != Completed {
				t.Errorf("result %d: expected Completed, got %s (%v)", i, result.State(), result.Err)
			}
		}
		if engine.State() != Idle && !engine.State().Terminal() {
			t.Errorf("unexpected engine state after watch: %s", engine.State())
		}
	})

	t.Run("Records Attempts In History", func(t *testing.T) {
		history := newTestHistory(t)
		engine := newTestEngine(defaultBackend(), &fakeRecognizer{track: weightless})
		watcher := NewWatcher(engine, WatchOpts{Rate: 1000, History: history})

		results, err := collectResults(t, watcher, 2)
		if err != nil {
			t.Fatalf("cancelled watch must stop cleanly, got %v", err)
		}

		recorded, err := history.List(10)
		if err != nil {
			t.Fatalf("failed to list history: %v", err)
		}
		if len(recorded) < len(results) {
			t.Errorf("expected at least %d history rows, got %d", len(results), len(recorded))
		}

		matches, err := history.CountMatches()
		if err != nil {
			t.Fatalf("failed to count matches: %v", err)
		}
		if matches != len(recorded) {
			t.Errorf("every attempt matched, expected %d matches, got %d", len(recorded), matches)
		}
	})

	t.Run("No Match Keeps Watching", func(t *testing.T) {
		history := newTestHistory(t)
		engine := newTestEngine(defaultBackend(), &fakeRecognizer{err: shared.ErrNotRecognized})
		watcher := NewWatcher(engine, WatchOpts{Rate: 1000, History: history})

		results, err := collectResults(t, watcher, 2)
		if err != nil {
			t.Fatalf("no-match outcomes must not stop the watch, got %v", err)
		}
		for i, result := range results {
			if !errors.Is(result.Err, shared.ErrNotRecognized) {
				t.Errorf("result %d: expected ErrNotRecognized, got %v", i, result.Err)
			}
		}

		recorded, _ := history.List(10)
		if len(recorded) < 2 {
			t.Errorf("misses must still be recorded, got %d rows", len(recorded))
		}
		matches, _ := history.CountMatches()
		if matches != 0 {
			t.Errorf("expected no matches recorded, got %d", matches)
		}
	})

	t.Run("Transient Service Error Keeps Watching", func(t *testing.T) {
		engine := newTestEngine(defaultBackend(), &fakeRecognizer{
			err: &services.ServiceError{Transient: true, Code: 503},
		})
		watcher := NewWatcher(engine, WatchOpts{Rate: 1000})

		results, err := collectResults(t, watcher, 2)
		if err != nil {
			t.Fatalf("transient failures must not stop the watch, got %v", err)
		}
		if len(results) != 2 {
			t.Errorf("expected 2 results, got %d", len(results))
		}
	})

	t.Run("Non Transient Service Error Stops Watch", func(t *testing.T) {
		history := newTestHistory(t)
		engine := newTestEngine(defaultBackend(), &fakeRecognizer{
			err: &services.ServiceError{Transient: false, Code: 403},
		})
		watcher := NewWatcher(engine, WatchOpts{Rate: 1000, History: history})

		err := watcher.Run(context.Background(), nil, nil)
		if err == nil {
			t.Fatal("expected the watch to stop with an error")
		}
		var serviceErr *services.ServiceError
		if !errors.As(err, &serviceErr) || serviceErr.Code != 403 {
			t.Errorf("expected the service error to surface, got %v", err)
		}

		// an auth failure is not a recognition outcome
		recorded, _ := history.List(10)
		if len(recorded) != 0 {
			t.Errorf("expected no history rows, got %d", len(recorded))
		}
	})

	t.Run("Capture Failure Not Recorded", func(t *testing.T) {
		history := newTestHistory(t)
		backend := defaultBackend()
		backend.stream = brokenStream{}
		engine := newTestEngine(backend, &fakeRecognizer{track: weightless})
		watcher := NewWatcher(engine, WatchOpts{Rate: 1000, History: history})

		results, err := collectResults(t, watcher, 2)
		if err != nil {
			t.Fatalf("capture failures must not stop the watch, got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}

		recorded, _ := history.List(10)
		if len(recorded) != 0 {
			t.Errorf("capture failures are not recognition attempts, got %d rows", len(recorded))
		}
	})
}
