package repositories

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/shared"
)

var testCategories = []string{"happiness", "emotional", "relaxation", "excitement"}

func newTestStore(t *testing.T) *PlaylistRepository {
	t.Helper()
	repo := NewPlaylistRepository(filepath.Join(t.TempDir(), "playlists.json"), testCategories)
	if err := repo.Load(); err != nil {
		t.Fatalf("failed to load empty store: %v", err)
	}
	return repo
}

func TestPlaylistRepository(t *testing.T) {
	weightless := models.Track{Title: "Weightless", Artist: "Marconi Union", Key: "track-1"}

	t.Run("AddTrack Then Duplicate", func(t *testing.T) {
		repo := newTestStore(t)

		result, err := repo.AddTrack("relaxation", weightless)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result != TrackAdded {
			t.Errorf("expected TrackAdded, got %s", result)
		}

		result, err = repo.AddTrack("relaxation", weightless)
		if err != nil {
			t.Fatalf("expected no error on duplicate, got %v", err)
		}
		if result != TrackAlreadyPresent {
			t.Errorf("expected TrackAlreadyPresent, got %s", result)
		}

		tracks, err := repo.ListTracks("relaxation")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 1 {
			t.Errorf("expected exactly one entry, got %d", len(tracks))
		}
	})

	t.Run("Dedup Ignores Service Key", func(t *testing.T) {
		repo := newTestStore(t)

		repo.AddTrack("relaxation", weightless)
		cover := weightless
		cover.Key = "track-2"

		result, err := repo.AddTrack("relaxation", cover)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result != TrackAlreadyPresent {
			t.Errorf("identity is (title, artist); expected TrackAlreadyPresent, got %s", result)
		}
	})

	t.Run("Dedup Is Case Sensitive", func(t *testing.T) {
		repo := newTestStore(t)

		repo.AddTrack("happiness", weightless)
		shouted := models.Track{Title: "WEIGHTLESS", Artist: "Marconi Union"}

		result, err := repo.AddTrack("happiness", shouted)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result != TrackAdded {
			t.Errorf("expected case-sensitive comparison to add, got %s", result)
		}
	})

	t.Run("Same Track In Different Categories", func(t *testing.T) {
		repo := newTestStore(t)

		repo.AddTrack("relaxation", weightless)
		result, err := repo.AddTrack("emotional", weightless)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result != TrackAdded {
			t.Errorf("uniqueness is per category, got %s", result)
		}
	})

	t.Run("Unknown Category", func(t *testing.T) {
		repo := newTestStore(t)

		if _, err := repo.AddTrack("polka", weightless); !errors.Is(err, shared.ErrUnknownCategory) {
			t.Errorf("expected ErrUnknownCategory, got %v", err)
		}
		if _, err := repo.ListTracks("polka"); !errors.Is(err, shared.ErrUnknownCategory) {
			t.Errorf("expected ErrUnknownCategory, got %v", err)
		}
	})

	t.Run("ListTracks Returns Copy", func(t *testing.T) {
		repo := newTestStore(t)
		repo.AddTrack("happiness", weightless)

		tracks, _ := repo.ListTracks("happiness")
		tracks[0].Title = "Mutated"

		again, _ := repo.ListTracks("happiness")
		if again[0].Title != "Weightless" {
			t.Error("mutating the returned slice must not affect the store")
		}
	})

	t.Run("Persist Then Reload Round-Trips", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlists.json")
		repo := NewPlaylistRepository(path, testCategories)
		if err := repo.Load(); err != nil {
			t.Fatalf("failed to load: %v", err)
		}

		first := models.Track{Title: "Breathe", Artist: "Pink Floyd", Key: "k1"}
		second := models.Track{Title: "Time", Artist: "Pink Floyd"}
		repo.AddTrack("relaxation", first)
		repo.AddTrack("relaxation", second)
		repo.AddTrack("excitement", weightless)

		reloaded := NewPlaylistRepository(path, testCategories)
		if err := reloaded.Load(); err != nil {
			t.Fatalf("failed to reload: %v", err)
		}

		tracks, err := reloaded.ListTracks("relaxation")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 2 || tracks[0] != first || tracks[1] != second {
			t.Errorf("round-trip lost order or data: %+v", tracks)
		}

		for _, category := range testCategories {
			if _, err := reloaded.ListTracks(category); err != nil {
				t.Errorf("category %s should exist after reload: %v", category, err)
			}
		}
	})

	t.Run("Missing File Loads Empty", func(t *testing.T) {
		repo := newTestStore(t)
		for _, category := range testCategories {
			tracks, err := repo.ListTracks(category)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 0 {
				t.Errorf("expected empty playlist for %s", category)
			}
		}
	})

	t.Run("Corrupt File Surfaces CorruptStore", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlists.json")
		if err := os.WriteFile(path, []byte(`{"happiness": "not a list"`), 0644); err != nil {
			t.Fatalf("failed to write corrupt file: %v", err)
		}

		repo := NewPlaylistRepository(path, testCategories)
		if err := repo.Load(); !errors.Is(err, shared.ErrCorruptStore) {
			t.Errorf("expected ErrCorruptStore, got %v", err)
		}
	})

	t.Run("Non-Object Document Is Corrupt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlists.json")
		if err := os.WriteFile(path, []byte(`null`), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		repo := NewPlaylistRepository(path, testCategories)
		if err := repo.Load(); !errors.Is(err, shared.ErrCorruptStore) {
			t.Errorf("expected ErrCorruptStore, got %v", err)
		}
	})

	t.Run("Unknown Categories In File Are Preserved", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlists.json")
		doc := map[string][]models.Track{
			"happiness": {weightless},
			"retired":   {{Title: "Old", Artist: "Gold"}},
		}
		data, _ := json.Marshal(doc)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		repo := NewPlaylistRepository(path, testCategories)
		if err := repo.Load(); err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if err := repo.Save(); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		raw, _ := os.ReadFile(path)
		var roundTripped map[string][]models.Track
		if err := json.Unmarshal(raw, &roundTripped); err != nil {
			t.Fatalf("saved document should be valid JSON: %v", err)
		}
		if len(roundTripped["retired"]) != 1 {
			t.Error("categories removed from configuration must survive a save")
		}
	})

	t.Run("Omits Empty Key On Disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlists.json")
		repo := NewPlaylistRepository(path, testCategories)
		repo.Load()
		repo.AddTrack("happiness", models.Track{Title: "Time", Artist: "Pink Floyd"})

		raw, _ := os.ReadFile(path)
		var doc map[string][]map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("failed to parse saved document: %v", err)
		}
		if _, present := doc["happiness"][0]["key"]; present {
			t.Error("empty service key should be omitted from the document")
		}
	})

	t.Run("Concurrent Adds Of Same Track", func(t *testing.T) {
		repo := newTestStore(t)

		const workers = 8
		results := make([]AddResult, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				result, err := repo.AddTrack("excitement", weightless)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				results[i] = result
			}(i)
		}
		wg.Wait()

		added := 0
		for _, result := range results {
			if result == TrackAdded {
				added++
			}
		}
		if added != 1 {
			t.Errorf("exactly one concurrent add may succeed, got %d", added)
		}

		tracks, _ := repo.ListTracks("excitement")
		if len(tracks) != 1 {
			t.Errorf("expected one stored entry, got %d", len(tracks))
		}
	})
}
