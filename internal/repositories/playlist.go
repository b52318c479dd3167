package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/shared"
)

// AddResult is the outcome of an AddTrack call.
type AddResult int

const (
	TrackAdded          AddResult = iota // the track was appended and persisted
	TrackAlreadyPresent                  // idempotent no-op, not an error
)

func (r AddResult) String() string {
	switch r {
	case TrackAdded:
		return "added"
	case TrackAlreadyPresent:
		return "already_present"
	default:
		return ""
	}
}

// PlaylistRepository is the durable category → track-list store.
//
// All mutations hold one mutex around the read-modify-write-flush cycle, so
// the uniqueness check and the append are atomic with respect to concurrent
// callers, and no mutation is reported successful before it is on disk.
type PlaylistRepository struct {
	path       string
	categories []string

	mu        sync.Mutex
	playlists map[string][]models.Track
}

// NewPlaylistRepository creates a store persisting to path and covering the
// fixed category set. Call Load before use.
func NewPlaylistRepository(path string, categories []string) *PlaylistRepository {
	return &PlaylistRepository{path: path, categories: categories}
}

// Load reads the persisted document into memory.
//
// A missing file initializes every configured category empty. A present but
// malformed file fails wrapping [shared.ErrCorruptStore]; it is never
// silently replaced with an empty store. Categories found in the file but
// absent from configuration are preserved so user data survives config edits.
func (r *PlaylistRepository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.playlists = make(map[string][]models.Track, len(r.categories))
	for _, category := range r.categories {
		r.playlists[category] = nil
	}

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read playlist store: %w", err)
	}

	var stored map[string][]models.Track
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrCorruptStore, r.path, err)
	}
	if stored == nil {
		return fmt.Errorf("%w: %s: document is not an object", shared.ErrCorruptStore, r.path)
	}

	for category, tracks := range stored {
		r.playlists[category] = tracks
	}

	return nil
}

// AddTrack appends track to category's playlist unless an entry with the same
// (title, artist) already exists. On [TrackAdded] the full state is flushed to
// disk before returning; the store never reports success for a change that is
// not yet durable.
func (r *PlaylistRepository) AddTrack(category string, track models.Track) (AddResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tracks, ok := r.playlists[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q", shared.ErrUnknownCategory, category)
	}

	for _, existing := range tracks {
		if existing.Same(track) {
			return TrackAlreadyPresent, nil
		}
	}

	r.playlists[category] = append(tracks, track)
	if err := r.flush(); err != nil {
		// roll the in-memory state back so memory never claims more than disk
		r.playlists[category] = r.playlists[category][:len(r.playlists[category])-1]
		return 0, fmt.Errorf("failed to persist playlist store: %w", err)
	}

	return TrackAdded, nil
}

// ListTracks returns a copy of category's playlist in insertion order.
func (r *PlaylistRepository) ListTracks(category string) ([]models.Track, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tracks, ok := r.playlists[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownCategory, category)
	}

	out := make([]models.Track, len(tracks))
	copy(out, tracks)
	return out, nil
}

// Categories returns the configured category set in configuration order.
func (r *PlaylistRepository) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// Save flushes the current state to disk. Exposed for setup flows; AddTrack
// already persists on every successful mutation.
func (r *PlaylistRepository) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flush()
}

// flush writes the full document to a temporary file in the same directory
// and renames it over the store path, so a crash mid-write can never leave a
// half-written file observable to the next Load. Callers hold r.mu.
func (r *PlaylistRepository) flush() error {
	data, err := json.MarshalIndent(r.playlists, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode playlists: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".playlists-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write playlists: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace playlist store: %w", err)
	}

	return nil
}
