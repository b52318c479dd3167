// package models defines the data model for the song recognition and playlist service
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for persistent models.
// Implementations include Recognition.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Track represents an identified song.
//
// Key is the opaque identifier assigned by the recognition service and may be
// empty; it is deliberately excluded from playlist identity. Two tracks are
// the same playlist entry iff title and artist match exactly.
type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Key    string `json:"key,omitempty"`
}

// Same reports whether other is the same playlist entry as t.
// Comparison is case-sensitive on (Title, Artist) only.
func (t Track) Same(other Track) bool {
	return t.Title == other.Title && t.Artist == other.Artist
}

// String returns "Artist - Title" for display.
func (t Track) String() string {
	return t.Artist + " - " + t.Title
}

// Playlist is an ordered, append-only list of tracks under one mood category.
type Playlist struct {
	Category string  `json:"category"`
	Tracks   []Track `json:"tracks"`
}

// Recognition records one completed recognition attempt.
//
// Matched is false for legitimate "no match" outcomes; Track fields are empty
// in that case. Recognitions are append-only history rows.
type Recognition struct {
	id        string
	track     Track
	matched   bool
	createdAt time.Time
}

// NewRecognition constructs a Recognition for a completed attempt.
// The ID is assigned by the repository on insert.
func NewRecognition(track Track, matched bool) *Recognition {
	return &Recognition{track: track, matched: matched, createdAt: time.Now()}
}

func (r *Recognition) ID() string           { return r.id }
func (r *Recognition) CreatedAt() time.Time { return r.createdAt }
func (r *Recognition) Track() Track         { return r.track }
func (r *Recognition) Matched() bool        { return r.matched }

// SetID assigns the generated identifier. Called by the repository.
func (r *Recognition) SetID(id string) { r.id = id }

// SetCreatedAt overrides the creation timestamp. Used when scanning rows.
func (r *Recognition) SetCreatedAt(t time.Time) { r.createdAt = t }

// Validate checks invariants before persistence.
func (r *Recognition) Validate() error {
	if r.matched && r.track.Title == "" {
		return fmt.Errorf("matched recognition requires a track title")
	}
	return nil
}
