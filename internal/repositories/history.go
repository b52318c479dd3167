package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/shared"
)

// RecognitionRepository persists completed recognition attempts.
//
// History is append-only and independent of the playlist store: it remembers
// what was heard whether or not the user filed it anywhere.
type RecognitionRepository struct {
	db *sql.DB
}

// NewRecognitionRepository creates a repository over the given database connection.
func NewRecognitionRepository(db *sql.DB) *RecognitionRepository {
	return &RecognitionRepository{db: db}
}

// Create inserts a recognition row with a generated ID and sequence.
func (r *RecognitionRepository) Create(rec *models.Recognition) error {
	sequence, err := NextSequence(r.db, "recognitions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	rec.SetID(shared.GenerateID())

	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO recognitions (id, sequence, title, artist, track_key, matched, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	track := rec.Track()
	if _, err := r.db.Exec(query, rec.ID(), sequence, track.Title, track.Artist, track.Key, rec.Matched(), rec.CreatedAt()); err != nil {
		return fmt.Errorf("failed to insert recognition: %w", err)
	}

	return nil
}

// List returns the most recent recognitions, newest first, up to limit.
// A non-positive limit returns everything.
func (r *RecognitionRepository) List(limit int) ([]*models.Recognition, error) {
	query := `
		SELECT id, title, artist, track_key, matched, created_at
		FROM recognitions
		ORDER BY sequence DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recognitions: %w", err)
	}
	defer rows.Close()

	var recognitions []*models.Recognition
	for rows.Next() {
		var id string
		var track models.Track
		var matched bool
		var createdAt time.Time

		if err := rows.Scan(&id, &track.Title, &track.Artist, &track.Key, &matched, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan recognition: %w", err)
		}

		rec := models.NewRecognition(track, matched)
		rec.SetID(id)
		rec.SetCreatedAt(createdAt)
		recognitions = append(recognitions, rec)
	}

	return recognitions, rows.Err()
}

// CountMatches returns how many recorded recognitions identified a track.
func (r *RecognitionRepository) CountMatches() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM recognitions WHERE matched = 1").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}
