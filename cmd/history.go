package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// HistoryList prints recent recognition attempts, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	history, closeHistory, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeHistory()

	rows, err := history.List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type historyJSON struct {
			ID        string    `json:"id"`
			Title     string    `json:"title,omitempty"`
			Artist    string    `json:"artist,omitempty"`
			Matched   bool      `json:"matched"`
			CreatedAt time.Time `json:"created_at"`
		}
		out := make([]historyJSON, len(rows))
		for i, rec := range rows {
			track := rec.Track()
			out[i] = historyJSON{
				ID:        rec.ID(),
				Title:     track.Title,
				Artist:    track.Artist,
				Matched:   rec.Matched(),
				CreatedAt: rec.CreatedAt(),
			}
		}
		return r.writeJSON(out, true)
	}

	if len(rows) == 0 {
		r.writePlain("No recognition attempts recorded yet.\n")
		return nil
	}

	r.writePlain("Recent recognition attempts:\n")
	for _, rec := range rows {
		when := rec.CreatedAt().Format("2006-01-02 15:04")
		if rec.Matched() {
			r.writePlain("  %s  ✓ %s\n", when, rec.Track())
		} else {
			r.writePlain("  %s  ✗ no match\n", when)
		}
	}

	return nil
}

// HistoryStats prints aggregate match statistics.
func (r *Runner) HistoryStats(ctx context.Context, cmd *cli.Command) error {
	history, closeHistory, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeHistory()

	rows, err := history.List(0)
	if err != nil {
		return err
	}

	matches, err := history.CountMatches()
	if err != nil {
		return err
	}

	total := len(rows)
	r.writePlain("Attempts: %d\n", total)
	r.writePlain("Matches:  %d\n", matches)
	if total > 0 {
		r.writePlain("Hit rate: %.1f%%\n", 100*float64(matches)/float64(total))
	}

	return nil
}
