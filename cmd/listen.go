package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/repositories"
	"github.com/vibecatch/vibecatch/internal/shared"
	"github.com/vibecatch/vibecatch/internal/tasks"
)

// Listen records one clip and identifies it. Ctrl-C cancels the session.
func (r *Runner) Listen(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	quiet := cmd.Bool("quiet")

	var clipLength time.Duration
	if seconds := cmd.Int("duration"); seconds > 0 {
		clipLength = time.Duration(seconds) * time.Second
	}

	engine, err := r.SessionEngine(cmd.String("device"), clipLength)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	results, err := engine.Start(ctx, progressCh)
	if err != nil {
		return err
	}

	lastMessage := ""
	lastPercent := 0
	for update := range progressCh {
		if quiet {
			continue
		}

		if update.Message != lastMessage {
			lastMessage = update.Message
			if update.State == tasks.Recognizing {
				r.writePlain("\n🔎 %s\n", update.Message)
			} else {
				r.writePlain("🎙 %s\n", update.Message)
			}
		}
		if update.State == tasks.Recording && update.Percent >= lastPercent+10 {
			lastPercent = update.Percent - update.Percent%10
			r.writePlain("   %d%%\n", update.Percent)
		}
	}

	result := <-results
	engine.Acknowledge()

	switch result.State() {
	case tasks.Cancelled:
		return shared.ErrCancelled

	case tasks.Failed:
		if errors.Is(result.Err, shared.ErrNotRecognized) {
			r.writePlain("✗ No match for this recording. Try a longer clip with --duration.\n")
			return nil
		}
		return result.Err
	}

	if path := cmd.String("save-wav"); path != "" && result.Clip != nil {
		if err := os.WriteFile(path, result.Clip.WAV(), 0644); err != nil {
			return fmt.Errorf("failed to save WAV file: %w", err)
		}
		r.logger.Info("clip saved", "path", path)
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(result.Track, true); err != nil {
			return err
		}
	} else {
		r.writePlain("✓ Caught: %s\n", result.Track)
	}

	if category := cmd.String("add"); category != "" {
		return r.fileTrack(category, *result.Track)
	}

	return nil
}

// fileTrack adds a track to a mood playlist and reports the outcome.
func (r *Runner) fileTrack(category string, track models.Track) error {
	store, err := r.Playlists()
	if err != nil {
		return err
	}

	outcome, err := store.AddTrack(category, track)
	if err != nil {
		return err
	}

	if outcome == repositories.TrackAlreadyPresent {
		r.writePlain("Already in '%s'\n", category)
	} else {
		r.writePlain("Filed under '%s'\n", category)
	}
	return nil
}
