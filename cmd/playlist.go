package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vibecatch/vibecatch/internal/formatter"
	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/shared"
)

// PlaylistList lists the mood categories and their track counts.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Playlists()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]models.Playlist, 0, len(store.Categories()))
		for _, category := range store.Categories() {
			tracks, _ := store.ListTracks(category)
			out = append(out, models.Playlist{Category: category, Tracks: tracks})
		}
		return r.writeJSON(out, true)
	}

	r.writePlain("Mood playlists:\n")
	for _, category := range store.Categories() {
		tracks, _ := store.ListTracks(category)
		r.writePlain("  %-12s %d tracks\n", category, len(tracks))
	}

	return nil
}

// PlaylistShow prints the tracks in one mood playlist in insertion order.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	category := cmd.StringArg("category")
	if category == "" {
		return fmt.Errorf("%w: category", shared.ErrMissingArgument)
	}

	store, err := r.Playlists()
	if err != nil {
		return err
	}

	tracks, err := store.ListTracks(category)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(models.Playlist{Category: category, Tracks: tracks}, true)
	}

	r.writePlain("Playlist: %s (%d tracks)\n", category, len(tracks))
	for i, track := range tracks {
		r.writePlain("  %d. %s\n", i+1, track)
	}

	return nil
}

// PlaylistAdd manually files a track into a mood playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	category := cmd.StringArg("category")
	if category == "" {
		return fmt.Errorf("%w: category", shared.ErrMissingArgument)
	}

	track := models.Track{
		Title:  cmd.String("title"),
		Artist: cmd.String("artist"),
	}

	return r.fileTrack(category, track)
}

// PlaylistExport writes one mood playlist to a file in the requested format.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	category := cmd.StringArg("category")
	if category == "" {
		return fmt.Errorf("%w: category", shared.ErrMissingArgument)
	}

	store, err := r.Playlists()
	if err != nil {
		return err
	}

	tracks, err := store.ListTracks(category)
	if err != nil {
		return err
	}
	playlist := models.Playlist{Category: category, Tracks: tracks}

	output := cmd.String("output")

	var written string
	switch format := cmd.String("format"); format {
	case "csv":
		written, err = formatter.WriteCSVExport(playlist, output)
	case "markdown", "md":
		written, err = formatter.WriteMarkdownExport(playlist, output)
	case "text", "txt":
		written, err = formatter.WriteTextExport(playlist, output)
	default:
		return fmt.Errorf("%w: unknown format %q (expected csv, markdown or text)", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	r.writePlain("Exported %d tracks to %s\n", len(tracks), written)
	return nil
}
