package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"
	"github.com/vibecatch/vibecatch/internal/shared"
	"github.com/vibecatch/vibecatch/internal/tasks"
)

// Watch runs capture sessions back to back until interrupted, recording every
// recognition attempt to the history database.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	engine, err := r.SessionEngine(cmd.String("device"), 0)
	if err != nil {
		return err
	}

	history, closeHistory, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeHistory()

	watchRate := cmd.Float("rate")
	if watchRate <= 0 {
		watchRate = r.config.Recognition.WatchRate
	}

	watcher := tasks.NewWatcher(engine, tasks.WatchOpts{
		Rate:    watchRate,
		History: history,
		Logger:  r.logger,
	})

	category := cmd.String("add")

	r.writePlain("👂 Watching... press Ctrl-C to stop.\n\n")

	results := make(chan tasks.Result, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range results {
			switch result.State() {
			case tasks.Completed:
				r.writePlain("✓ %s\n", result.Track)
				if category != "" {
					if err := r.fileTrack(category, *result.Track); err != nil {
						r.logger.Warn("failed to file track", "error", err)
					}
				}
			case tasks.Failed:
				if errors.Is(result.Err, shared.ErrNotRecognized) {
					r.writePlain("✗ no match\n")
				} else {
					r.writePlain("✗ %v\n", result.Err)
				}
			}
		}
	}()

	err = watcher.Run(ctx, nil, results)
	close(results)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\nStopped.\n")
	return nil
}
