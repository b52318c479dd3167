package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/repositories"
	"github.com/vibecatch/vibecatch/internal/services"
	"github.com/vibecatch/vibecatch/internal/shared"
	"golang.org/x/time/rate"
)

// WatchOpts contains configuration for continuous listening.
type WatchOpts struct {
	Rate    float64                                 // Recognition requests per second (default: 0.1, one per 10s)
	History *repositories.RecognitionRepository     // Optional; completed attempts are recorded when set
	Logger  *log.Logger
}

// Watcher runs back-to-back capture sessions, gated by a rate limiter so an
// unattended watch cannot burn through the recognition API quota.
type Watcher struct {
	engine  *SessionEngine
	history *repositories.RecognitionRepository
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewWatcher creates a watcher over the given session engine.
func NewWatcher(engine *SessionEngine, opts WatchOpts) *Watcher {
	if opts.Rate <= 0 {
		opts.Rate = 0.1
	}
	return &Watcher{
		engine:  engine,
		history: opts.History,
		limiter: rate.NewLimiter(rate.Limit(opts.Rate), 1),
		logger:  opts.Logger,
	}
}

// Run listens until ctx is cancelled, forwarding every session's progress to
// progress and every terminal outcome to results (either may be nil). The
// watch stops early on a non-transient service error, which is returned;
// cancellation and no-match outcomes keep it going.
func (w *Watcher) Run(ctx context.Context, progress chan<- ProgressUpdate, results chan<- Result) error {
	for {
		if err := w.limiter.Wait(ctx); err != nil {
			return nil // ctx cancelled while waiting
		}

		inner := make(chan ProgressUpdate, 16)
		resultCh, err := w.engine.Start(ctx, inner)
		if err != nil {
			return fmt.Errorf("failed to start watch session: %w", err)
		}

		for update := range inner {
			if progress != nil {
				progress <- update
			}
		}
		result := <-resultCh

		w.record(result)
		if results != nil {
			results <- result
		}
		w.engine.Acknowledge()

		if ctx.Err() != nil || errors.Is(result.Err, shared.ErrCancelled) {
			return nil
		}

		var serviceErr *services.ServiceError
		if errors.As(result.Err, &serviceErr) && !serviceErr.Transient {
			return fmt.Errorf("watch stopped: %w", result.Err)
		}
	}
}

// record appends completed recognition attempts to history. Capture failures
// are not recognition attempts and are skipped.
func (w *Watcher) record(result Result) {
	if w.history == nil {
		return
	}

	var rec *models.Recognition
	switch {
	case result.Track != nil:
		rec = models.NewRecognition(*result.Track, true)
	case errors.Is(result.Err, shared.ErrNotRecognized):
		rec = models.NewRecognition(models.Track{}, false)
	default:
		return
	}

	if err := w.history.Create(rec); err != nil && w.logger != nil {
		w.logger.Warn("failed to record recognition", "err", err)
	}
}
