// package tasks implements the capture-then-recognize session controller.
//
// The core abstraction is SessionEngine, a finite-state machine driving one
// background worker per session. Progress and the terminal result are emitted
// via channels for non-blocking status reporting to CLI/TUI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vibecatch/vibecatch/internal/audio"
	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/services"
	"github.com/vibecatch/vibecatch/internal/shared"
)

// Result is the terminal outcome of one session.
//
// Exactly one of the cases holds: Track is set and Err is nil (Completed),
// Err is [shared.ErrCancelled] (Cancelled), or Err carries the failure —
// [shared.ErrNotRecognized], *[services.ServiceError], *[audio.CaptureError]
// or [shared.ErrNoInputDevice] — each distinct enough to drive UI messaging.
type Result struct {
	SessionID string
	Track     *models.Track
	Clip      *audio.Clip // The recorded clip, when capture completed
	Err       error
}

// State derives the terminal state this result represents.
func (r Result) State() State {
	switch {
	case r.Err == nil:
		return Completed
	case errors.Is(r.Err, shared.ErrCancelled):
		return Cancelled
	default:
		return Failed
	}
}

// SessionEngine orchestrates device selection, capture and recognition as a
// cancellable background task. It is the sole owner of the "is a recording in
// flight" state: at most one session is active, with no queueing, and a
// terminal result must be acknowledged before the next session may start.
//
// The engine never touches the playlist store; filing a recognized track is a
// separate caller-driven step.
type SessionEngine struct {
	enumerator audio.Enumerator
	capture    *audio.Engine
	recognizer services.Recognizer
	clipLength time.Duration
	deviceName string
	logger     *log.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// SessionOpts contains the dependencies and tuning for a SessionEngine.
type SessionOpts struct {
	Enumerator audio.Enumerator
	Opener     audio.Opener
	Recognizer services.Recognizer
	ClipLength time.Duration // 0 uses audio.DefaultClipLength
	DeviceName string        // pin a device by name; empty uses the selection policy
	Logger     *log.Logger
}

// NewSessionEngine creates an idle session engine.
func NewSessionEngine(opts SessionOpts) *SessionEngine {
	return &SessionEngine{
		enumerator: opts.Enumerator,
		capture:    audio.NewEngine(opts.Opener, opts.Logger),
		recognizer: opts.Recognizer,
		clipLength: opts.ClipLength,
		deviceName: opts.DeviceName,
		logger:     opts.Logger,
	}
}

// State returns the current session state.
func (e *SessionEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start launches a capture-then-recognize session in a background worker.
//
// Progress updates are sent to progress (which may be nil) in FIFO order; the
// engine closes it when the session reaches a terminal state. The returned
// channel delivers exactly one Result. Returns [shared.ErrSessionBusy] while
// a session is active or a terminal result is unacknowledged.
func (e *SessionEngine) Start(ctx context.Context, progress chan<- ProgressUpdate) (<-chan Result, error) {
	e.mu.Lock()
	if e.state != Idle {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: state is %s", shared.ErrSessionBusy, e.state)
	}

	sctx, cancel := context.WithCancel(ctx)
	e.state = Recording
	e.cancel = cancel
	e.mu.Unlock()

	sessionID := shared.GenerateID()
	results := make(chan Result, 1)

	go e.run(sctx, sessionID, progress, results)

	return results, nil
}

// Cancel requests cancellation of the active session. Capture stops at the
// next chunk boundary; an in-flight recognition request is not aborted, but
// its outcome is discarded and the session reports Cancelled.
func (e *SessionEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

// Acknowledge consumes the terminal result, returning the engine to Idle.
func (e *SessionEngine) Acknowledge() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Terminal() {
		return fmt.Errorf("no terminal result to acknowledge in state %s", e.state)
	}
	e.state = Idle
	e.cancel = nil
	return nil
}

func (e *SessionEngine) run(ctx context.Context, sessionID string, progress chan<- ProgressUpdate, results chan<- Result) {
	defer func() {
		if progress != nil {
			close(progress)
		}
	}()

	send := func(update ProgressUpdate) {
		if progress != nil {
			progress <- update
		}
	}

	var clip *audio.Clip
	finish := func(track *models.Track, err error) {
		result := Result{SessionID: sessionID, Track: track, Clip: clip, Err: err}
		e.mu.Lock()
		e.state = result.State()
		e.mu.Unlock()

		if e.logger != nil {
			e.logger.Info("session finished", "session", sessionID, "state", result.State())
		}

		results <- result
		close(results)
	}

	send(selectingUpdate())

	device, err := e.selectDevice(ctx)
	if err != nil {
		finish(nil, err)
		return
	}

	send(recordingUpdate(device.Name))

	lastPercent := 0
	captured, err := e.capture.Capture(ctx, device, e.clipLength, func(percent int) {
		lastPercent = percent
		send(capturePercentUpdate(percent))
	})
	if err != nil {
		finish(nil, err)
		return
	}
	clip = captured

	e.mu.Lock()
	e.state = Recognizing
	e.mu.Unlock()
	send(recognizingUpdate(e.recognizer.Name(), lastPercent))

	track, err := e.recognizer.Recognize(ctx, clip)

	// A cancel issued after the request was dispatched cannot abort it;
	// whatever came back is discarded and the session reports Cancelled.
	if ctx.Err() != nil {
		finish(nil, shared.ErrCancelled)
		return
	}
	if err != nil {
		finish(nil, err)
		return
	}

	finish(track, nil)
}

func (e *SessionEngine) selectDevice(ctx context.Context) (audio.Device, error) {
	if e.deviceName != "" {
		return audio.FindDevice(ctx, e.enumerator, e.deviceName)
	}
	return audio.SelectInputDevice(ctx, e.enumerator, e.logger)
}
