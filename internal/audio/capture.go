package audio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vibecatch/vibecatch/internal/shared"
)

// Stream delivers raw PCM bytes from an open input device. Close releases the
// device; it must be safe to call after a read error.
type Stream interface {
	io.ReadCloser
}

// Opener opens a capture stream on a device at the fixed capture parameters.
type Opener interface {
	Open(ctx context.Context, device Device) (Stream, error)
}

// CaptureError is a device or stream failure during an active capture.
// The engine never retries; the caller decides whether to start a new session.
type CaptureError struct {
	Reason string
	Err    error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capture failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("capture failed: %s", e.Reason)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Engine drives timed recording sessions against a chosen device.
type Engine struct {
	opener Opener
	logger *log.Logger
}

// NewEngine creates a capture engine backed by the given stream opener.
func NewEngine(opener Opener, logger *log.Logger) *Engine {
	return &Engine{opener: opener, logger: logger}
}

// Capture records duration's worth of audio from device, reading one chunk at
// a time and reporting integer percent progress after each chunk.
//
// Progress is monotonically non-decreasing and reaches 100 only when every
// chunk was read. Cancellation is polled between chunks; a cancelled capture
// returns [shared.ErrCancelled] with whatever progress was last reported.
// A mid-stream device error returns a *CaptureError.
func (e *Engine) Capture(ctx context.Context, device Device, duration time.Duration, onProgress func(percent int)) (*Clip, error) {
	if duration <= 0 {
		duration = DefaultClipLength
	}
	if onProgress == nil {
		onProgress = func(int) {}
	}

	totalChunks := int(int64(duration) * SampleRate / (int64(time.Second) * ChunkSamples))
	if totalChunks == 0 {
		totalChunks = 1
	}

	stream, err := e.opener.Open(ctx, device)
	if err != nil {
		return nil, &CaptureError{Reason: "failed to open input stream", Err: err}
	}
	defer stream.Close()

	if e.logger != nil {
		e.logger.Debug("recording", "device", device.Name, "chunks", totalChunks, "duration", duration)
	}

	pcm := make([]byte, 0, totalChunks*ChunkBytes)
	chunk := make([]byte, ChunkBytes)

	for read := 0; read < totalChunks; read++ {
		select {
		case <-ctx.Done():
			return nil, shared.ErrCancelled
		default:
		}

		if _, err := io.ReadFull(stream, chunk); err != nil {
			return nil, &CaptureError{Reason: "input stream read failed", Err: err}
		}

		pcm = append(pcm, chunk...)
		onProgress(100 * (read + 1) / totalChunks)
	}

	return NewClip(pcm, SampleRate, Channels, BitDepth), nil
}
