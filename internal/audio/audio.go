// package audio implements input device selection and timed PCM capture.
//
// The capture parameters are fixed by the recognition service's expectations:
// clips that deviate from 44.1kHz mono 16-bit may be rejected upstream.
package audio

import "time"

const (
	SampleRate   = 44100 // samples per second
	Channels     = 1
	BitDepth     = 16
	ChunkSamples = 1024                       // samples read per stream read
	ChunkBytes   = ChunkSamples * BitDepth / 8 // bytes per chunk (16-bit mono)

	// DefaultClipLength is the recording length used when the caller does not
	// override it. ~440KB of PCM, under the service's 500KB upload ceiling.
	DefaultClipLength = 5 * time.Second
)

// Clip is the immutable product of one capture session: raw PCM plus the
// format metadata it was recorded with.
type Clip struct {
	pcm        []byte
	sampleRate int
	channels   int
	bitDepth   int
}

// NewClip wraps raw PCM bytes in a Clip. The slice is copied so later writes
// by the producer cannot mutate the clip.
func NewClip(pcm []byte, sampleRate, channels, bitDepth int) *Clip {
	buf := make([]byte, len(pcm))
	copy(buf, pcm)
	return &Clip{pcm: buf, sampleRate: sampleRate, channels: channels, bitDepth: bitDepth}
}

// PCM returns the raw sample bytes.
func (c *Clip) PCM() []byte { return c.pcm }

// SampleRate returns the clip's sample rate in Hz.
func (c *Clip) SampleRate() int { return c.sampleRate }

// Channels returns the clip's channel count.
func (c *Clip) Channels() int { return c.channels }

// BitDepth returns the clip's bits per sample.
func (c *Clip) BitDepth() int { return c.bitDepth }

// Duration computes the clip length from its PCM size and format.
func (c *Clip) Duration() time.Duration {
	bytesPerSecond := c.sampleRate * c.channels * c.bitDepth / 8
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(len(c.pcm)) * time.Second / time.Duration(bytesPerSecond)
}
