package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

var goos = func() string { return runtime.GOOS }

// FFmpeg captures audio by shelling out to ffmpeg, streaming raw s16le PCM
// over a pipe. It implements both [Enumerator] and [Opener].
type FFmpeg struct {
	path   string
	logger *log.Logger
}

// NewFFmpeg creates an ffmpeg-backed capture backend. An empty path uses the
// ffmpeg found on PATH.
func NewFFmpeg(path string, logger *log.Logger) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{path: path, logger: logger}
}

// Check verifies the ffmpeg binary is available.
func (f *FFmpeg) Check() error {
	if _, err := exec.LookPath(f.path); err != nil {
		return fmt.Errorf("ffmpeg not found at %q: %w", f.path, err)
	}
	return nil
}

// inputFormat returns the ffmpeg capture demuxer for the current platform.
func (f *FFmpeg) inputFormat() string {
	switch goos() {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "pulse"
	}
}

// Devices enumerates audio input devices, in the order ffmpeg reports them.
func (f *FFmpeg) Devices(ctx context.Context) ([]Device, error) {
	if f.inputFormat() == "pulse" {
		out, _ := f.run(ctx, "-hide_banner", "-sources", "pulse")
		return parsePulseSources(out), nil
	}

	// ffmpeg exits non-zero after -list_devices; the listing is on stderr
	// either way, so the exit status is ignored.
	out, _ := f.run(ctx, "-hide_banner", "-f", f.inputFormat(), "-list_devices", "true", "-i", "")
	return parseListedDevices(out), nil
}

// Open starts an ffmpeg process recording from device at the fixed capture
// parameters, returning its stdout as a PCM stream.
func (f *FFmpeg) Open(ctx context.Context, device Device) (Stream, error) {
	input := device.ID
	switch f.inputFormat() {
	case "avfoundation":
		input = ":" + device.ID // audio-only input spec
	case "dshow":
		input = "audio=" + device.Name
	}

	cmd := exec.CommandContext(ctx, f.path,
		"-hide_banner", "-loglevel", "error",
		"-f", f.inputFormat(),
		"-i", input,
		"-ac", strconv.Itoa(Channels),
		"-ar", strconv.Itoa(SampleRate),
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create ffmpeg pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	if f.logger != nil {
		f.logger.Debug("ffmpeg capture started", "device", device.Name, "pid", cmd.Process.Pid)
	}

	return &ffmpegStream{cmd: cmd, stdout: stdout, stderr: &stderr}, nil
}

func (f *FFmpeg) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, f.path, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// ffmpegStream wraps a running ffmpeg process; Close kills it and reaps it.
type ffmpegStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
}

func (s *ffmpegStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if err != nil && err != io.EOF && s.stderr.Len() > 0 {
		return n, fmt.Errorf("%w: %s", err, strings.TrimSpace(s.stderr.String()))
	}
	return n, err
}

func (s *ffmpegStream) Close() error {
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
	return s.stdout.Close()
}

// parseListedDevices extracts audio devices from -list_devices output, e.g.
//
//	[AVFoundation indev @ 0x7f] AVFoundation audio devices:
//	[AVFoundation indev @ 0x7f] [0] MacBook Pro Microphone
func parseListedDevices(out string) []Device {
	var devices []Device
	inAudio := false

	for _, line := range strings.Split(out, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "audio devices") {
			inAudio = true
			continue
		}
		if strings.Contains(lower, "video devices") {
			inAudio = false
			continue
		}
		if !inAudio {
			continue
		}

		open := strings.LastIndex(line, "[")
		end := strings.LastIndex(line, "]")
		if open < 0 || end < open || end+1 >= len(line) {
			continue
		}
		id := line[open+1 : end]
		if _, err := strconv.Atoi(id); err != nil {
			continue
		}
		name := strings.TrimSpace(line[end+1:])
		if name == "" {
			continue
		}
		devices = append(devices, Device{ID: id, Name: name, InputChannels: 1})
	}

	return devices
}

// parsePulseSources extracts sources from `ffmpeg -sources pulse` output, e.g.
//
//	alsa_output.pci-0000_00_1f.3.analog-stereo.monitor [Monitor of Built-in Audio]
//	alsa_input.pci-0000_00_1f.3.analog-stereo [Built-in Audio Analog Stereo] *
//
// Monitor sources capture system playback, so their display names are
// suffixed to qualify under the loopback selection policy.
func parsePulseSources(out string) []Device {
	var devices []Device

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), "*"))
		if line == "" || strings.HasPrefix(line, "Auto-detected") || !strings.HasSuffix(line, "]") {
			continue
		}

		open := strings.Index(line, " [")
		if open < 0 {
			continue
		}
		id := strings.TrimSpace(line[:open])
		name := line[open+2 : len(line)-1]
		if strings.HasSuffix(id, ".monitor") {
			name += " (loopback)"
		}
		devices = append(devices, Device{ID: id, Name: name, InputChannels: 1})
	}

	return devices
}
