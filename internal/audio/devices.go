package audio

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vibecatch/vibecatch/internal/shared"
)

// Device describes an audio input device as reported by the backend.
// Devices are enumerated fresh on every capture request and never persisted.
type Device struct {
	ID            string
	Name          string
	InputChannels int
}

// Enumerator lists the audio devices the capture backend can open.
// Enumeration order is whatever the underlying subsystem reports.
type Enumerator interface {
	Devices(ctx context.Context) ([]Device, error)
}

// SelectInputDevice picks a capture device from the enumerator's list.
//
// Policy, in order: a device whose name contains "loopback"
// (case-insensitive) wins, since it captures what the system is playing;
// otherwise the first device with at least one input channel is used and
// logged; otherwise [shared.ErrNoInputDevice].
func SelectInputDevice(ctx context.Context, enum Enumerator, logger *log.Logger) (Device, error) {
	devices, err := enum.Devices(ctx)
	if err != nil {
		return Device{}, fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), "loopback") {
			return d, nil
		}
	}

	for _, d := range devices {
		if d.InputChannels > 0 {
			if logger != nil {
				logger.Info("no loopback device found, using input device", "device", d.Name)
			}
			return d, nil
		}
	}

	return Device{}, shared.ErrNoInputDevice
}

// FindDevice returns the first enumerated device whose name contains name
// (case-insensitive). Used when a device is pinned in configuration.
func FindDevice(ctx context.Context, enum Enumerator, name string) (Device, error) {
	devices, err := enum.Devices(ctx)
	if err != nil {
		return Device{}, fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	want := strings.ToLower(name)
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), want) {
			return d, nil
		}
	}

	return Device{}, fmt.Errorf("%w: no device matching %q", shared.ErrNoInputDevice, name)
}
