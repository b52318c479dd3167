package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"
	"github.com/vibecatch/vibecatch/internal/audio"
	"github.com/vibecatch/vibecatch/internal/shared"
)

// Devices lists the audio input devices the capture backend can see.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	devices, err := r.enumerator.Devices(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type deviceJSON struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			InputChannels int    `json:"input_channels"`
		}
		out := make([]deviceJSON, len(devices))
		for i, d := range devices {
			out[i] = deviceJSON{ID: d.ID, Name: d.Name, InputChannels: d.InputChannels}
		}
		return r.writeJSON(out, true)
	}

	if len(devices) == 0 {
		r.writePlain("No audio input devices found.\n")
		return nil
	}

	selected, err := audio.SelectInputDevice(ctx, r.enumerator, nil)
	if err != nil && !errors.Is(err, shared.ErrNoInputDevice) {
		return err
	}

	r.writePlain("Audio input devices:\n")
	for _, d := range devices {
		marker := " "
		if d.ID == selected.ID && d.Name == selected.Name {
			marker = "*"
		}
		r.writePlain("%s [%s] %s (%d in)\n", marker, d.ID, d.Name, d.InputChannels)
	}
	r.writePlain("\n* = selected by default\n")

	return nil
}
