package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Capture errors and outcomes
	ErrNoInputDevice = fmt.Errorf("no suitable audio input device")
	ErrCancelled     = fmt.Errorf("session cancelled")

	// Recognition outcomes
	ErrNotRecognized = fmt.Errorf("no match for recording")

	// Playlist store errors
	ErrUnknownCategory = fmt.Errorf("unknown playlist category")
	ErrCorruptStore    = fmt.Errorf("playlist store is corrupt")

	// Session errors
	ErrSessionBusy = fmt.Errorf("a capture session is already active")

	// CLI argument errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
