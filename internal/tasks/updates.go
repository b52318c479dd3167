package tasks

import "fmt"

// State enumerates the capture session machine:
// Idle → Recording → Recognizing → {Completed, Failed, Cancelled} → Idle.
type State int

const (
	Idle State = iota
	Recording
	Recognizing
	Completed
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Recognizing:
		return "recognizing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return ""
	}
}

// Terminal reports whether the state awaits acknowledgement.
func (s State) Terminal() bool {
	return s == Completed || s == Failed || s == Cancelled
}

// ProgressUpdate represents a progress event during an active session.
//
// Updates are delivered in FIFO order per session; capture percent ticks are
// forwarded from the engine unchanged.
type ProgressUpdate struct {
	State   State  // Session state this update belongs to
	Percent int    // Cumulative capture progress, 0–100
	Message string // Human-readable message for display
}

func selectingUpdate() ProgressUpdate {
	return ProgressUpdate{State: Recording, Message: "Selecting audio input device..."}
}

func recordingUpdate(device string) ProgressUpdate {
	return ProgressUpdate{State: Recording, Message: fmt.Sprintf("Recording from %s...", device)}
}

func capturePercentUpdate(percent int) ProgressUpdate {
	return ProgressUpdate{State: Recording, Percent: percent, Message: "Recording system audio..."}
}

func recognizingUpdate(provider string, percent int) ProgressUpdate {
	return ProgressUpdate{State: Recognizing, Percent: percent, Message: fmt.Sprintf("Identifying track with %s...", provider)}
}
