// package services defines interface Recognizer for remote song identification
package services

import (
	"context"

	"github.com/vibecatch/vibecatch/internal/audio"
	"github.com/vibecatch/vibecatch/internal/models"
)

// Recognizer identifies a captured clip against a remote recognition service.
type Recognizer interface {
	// Recognize uploads the clip and returns the identified track.
	// A legitimate "no match" outcome is reported as [shared.ErrNotRecognized];
	// transport and service failures as *ServiceError. Exactly one request is
	// made per call; retry policy belongs to the caller.
	Recognize(ctx context.Context, clip *audio.Clip) (*models.Track, error)

	// Name returns the name of the recognition provider (e.g. "Shazam")
	Name() string
}
