// Shazam (via RapidAPI) implementation of [Recognizer]
//
// Response types based on the shazam-api6 recognize endpoint: a JSON body
// with an optional nested track object carrying title/subtitle/key.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/vibecatch/vibecatch/internal/audio"
	"github.com/vibecatch/vibecatch/internal/models"
	"github.com/vibecatch/vibecatch/internal/shared"
)

const (
	uploadFieldName = "upload_file"
	unknownValue    = "Unknown"
)

// ServiceError is a recognition-service failure.
//
// Transient reports whether retrying the whole session is reasonable: network
// failures and 5xx responses are transient, other non-success statuses are not.
type ServiceError struct {
	Transient bool
	Code      int
	Body      string
	Err       error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("recognition request failed: %v", e.Err)
	case e.Body != "":
		return fmt.Sprintf("recognition service returned %d: %s", e.Code, e.Body)
	default:
		return fmt.Sprintf("recognition service returned %d", e.Code)
	}
}

func (e *ServiceError) Unwrap() error { return e.Err }

// shazamResponse is the documented slice of the recognize response. Fields
// beyond these are ignored rather than guessed at.
type shazamResponse struct {
	Track *shazamTrack `json:"track"`
}

type shazamTrack struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"` // artist
	Key      string `json:"key"`
}

// ShazamService implements [Recognizer] against the RapidAPI Shazam endpoint.
// It performs exactly one multipart upload per Recognize call.
type ShazamService struct {
	endpoint   string
	apiKey     string
	apiHost    string
	maxUpload  int
	httpClient *http.Client
}

// NewShazamService creates a recognition client from configuration.
func NewShazamService(cfg shared.RecognitionConfig, client *http.Client) (*ShazamService, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("missing recognition endpoint")
	}
	if cfg.APIKey == "" || cfg.APIHost == "" {
		return nil, fmt.Errorf("missing recognition api_key or api_host")
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ShazamService{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		apiHost:    cfg.APIHost,
		maxUpload:  cfg.MaxUploadBytes,
		httpClient: client,
	}, nil
}

// Name returns the provider name.
func (s *ShazamService) Name() string { return "Shazam" }

// Recognize uploads the clip's WAV bytes and maps the response to a track.
func (s *ShazamService) Recognize(ctx context.Context, clip *audio.Clip) (*models.Track, error) {
	wav := clip.WAV()
	if s.maxUpload > 0 && len(wav) > s.maxUpload {
		return nil, fmt.Errorf("clip is %d bytes, exceeding the %d byte upload limit", len(wav), s.maxUpload)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="recording.wav"`, uploadFieldName))
	header.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-rapidapi-key", s.apiKey)
	req.Header.Set("x-rapidapi-host", s.apiHost)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &ServiceError{Transient: true, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServiceError{Transient: true, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{
			Transient: resp.StatusCode >= 500,
			Code:      resp.StatusCode,
			Body:      string(respBody),
		}
	}

	var parsed shazamResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		// A success status with an unparseable body carries no track payload.
		return nil, shared.ErrNotRecognized
	}
	if parsed.Track == nil {
		return nil, shared.ErrNotRecognized
	}

	track := &models.Track{
		Title:  parsed.Track.Title,
		Artist: parsed.Track.Subtitle,
		Key:    parsed.Track.Key,
	}
	if track.Title == "" {
		track.Title = unknownValue
	}
	if track.Artist == "" {
		track.Artist = unknownValue
	}

	return track, nil
}
