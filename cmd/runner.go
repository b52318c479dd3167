package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/vibecatch/vibecatch/internal/audio"
	"github.com/vibecatch/vibecatch/internal/repositories"
	"github.com/vibecatch/vibecatch/internal/services"
	"github.com/vibecatch/vibecatch/internal/shared"
	"github.com/vibecatch/vibecatch/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	enumerator audio.Enumerator
	opener     audio.Opener
	recognizer services.Recognizer
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	playlists *repositories.PlaylistRepository
}

// RunnerOpts contains configuration options for creating a Runner.
// Zero-value fields get production defaults; tests inject fakes.
type RunnerOpts struct {
	Config     *shared.Config
	Enumerator audio.Enumerator
	Opener     audio.Opener
	Recognizer services.Recognizer
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	if opts.Enumerator == nil || opts.Opener == nil {
		backend := audio.NewFFmpeg(opts.Config.Audio.FFmpegPath, opts.Logger)
		if opts.Enumerator == nil {
			opts.Enumerator = backend
		}
		if opts.Opener == nil {
			opts.Opener = backend
		}
	}

	return &Runner{
		config:     opts.Config,
		enumerator: opts.Enumerator,
		opener:     opts.Opener,
		recognizer: opts.Recognizer,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, e.g. to a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		listenCommand, watchCommand, devicesCommand, playlistCommand, historyCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Recognizer returns the configured recognition client, constructing the
// Shazam client on first use.
func (r *Runner) Recognizer() (services.Recognizer, error) {
	if r.recognizer != nil {
		return r.recognizer, nil
	}

	svc, err := services.NewShazamService(r.config.Recognition, r.httpClient)
	if err != nil {
		return nil, fmt.Errorf("recognition service unavailable: %w (run 'vibecatch setup')", err)
	}
	r.recognizer = svc
	return svc, nil
}

// Playlists returns the loaded playlist store, loading it on first use.
func (r *Runner) Playlists() (*repositories.PlaylistRepository, error) {
	if r.playlists != nil {
		return r.playlists, nil
	}

	store := repositories.NewPlaylistRepository(r.config.Storage.PlaylistsPath, r.config.Playlists.Categories)
	if err := store.Load(); err != nil {
		return nil, err
	}
	r.playlists = store
	return store, nil
}

// SessionEngine builds a capture session engine from the runner's dependencies.
// A zero clipLength uses the configured recording length.
func (r *Runner) SessionEngine(deviceName string, clipLength time.Duration) (*tasks.SessionEngine, error) {
	recognizer, err := r.Recognizer()
	if err != nil {
		return nil, err
	}

	if deviceName == "" {
		deviceName = r.config.Audio.Device
	}
	if clipLength <= 0 {
		clipLength = r.config.ClipLength()
	}

	return tasks.NewSessionEngine(tasks.SessionOpts{
		Enumerator: r.enumerator,
		Opener:     r.opener,
		Recognizer: recognizer,
		ClipLength: clipLength,
		DeviceName: deviceName,
		Logger:     r.logger,
	}), nil
}

func (r *Runner) openHistory() (*repositories.RecognitionRepository, func(), error) {
	db, err := shared.NewDatabase(r.config.Storage.HistoryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Storage.MaxOpenConns, r.config.Storage.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repositories.NewRecognitionRepository(db), func() { db.Close() }, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
