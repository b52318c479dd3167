package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Recognition RecognitionConfig `toml:"recognition"`
	Audio       AudioConfig       `toml:"audio"`
	Storage     StorageConfig     `toml:"storage"`
	Playlists   PlaylistsConfig   `toml:"playlists"`
}

// RecognitionConfig contains the recognition endpoint and its RapidAPI headers.
type RecognitionConfig struct {
	Endpoint       string  `toml:"endpoint"`
	APIKey         string  `toml:"api_key"`
	APIHost        string  `toml:"api_host"`
	MaxUploadBytes int     `toml:"max_upload_bytes"`
	WatchRate      float64 `toml:"watch_rate"` // recognition requests per second in watch mode
}

// AudioConfig contains capture settings.
type AudioConfig struct {
	Device      string `toml:"device"`       // preferred device name, empty = automatic selection
	ClipSeconds int    `toml:"clip_seconds"` // recording length per session
	FFmpegPath  string `toml:"ffmpeg_path"`
}

// StorageConfig contains paths for the durable stores.
type StorageConfig struct {
	PlaylistsPath string `toml:"playlists_path"`
	HistoryPath   string `toml:"history_path"`
	MaxOpenConns  int    `toml:"max_open_conns"`
	MaxIdleConns  int    `toml:"max_idle_conns"`
}

// PlaylistsConfig fixes the mood category set. Categories are configuration,
// never created or destroyed at runtime.
type PlaylistsConfig struct {
	Categories []string `toml:"categories"`
}

// ClipLength returns the configured recording length as a [time.Duration].
func (c *Config) ClipLength() time.Duration {
	if c.Audio.ClipSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Audio.ClipSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
