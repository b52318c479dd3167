package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Recognition.APIHost != "shazam-api6.p.rapidapi.com" {
			t.Errorf("expected default api host, got %s", config.Recognition.APIHost)
		}

		if config.Recognition.MaxUploadBytes != 500000 {
			t.Errorf("expected max upload 500000, got %d", config.Recognition.MaxUploadBytes)
		}

		if config.Storage.PlaylistsPath != "./playlists.json" {
			t.Errorf("expected playlists path ./playlists.json, got %s", config.Storage.PlaylistsPath)
		}

		if len(config.Playlists.Categories) != 4 {
			t.Errorf("expected 4 categories, got %d", len(config.Playlists.Categories))
		}

		if config.ClipLength() != 5*time.Second {
			t.Errorf("expected 5s clip length, got %s", config.ClipLength())
		}
	})

	t.Run("ClipLength Zero Falls Back", func(t *testing.T) {
		config := &Config{}
		if config.ClipLength() != 5*time.Second {
			t.Errorf("expected fallback 5s clip length, got %s", config.ClipLength())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Recognition.Endpoint != defaultConfig.Recognition.Endpoint {
			t.Errorf("created config endpoint doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[recognition]
endpoint = "https://example.com/recognize/"
api_key = "test_key"
api_host = "example.com"
max_upload_bytes = 250000
watch_rate = 0.5

[audio]
device = "Loopback Audio"
clip_seconds = 8
ffmpeg_path = "/usr/local/bin/ffmpeg"

[storage]
playlists_path = "/custom/playlists.json"
history_path = "/custom/history.db"

[playlists]
categories = ["hyped", "chill", "romantic", "focus", "feelgood"]
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Recognition.APIKey != "test_key" {
			t.Errorf("expected api key test_key, got %s", config.Recognition.APIKey)
		}

		if config.Audio.Device != "Loopback Audio" {
			t.Errorf("expected device Loopback Audio, got %s", config.Audio.Device)
		}

		if config.ClipLength() != 8*time.Second {
			t.Errorf("expected 8s clip length, got %s", config.ClipLength())
		}

		if len(config.Playlists.Categories) != 5 {
			t.Errorf("expected 5 categories, got %d", len(config.Playlists.Categories))
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfig Malformed", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for malformed config")
		}
	})
}
