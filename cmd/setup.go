package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v3"
	"github.com/vibecatch/vibecatch/internal/shared"
)

// Setup creates config.toml when missing, optionally imports RapidAPI
// credentials from a copy-as-cURL snippet, and initializes the history
// database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Created %s\n", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if curlFile := cmd.String("from-curl"); curlFile != "" {
		key, host, err := importCredentials(curlFile)
		if err != nil {
			return err
		}

		config.Recognition.APIKey = key
		config.Recognition.APIHost = host
		if err := writeConfig(configPath, config); err != nil {
			return err
		}

		r.logger.Info("credentials imported", "host", host)
		r.writePlain("✓ RapidAPI credentials imported for %s\n", host)
	}

	r.config = config

	r.logger.Info("initializing history database", "path", config.Storage.HistoryPath)
	_, closeHistory, err := r.openHistory()
	if err != nil {
		return err
	}
	closeHistory()

	r.writePlain("✓ History database ready at %s\n", config.Storage.HistoryPath)

	if config.Recognition.APIKey == "" || config.Recognition.APIKey == "your_rapidapi_key" {
		r.writePlainln("Next steps:")
		r.writePlain("1. Set recognition.api_key in %s, or rerun with --from-curl\n", configPath)
		r.writePlain("2. Run 'vibecatch listen' to catch what's playing\n")
	}

	return nil
}

// importCredentials extracts the RapidAPI key and host from a cURL snippet file.
func importCredentials(curlFile string) (key, host string, err error) {
	headers, err := shared.ParseCurlFile(curlFile)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse cURL file: %w", err)
	}
	return headers.RapidAPI()
}

func writeConfig(path string, config *shared.Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
