// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// listenCommand runs one capture-and-recognize session.
func listenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "listen",
		Aliases: []string{"catch"},
		Usage:   "Record a clip of what's playing and identify it",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "Recording length in seconds",
			},
			&cli.StringFlag{
				Name:  "device",
				Usage: "Input device name (overrides config)",
			},
			&cli.StringFlag{
				Name:    "add",
				Aliases: []string{"a"},
				Usage:   "File the identified track under this mood category",
			},
			&cli.StringFlag{
				Name:    "save-wav",
				Aliases: []string{"w"},
				Usage:   "Also write the recorded clip to this WAV file",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the identified track as JSON",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress progress output",
			},
		},
		Action: r.Listen,
	}
}

// watchCommand runs back-to-back sessions until interrupted.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Continuously identify what's playing, recording every attempt to history",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Recognition requests per second (overrides config)",
			},
			&cli.StringFlag{
				Name:  "device",
				Usage: "Input device name (overrides config)",
			},
			&cli.StringFlag{
				Name:    "add",
				Aliases: []string{"a"},
				Usage:   "File every identified track under this mood category",
			},
		},
		Action: r.Watch,
	}
}

// devicesCommand lists audio input devices.
func devicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List available audio input devices",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Devices,
	}
}

// playlistCommand handles mood playlist operations.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"playlists", "pl"},
		Usage:   "Mood playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List mood categories and their track counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:  "show",
				Usage: "Show the tracks in one mood playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "category"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistShow,
			},
			{
				Name:  "add",
				Usage: "Manually add a track to a mood playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "category"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Track title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Track artist",
						Required: true,
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "export",
				Usage: "Export a mood playlist to CSV, Markdown or plain text",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "category"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown or text",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// historyCommand inspects the recognition history database.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Recognition history operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent recognition attempts",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of rows to return",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:   "stats",
				Usage:  "Show match statistics",
				Action: r.HistoryStats,
			},
		},
	}
}

// setupCommand initializes configuration, credentials and the history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml, import credentials and initialize the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "from-curl",
				Usage: "Path to a file with a RapidAPI copy-as-cURL snippet to import credentials from",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive TUI",
		Action:  r.TUI,
	}
}
