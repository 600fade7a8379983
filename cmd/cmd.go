// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/desertthunder/songsheet/internal/formatter"
	"github.com/desertthunder/songsheet/internal/services"
	"github.com/desertthunder/songsheet/internal/tasks"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func remoteFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "remote",
		Usage: "Base URL of a running songsheet API (reads the local database when empty)",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func limitFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Maximum number of songs to return",
		Value:   services.DefaultListLimit,
	}
}

func formatFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, markdown, json, yaml or csv",
		Value:   value,
	}
}

// serviceFlags are the flags of every command reading or writing songs.
func serviceFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{configFlag(), remoteFlag()}, extra...)
}

func idArg(name string) cli.Argument {
	return &cli.StringArg{Name: name}
}

// setupCommand initializes configuration and the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a config.toml from the built-in template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
			{
				Name:   "status",
				Usage:  "List migrations and whether they are applied",
				Flags:  []cli.Flag{configFlag(), jsonFlag()},
				Action: r.SetupStatus,
			},
		},
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the songsheet JSON API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.host and server.port",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the health endpoint in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// artistsCommand handles artist listings
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artists",
		Usage: "Artist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List artists by name",
				Flags:  serviceFlags(jsonFlag()),
				Action: r.ArtistsList,
			},
			{
				Name:   "random",
				Usage:  "Pick a random artist that has songs",
				Flags:  serviceFlags(jsonFlag()),
				Action: r.ArtistsRandom,
			},
			{
				Name:      "songs",
				Usage:     "List the songs of one artist",
				Arguments: []cli.Argument{idArg("id")},
				Flags:     serviceFlags(jsonFlag()),
				Action:    r.ArtistSongs,
			},
		},
	}
}

// songsCommand handles song sheets
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"s"},
		Usage:   "Song sheet operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List songs grouped by artist",
				Flags: serviceFlags(
					jsonFlag(),
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"q"},
						Usage:   "Only songs whose title or artist contains this term",
					},
				),
				Action: r.SongsList,
			},
			{
				Name:      "show",
				Usage:     "Show a song sheet",
				Arguments: []cli.Argument{idArg("id")},
				Flags: serviceFlags(
					formatFlag(formatter.FormatText),
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Render the Markdown sheet for the terminal",
					},
				),
				Action: r.SongsShow,
			},
			{
				Name:   "recent",
				Usage:  "List recently added songs",
				Flags:  serviceFlags(limitFlag(), jsonFlag()),
				Action: r.SongsRecent,
			},
			{
				Name:   "popular",
				Usage:  "List the most viewed songs",
				Flags:  serviceFlags(limitFlag(), jsonFlag()),
				Action: r.SongsPopular,
			},
			{
				Name:      "add",
				Usage:     "Create a song from a YAML submission file",
				Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
				Flags:     serviceFlags(),
				Action:    r.SongsAdd,
			},
			{
				Name:      "edit",
				Usage:     "Replace a song from a YAML file, or print its current YAML when no file is given",
				Arguments: []cli.Argument{idArg("id")},
				Flags: serviceFlags(
					&cli.StringFlag{
						Name:  "file",
						Usage: "YAML submission file",
					},
				),
				Action: r.SongsEdit,
			},
			{
				Name:      "favorite",
				Usage:     "Toggle the favorite marker of a song",
				Arguments: []cli.Argument{idArg("id")},
				Flags:     serviceFlags(),
				Action:    r.SongsFavorite,
			},
			{
				Name:      "play",
				Usage:     "Print a song sheet at the pace of its tempo",
				Arguments: []cli.Argument{idArg("id")},
				Flags: serviceFlags(
					&cli.FloatFlag{
						Name:    "multiplier",
						Aliases: []string{"m"},
						Usage:   "Speed multiplier between 0.25 and 5",
						Value:   1,
					},
					&cli.IntFlag{
						Name:  "height",
						Usage: "Lines shown before scrolling starts",
						Value: 20,
					},
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Time between scroll ticks",
						Value: 100 * time.Millisecond,
					},
				),
				Action: r.SongsPlay,
			},
			{
				Name:      "export",
				Usage:     "Export one song sheet to a file",
				Arguments: []cli.Argument{idArg("id")},
				Flags: serviceFlags(
					formatFlag(formatter.FormatMarkdown),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (defaults to the song slug)",
					},
				),
				Action: r.SongsExport,
			},
			{
				Name:  "export-all",
				Usage: "Export every song with a pool of workers",
				Flags: serviceFlags(
					formatFlag(formatter.FormatMarkdown),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (defaults to songsheet_export_{epoch})",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of concurrent writers",
						Value:   tasks.DefaultWorkers,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Songs fetched per second",
						Value: tasks.DefaultRateLimit,
					},
					&cli.StringFlag{
						Name:  "ids",
						Usage: "Comma separated song IDs (defaults to every song)",
					},
				),
				Action: r.SongsExportAll,
			},
		},
	}
}

// chordsCommand handles the fingering catalog
func chordsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "chords",
		Usage: "Chord fingering catalog",
		Commands: []*cli.Command{
			{
				Name:      "lookup",
				Usage:     "Show the fingering and diagram of a chord",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ChordsLookup,
			},
			{
				Name:  "suggest",
				Usage: "List chord suggestions, marking chords already in use",
				Flags: []cli.Flag{
					jsonFlag(),
					&cli.StringFlag{
						Name:  "in-use",
						Usage: "Comma separated chords already on the sheet",
					},
				},
				Action: r.ChordsSuggest,
			},
		},
	}
}

// lyricsCommand handles sheet text parsing and rendering
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lyrics",
		Usage: "Lyrics segmentation and rendering",
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "Print the segments of a lyrics file as JSON",
				Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.LyricsParse,
			},
			{
				Name:      "render",
				Usage:     "Render a lyrics file with section labels and chord grids",
				Arguments: []cli.Argument{&cli.StringArg{Name: "file"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, markdown or html",
						Value:   "text",
					},
				},
				Action: r.LyricsRender,
			},
			{
				Name:      "import",
				Usage:     "Extract sheet text from a lyrics web page",
				Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "selector",
						Usage: "CSS selector of the lyrics container",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the text to this file instead of stdout",
					},
				},
				Action: r.LyricsImport,
			},
		},
	}
}

// tuiCommand launches the terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive terminal UI",
		Flags: serviceFlags(
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file while the UI runs",
				Value: "./tmp/songsheet-tui.log",
			},
		),
		Action: r.TUI,
	}
}
