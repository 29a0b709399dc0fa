// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles database and configuration setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file and initialize the snapshot database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// servicesCommand handles service registry inspection.
func servicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "services",
		Usage: "Inspect configured services",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List services and whether they are configured",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ServicesList,
			},
			{
				Name:   "test",
				Usage:  "Probe every configured service's connectivity",
				Action: r.ServicesTest,
			},
		},
	}
}

// collectionsCommand lists the collections of one service.
func collectionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "collections",
		Usage: "List collections on a service",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "service",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.CollectionsList,
	}
}

// tracksCommand fetches the tracks of one collection.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Fetch the tracks of a collection",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "service",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Collection ID to fetch",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save a snapshot of the fetch to the local database",
			},
		},
		Action: r.TracksList,
	}
}

// searchCommand searches every configured service for public collections.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search configured services for public collections",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum results per service",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.SearchRun,
	}
}

// buildCommand renders collections into Tabletop Simulator output files.
func buildCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build Tabletop Simulator music player files from collections",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "service",
			},
		},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "id",
				Usage: "Collection ID to include (repeatable; concatenated in order)",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "Build from a saved snapshot instead of a live fetch",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (defaults to the configured path)",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Music player name (defaults to the collection name)",
			},
			&cli.FloatFlag{
				Name:  "volume",
				Usage: "Per-track volume, 0.0 to 1.0",
			},
			&cli.FloatFlag{
				Name:  "pitch",
				Usage: "Per-track pitch, 0.1 to 3.0",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent fetch workers for multi-collection builds",
				Value: 4,
			},
		},
		Action: r.BuildRun,
	}
}

// cacheCommand manages saved snapshots.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage saved collection snapshots",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved snapshots",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "service",
						Usage: "Filter by service (lastfm, spotify, youtube)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:  "show",
				Usage: "Show a saved snapshot with its tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a saved snapshot",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.CacheDelete,
			},
		},
	}
}
