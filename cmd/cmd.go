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

func syncFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Preview actions without mutating the remote list",
		},
		&cli.BoolFlag{
			Name:  "remove-extras",
			Usage: "Remove remote items not present in the input file",
		},
		&cli.FloatFlag{
			Name:  "threshold",
			Usage: "Minimum match score (0.0-1.0)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}
}

// wantlistCommand handles wantlist operations
func wantlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "wantlist",
		Aliases: []string{"wl"},
		Usage:   "Wantlist operations",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Reconcile a CSV or JSON file against the wantlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags:  syncFlags(),
				Action: r.WantlistSync,
			},
			{
				Name:  "add",
				Usage: "Resolve one record and add it to the wantlist",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Artist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "album",
						Usage:    "Album title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Preferred format (vinyl, cd, cassette)",
					},
					&cli.FloatFlag{
						Name:  "threshold",
						Usage: "Minimum match score (0.0-1.0)",
					},
					&cli.BoolFlag{
						Name:  "allow-duplicate",
						Usage: "Skip the duplicate check",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.WantlistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a release from the wantlist by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "release_id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.WantlistRemove,
			},
			{
				Name:  "list",
				Usage: "List the wantlist",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Bypass the local snapshot cache",
					},
				},
				Action: r.WantlistList,
			},
		},
	}
}

// collectionCommand handles collection operations
func collectionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "collection",
		Aliases: []string{"coll"},
		Usage:   "Collection operations",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Reconcile a CSV or JSON file against the collection",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags: append(syncFlags(),
					&cli.IntFlag{
						Name:  "folder",
						Usage: "Collection folder for adds (1 = Uncategorized)",
					}),
				Action: r.CollectionSync,
			},
			{
				Name:  "add",
				Usage: "Resolve one record and add it to the collection",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Artist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "album",
						Usage:    "Album title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Preferred format (vinyl, cd, cassette)",
					},
					&cli.IntFlag{
						Name:  "folder",
						Usage: "Collection folder for the add (1 = Uncategorized)",
					},
					&cli.FloatFlag{
						Name:  "threshold",
						Usage: "Minimum match score (0.0-1.0)",
					},
					&cli.BoolFlag{
						Name:  "allow-duplicate",
						Usage: "Skip the duplicate check",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CollectionAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove the first held instance of a release by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "release_id"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.CollectionRemove,
			},
			{
				Name:  "list",
				Usage: "List a collection folder (0 = all folders)",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "folder",
						Usage: "Folder to list",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Bypass the local snapshot cache",
					},
				},
				Action: r.CollectionList,
			},
		},
	}
}

// marketplaceCommand handles marketplace pricing operations
func marketplaceCommand(r *Runner) *cli.Command {
	filters := []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:  "format",
			Usage: "Keep versions matching this format",
		},
		&cli.StringFlag{
			Name:  "country",
			Usage: "Keep versions from this country",
		},
		&cli.FloatFlag{
			Name:  "min-price",
			Usage: "Drop results below this price",
		},
		&cli.FloatFlag{
			Name:  "max-price",
			Usage: "Drop results above this price",
		},
		&cli.IntFlag{
			Name:  "max-versions",
			Usage: "Maximum versions of a master to price",
		},
		&cli.BoolFlag{
			Name:  "suggestions",
			Usage: "Fetch per-condition price suggestions",
		},
		&cli.FloatFlag{
			Name:  "threshold",
			Usage: "Minimum match score for artist/album resolution",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}

	return &cli.Command{
		Name:    "marketplace",
		Aliases: []string{"market"},
		Usage:   "Marketplace pricing operations",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Price the versions of a release, master or artist/album pair",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "master-id",
						Usage: "Master ID to enumerate",
					},
					&cli.IntFlag{
						Name:  "release-id",
						Usage: "Concrete release ID to price directly",
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Artist name to resolve",
					},
					&cli.StringFlag{
						Name:  "album",
						Usage: "Album title to resolve",
					},
				}, filters...),
				Action: r.MarketplaceSearch,
			},
			{
				Name:  "batch",
				Usage: "Price every record in a CSV or JSON file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags:  filters,
				Action: r.MarketplaceBatch,
			},
		},
	}
}

// searchCommand resolves a single record without mutating anything
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Resolve an artist/album pair to a catalog release",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "artist",
				Usage:    "Artist name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "album",
				Usage:    "Album title",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Preferred format (vinyl, cd, cassette)",
			},
			&cli.IntFlag{
				Name:  "year",
				Usage: "Release year",
			},
			&cli.FloatFlag{
				Name:  "threshold",
				Usage: "Minimum match score (0.0-1.0)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Discogs credentials",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Store a personal access token and verify it",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "token",
						Usage:    "Personal access token from discogs.com/settings/developers",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check the stored credentials against the identity endpoint",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove stored credentials",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogout,
			},
		},
	}
}

// cacheCommand handles the local snapshot cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local snapshot cache",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "List cached snapshots",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheStatus,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached snapshot",
				Action: r.CacheClear,
			},
		},
	}
}
