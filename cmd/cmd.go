// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/desertthunder/scx/internal/services"
	"github.com/urfave/cli/v3"
)

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable debug logging",
	}
}

// outputFlags are shared by every command printing items.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		verboseFlag(),
	}
}

// pageFlags are shared by paginated collection commands.
func pageFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "reset",
			Usage: "Start from the first page instead of continuing",
		},
	}, outputFlags()...)
}

func idArgument() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config.toml if missing, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   r.configFile(),
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage SoundCloud authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with SoundCloud in the browser (OAuth2 authorization code)",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: 2 * time.Minute,
					},
					verboseFlag(),
				},
				Action: r.withService(r.AuthLogin),
			},
			{
				Name:   "refresh",
				Usage:  "Exchange the stored refresh token for new tokens",
				Flags:  []cli.Flag{verboseFlag()},
				Action: r.withService(r.AuthRefresh),
			},
			{
				Name:   "logout",
				Usage:  "Forget stored tokens",
				Flags:  []cli.Flag{verboseFlag()},
				Action: r.withService(r.AuthLogout),
			},
			{
				Name:   "status",
				Usage:  "Show current authentication state",
				Flags:  outputFlags(),
				Action: r.withService(r.AuthStatus),
			},
		},
	}
}

func streamCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stream",
		Usage:  "Next page of your stream",
		Flags:  pageFlags(),
		Action: r.collection(services.EndpointStream),
	}
}

func likesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "likes",
		Usage:  "Next page of your liked tracks",
		Flags:  pageFlags(),
		Action: r.collection(services.EndpointLikes),
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search SoundCloud",
		Commands: []*cli.Command{
			{
				Name:      "tracks",
				Usage:     "Search tracks",
				ArgsUsage: "<query>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     pageFlags(),
				Action:    r.Search(services.SearchTracks),
			},
			{
				Name:      "playlists",
				Usage:     "Search playlists",
				ArgsUsage: "<query>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     pageFlags(),
				Action:    r.Search(services.SearchPlaylists),
			},
		},
	}
}

func meCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "Your own uploads and playlists",
		Commands: []*cli.Command{
			{
				Name:   "tracks",
				Usage:  "Your tracks followed by your playlists",
				Flags:  pageFlags(),
				Action: r.withService(r.MeTracks),
			},
			{
				Name:   "playlists",
				Usage:  "Playlists you created",
				Flags:  pageFlags(),
				Action: r.collection(services.EndpointSelfPlaylists),
			},
			{
				Name:    "liked-playlists",
				Aliases: []string{"liked"},
				Usage:   "Playlists you liked",
				Flags:   pageFlags(),
				Action:  r.withService(r.LikedPlaylists),
			},
		},
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlist",
		Usage:     "Next page of a playlist's tracks",
		ArgsUsage: "<playlist-id>",
		Arguments: idArgument(),
		Flags:     pageFlags(),
		Action:    r.withService(r.Playlist),
	}
}

func userCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Other users",
		Commands: []*cli.Command{
			{
				Name:      "tracks",
				Usage:     "Next page of a user's tracks",
				ArgsUsage: "<user-id>",
				Arguments: idArgument(),
				Flags:     pageFlags(),
				Action:    r.withService(r.UserTracks),
			},
		},
	}
}

func followersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "followers",
		Usage:  "Next page of people following you",
		Flags:  pageFlags(),
		Action: r.collection(services.EndpointFollowers),
	}
}

func followingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "followings",
		Aliases: []string{"following"},
		Usage:   "Next page of people you follow",
		Flags:   pageFlags(),
		Action:  r.collection(services.EndpointFollowings),
	}
}

func likeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "like",
		Usage:     "Like, unlike or toggle a track",
		ArgsUsage: "<track-id>",
		Arguments: idArgument(),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "unlike", Usage: "Remove the like"},
			&cli.BoolFlag{Name: "toggle", Usage: "Flip the current like state"},
			verboseFlag(),
		},
		Action: r.withService(r.Like),
	}
}

func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "track",
		Usage:     "Show one track",
		ArgsUsage: "<track-id>",
		Arguments: idArgument(),
		Flags:     outputFlags(),
		Action:    r.withService(r.Track),
	}
}

func streamURLCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "stream-url",
		Usage:     "Resolve a track's stream URL",
		ArgsUsage: "<track-id>",
		Arguments: idArgument(),
		Flags:     []cli.Flag{verboseFlag()},
		Action:    r.withService(r.StreamURL),
	}
}

func downloadURLCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "download-url",
		Usage:     "Resolve a track's download URL",
		ArgsUsage: "<track-id>",
		Arguments: idArgument(),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Print nothing when no download is available"},
			verboseFlag(),
		},
		Action: r.withService(r.DownloadURL),
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export whole collections to files",
		ArgsUsage: "[collection[:arg]...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: soundcloud_export_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Collections exported concurrently",
				Value: r.config.Export.Workers,
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Page requests per second",
				Value: r.config.Export.RateLimit,
			},
			&cli.IntFlag{
				Name:  "max-pages",
				Usage: "Page cap per collection",
				Value: r.config.Export.MaxPages,
			},
			verboseFlag(),
		},
		Action: r.withService(r.Export),
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive collection browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the TUI owns the terminal",
				Value: "./tmp/scx-tui.log",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Format for exports started from the TUI",
				Value: "json",
			},
		},
		Action: r.TUI,
	}
}
