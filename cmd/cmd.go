// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// app is the root command. Without a subcommand it runs the interactive session.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "interlude",
		Usage:   "Rate and keep track of your favourite albums, songs and artists",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "users",
				Usage: "Path to the user store (overrides storage.path)",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Dotenv file with SPOTIFY_ID and SPOTIFY_SECRET",
				Value: ".env",
			},
		},
		Before:   r.Load,
		Action:   r.Session,
		Commands: r.register(),
	}
}

// setupCommand writes the config template and prepares the configured store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the user store",
		Action: r.Setup,
	}
}

// authCommand connects a Spotify account for top tracks.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize interlude with your Spotify account using OAuth2",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL instead of opening a browser",
			},
		},
		Action: r.Auth,
	}
}

// discoverCommand lists new releases.
func discoverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "discover",
		Aliases: []string{"new"},
		Usage:   "List new releases on Spotify",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Browse releases interactively",
			},
		},
		Action: r.Discover,
	}
}

// usersCommand inspects the user store.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Inspect stored users",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List users and their favorite counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.UsersList,
			},
		},
	}
}

// exportCommand writes a user's favorites, or everyone's with --all, to files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export favorites as CSV, Markdown or plain text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Username whose favorites to export",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Export every stored user into --dir",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: csv, md or txt",
				Value:   "md",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: {user}_favorites.{format})",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Output directory for --all (default: favorites_export_{timestamp})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent exports for --all (max 10)",
				Value: 4,
			},
		},
		Action: r.Export,
	}
}
