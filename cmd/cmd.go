// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to .env file with Spotify credentials",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// fetchCommand handles the track metadata pipeline
func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "fetch",
		Aliases: []string{"f"},
		Usage:   "Fetch track metadata for a list of track IDs",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "input",
				UsageText: "ID file (one per line) or comma-separated IDs",
			},
		},
		Flags: append(configFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file base name (default derives from input)",
			},
			&cli.BoolFlag{
				Name:  "features",
				Usage: "Request audio features (omitted from the report when unavailable)",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "similar",
				Usage: "Discover similar tracks via the artist's catalog",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Echo the report as indented JSON instead of a summary",
			},
		),
		Action: r.Fetch,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  configFlags(),
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show token cache state",
				Flags:  configFlags(),
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Delete the cached token",
				Flags:  configFlags(),
				Action: r.AuthLogout,
			},
		},
	}
}
