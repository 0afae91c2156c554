// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP API and static front end.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
			&cli.StringFlag{
				Name:  "public-dir",
				Usage: "Directory of static front-end files (overrides server.public_dir)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the front end in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand writes a config file and initializes the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml if missing, initialize database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

// migrateCommand applies, rolls back or lists schema migrations.
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Roll back the most recent migration instead",
			},
			&cli.BoolFlag{
				Name:  "status",
				Usage: "List migrations and whether each is applied",
			},
		},
		Action: r.Migrate,
	}
}

// importCommand imports a show from TheTVDB by name.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "import",
		Aliases: []string{"add"},
		Usage:   "Import a show from TheTVDB by name",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "name",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the stored show as JSON",
			},
		},
		Action: r.Import,
	}
}

// showsCommand lists stored shows.
func showsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "shows",
		Usage: "List stored shows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Only shows tagged with this genre (exact match)",
			},
			&cli.StringFlag{
				Name:  "alphabet",
				Usage: "Only shows whose name starts with one of these letters",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, json or csv",
				Value:   "table",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Shorthand for --format json",
			},
		},
		Action: r.Shows,
	}
}

// showCommand prints one stored show with its episodes.
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print a stored show and its episode guide",
		Arguments: []cli.Argument{
			&cli.IntArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: markdown or json",
				Value:   "markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
		},
		Action: r.Show,
	}
}

// usersCommand lists registered users.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "List registered users",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Users,
	}
}

// browseCommand returns the top-level TUI command for browsing and importing shows.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch the interactive show browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Only shows tagged with this genre",
			},
			&cli.StringFlag{
				Name:  "alphabet",
				Usage: "Only shows whose name starts with one of these letters",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the browser owns the terminal",
				Value: "./tmp/showtrack-tui.log",
			},
		},
		Action: r.TUI,
	}
}
