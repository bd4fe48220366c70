// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of records to return",
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "Listing offset",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}
}

// accountsCommand handles account listings
func accountsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "accounts",
		Aliases: []string{"acct"},
		Usage:   "Hosting account operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List accounts visible to the configured credentials",
				Flags:  listFlags(),
				Action: r.AccountsList,
			},
		},
	}
}

// sitesCommand handles site listings
func sitesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sites",
		Usage: "Site operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List sites, optionally scoped to one account",
				Flags: append(listFlags(),
					&cli.StringFlag{
						Name:    "account",
						Aliases: []string{"a"},
						Usage:   "Account ID to scope the listing to",
					},
				),
				Action: r.SitesList,
			},
		},
	}
}

// installsCommand handles install listings
func installsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "installs",
		Usage: "WordPress install operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List installs, optionally scoped to one account",
				Flags: append(listFlags(),
					&cli.StringFlag{
						Name:    "account",
						Aliases: []string{"a"},
						Usage:   "Account ID to scope the listing to",
					},
				),
				Action: r.InstallsList,
			},
		},
	}
}

// usersCommand handles the merged user directory
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Account user operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List users across every account, deduplicated by email",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "account",
						Aliases: []string{"a"},
						Usage:   "List one account's users instead of the merged directory",
					},
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

// bulkCommand handles headless batch execution and history
func bulkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bulk",
		Usage: "Bulk user provisioning",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Execute a batch described by a plan file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the JSON plan",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Write a CSV report to this path",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output results as JSON",
					},
				},
				Action: r.BulkRun,
			},
			{
				Name:  "history",
				Usage: "List recorded batches",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of batches to list",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.BulkHistory,
			},
			{
				Name:  "results",
				Usage: "Show one recorded batch's per-operation outcomes",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "batch-id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.BulkResults,
			},
		},
	}
}

// authCommand handles credential checks
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Credential operations",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Probe the configured credentials against the API",
				Action: r.AuthStatus,
			},
		},
	}
}

// setupCommand handles local scaffolding
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize local state",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the history database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml scaffold",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// consoleCommand launches the TUI
func consoleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "console",
		Aliases: []string{"ui"},
		Usage:   "Launch the interactive console",
		Action:  r.Console,
	}
}
