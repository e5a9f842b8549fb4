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

// runCommand starts the bot
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Connect to Discord and handle messages until interrupted",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Run,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml, the settings file and the token file from templates",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// settingsCommand inspects and edits the autofix settings file offline
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Inspect or change per-user autofix settings",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show the autofix setting of a user",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "user",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SettingsGet,
			},
			{
				Name:  "set",
				Usage: "Change the autofix setting of a user (restart a running bot to apply it)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "user",
					},
					&cli.StringArg{
						Name: "value",
					},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.SettingsSet,
			},
			{
				Name:  "list",
				Usage: "List every stored autofix setting",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: table, text, csv or json",
						Value:   "table",
					},
				},
				Action: r.SettingsList,
			},
		},
	}
}
