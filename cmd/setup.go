package main

import (
	"context"
	"os"

	"github.com/desertthunder/faustok/internal/repositories"
	"github.com/desertthunder/faustok/internal/shared"
	"github.com/desertthunder/faustok/internal/ui"
	"github.com/urfave/cli/v3"
)

// Setup creates config.toml, the settings file and the token file when they are missing.
// Existing files are left untouched.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	r.writePlain("%s\n", ui.Title("faustok setup"))

	if err := r.createIfMissing(configPath, "config", shared.CreateConfigFile); err != nil {
		return err
	}

	config, err := r.loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := r.createIfMissing(config.Files.SettingsPath, "settings", repositories.CreateSettingsFile); err != nil {
		return err
	}
	if err := r.createIfMissing(config.Files.TokenPath, "token", shared.CreateSecretsFile); err != nil {
		return err
	}

	r.writePlainln("%s", ui.Hint("Next: put your bot token in "+config.Files.TokenPath+" and run 'faustok run'"))
	return nil
}

func (r *Runner) createIfMissing(path, label string, create func(string) error) error {
	if _, err := os.Stat(path); err == nil {
		r.logger.Debug("file exists, skipping", "kind", label, "path", path)
		r.writePlain("%s\n", ui.Hint(label+" file exists: "+path))
		return nil
	}

	if err := create(path); err != nil {
		r.writePlain("%s\n", ui.Err("failed to create "+label+" file "+path))
		return err
	}

	r.logger.Info("file created", "kind", label, "path", path)
	r.writePlain("%s\n", ui.OK("created "+label+" file "+path))
	return nil
}
