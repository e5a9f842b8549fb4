package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/faustok/internal/formatter"
	"github.com/desertthunder/faustok/internal/repositories"
	"github.com/desertthunder/faustok/internal/shared"
	"github.com/desertthunder/faustok/internal/ui"
	"github.com/urfave/cli/v3"
)

func (r *Runner) openSettings(cmd *cli.Command) (*repositories.SettingsStore, error) {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	return repositories.LoadSettings(config.Files.SettingsPath)
}

// SettingsGet prints the autofix setting of one user.
func (r *Runner) SettingsGet(ctx context.Context, cmd *cli.Command) error {
	user := strings.TrimSpace(cmd.StringArg("user"))
	if user == "" {
		return fmt.Errorf("%w: user", shared.ErrMissingArgument)
	}

	store, err := r.openSettings(cmd)
	if err != nil {
		return err
	}
	value := store.Get(user)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"user": user, "autofix": value}, false)
	}
	return r.writePlain("%s\n", formatter.AutofixStatus(user, value))
}

// SettingsSet changes the autofix setting of one user and writes the file.
func (r *Runner) SettingsSet(ctx context.Context, cmd *cli.Command) error {
	user := strings.TrimSpace(cmd.StringArg("user"))
	raw := strings.TrimSpace(cmd.StringArg("value"))
	if user == "" || raw == "" {
		return fmt.Errorf("%w: user and value", shared.ErrMissingArgument)
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("%w: %q is not a boolean", shared.ErrInvalidArgument, raw)
	}

	store, err := r.openSettings(cmd)
	if err != nil {
		return err
	}

	if err := store.SetAndPersist(user, value); err != nil {
		return err
	}

	r.logger.Info("autofix updated", "user", user, "value", value, "path", store.Path())
	r.logger.Warn("a running bot keeps its own copy of the settings and overwrites this file on its next change; restart it to apply", "path", store.Path())
	return r.writePlain("%s\n", ui.OK(fmt.Sprintf("autofix for %s set to %t", user, value)))
}

// SettingsList prints every stored setting.
func (r *Runner) SettingsList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openSettings(cmd)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if format == "table" {
		return r.writePlain("%s\n", ui.SettingsTable(store.Snapshot()))
	}

	data, err := formatter.ExportSettings(store.Snapshot(), format)
	if err != nil {
		return err
	}
	out := string(data)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return r.writePlain("%s", out)
}
