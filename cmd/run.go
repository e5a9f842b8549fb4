package main

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/desertthunder/faustok/internal/bot"
	"github.com/desertthunder/faustok/internal/repositories"
	"github.com/desertthunder/faustok/internal/server"
	"github.com/desertthunder/faustok/internal/services"
	"github.com/desertthunder/faustok/internal/shared"
	"github.com/desertthunder/faustok/internal/tasks"
	"github.com/desertthunder/faustok/internal/triage"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// botStatus backs the status endpoint with the live bot and settings store.
type botStatus struct {
	bot   *bot.Bot
	store *repositories.SettingsStore
}

func (s botStatus) Ready() bool       { return s.bot.Ready() }
func (s botStatus) Len() int          { return s.store.Len() }
func (s botStatus) EnabledCount() int { return s.store.EnabledCount() }

// Run loads the token and settings files, connects to Discord and serves events until interrupted.
//
// A missing or corrupt token or settings file aborts startup.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if err := shared.ApplyLogLevel(r.logger, config.Log.Level); err != nil {
		return err
	}

	secrets, err := shared.LoadSecrets(config.Files.TokenPath)
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	store, err := repositories.LoadSettings(config.Files.SettingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	r.logger.Info("settings loaded", "path", store.Path(), "users", store.Len(), "autofix_enabled", store.EnabledCount())

	session, err := bot.NewSession(secrets.Token)
	if err != nil {
		return err
	}

	b, err := r.newBot(config, session, store)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(gctx, session) })

	if config.Server.Enabled {
		srv := server.New(config.Server, botStatus{bot: b, store: store}, shared.WithLogger(r.logger, "component", "server"))
		g.Go(func() error { return srv.Run(gctx) })
	}

	return g.Wait()
}

// newBot wires the resolver, fetcher, relay pipeline and triage into a [bot.Bot].
// Every outbound request shares r.httpClient.
func (r *Runner) newBot(config *shared.Config, session *discordgo.Session, store *repositories.SettingsStore) (*bot.Bot, error) {
	resolver := services.NewTiklydownService(config.Resolver.BaseURL, r.httpClient).
		WithTimeout(config.Resolver.Timeout.Duration)

	pipeline := tasks.NewRelayPipeline(tasks.RelayOpts{
		Resolver:         resolver,
		Fetcher:          services.NewHTTPFetcher(r.httpClient),
		DownloadDir:      config.Files.DownloadDir,
		BatchSize:        config.Relay.BatchSize,
		FetchConcurrency: config.Relay.FetchConcurrency,
		Logger:           shared.WithLogger(r.logger, "component", "relay"),
	})

	tr, err := triage.New(config.Triage.MirrorURL, config.Bot.Prefix)
	if err != nil {
		return nil, err
	}

	return bot.New(bot.Opts{
		Session:        session,
		Settings:       store,
		Triage:         tr,
		Relayer:        pipeline,
		Prefix:         config.Bot.Prefix,
		Workers:        config.Bot.Workers,
		CommandTimeout: config.Bot.CommandTimeout.Duration,
		Logger:         shared.WithLogger(r.logger, "component", "bot"),
	})
}
