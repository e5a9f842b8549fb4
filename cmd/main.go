package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/faustok/internal/formatter"
	"github.com/desertthunder/faustok/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{
		Logger:     logger,
		HTTPClient: &http.Client{},
	})

	app := &cli.Command{
		Name:     "faustok",
		Usage:    "Discord bot that fixes TikTok embeds and reuploads TikTok media",
		Version:  formatter.Version,
		Flags:    []cli.Flag{configFlag()},
		Action:   runner.Run,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args)
	stop()

	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
