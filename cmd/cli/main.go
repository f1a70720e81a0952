package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/pictofold/pictofold-cli/internal/client/cli"
	"github.com/pictofold/pictofold-cli/internal/client/config"
	"github.com/pictofold/pictofold-cli/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
