package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	if p := os.Getenv("SHOWTRACK_CONFIG"); p != "" {
		configPath = p
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		loadedConfig, err := shared.LoadConfig(configPath)
		if err != nil {
			logger.Fatalf("failed to load config: %v", err)
		}
		config = loadedConfig
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "showtrack",
		Usage:    "Track TV shows backed by TheTVDB",
		Version:  "0.1.0",
		Commands: runner.register(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
