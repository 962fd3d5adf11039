package main

import (
	"context"
	"os"

	"github.com/quercle/operion-quercle/pkg/cmd"
	"github.com/quercle/operion-quercle/pkg/credentials"
	"github.com/quercle/operion-quercle/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "quercle-api",
		Usage:                 "Serve the Quercle node over HTTP",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Quercle API base URL",
				Sources: cli.EnvVars("QUERCLE_BASE_URL"),
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "Stored Quercle API key; QUERCLE_API_KEY is used when unset",
			},
			&cli.StringFlag{
				Name:     "plugins-path",
				Usage:    "Path to the directory containing node plugins",
				Value:    "./plugins",
				Required: false,
			},
			&cli.BoolFlag{
				Name:    "otel",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Quercle API")

			tracer, shutdown := cmd.NewTracer(ctx, logger, command.Bool("otel"), "quercle-api")
			defer func() {
				if err := shutdown(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to shutdown tracer", "error", err)
				}
			}()

			store := credentials.NewStore()
			store.SetAPIKey(command.String("api-key"))

			registry, err := cmd.NewRegistry(ctx, logger, cmd.Options{
				BaseURL:     command.String("base-url"),
				PluginsPath: command.String("plugins-path"),
				Tracer:      tracer,
				Credentials: store,
				Env:         credentials.OSEnv(),
			})
			if err != nil {
				return err
			}

			api := NewAPI(logger, registry, store, credentials.OSEnv())

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return err
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
