// Package main provides the quercle command line client.
package main

import (
	"context"
	"io"
	"os"

	"github.com/quercle/operion-quercle/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func main() {
	logger := log.WithModule("cli")

	err := newApp(os.Stdout).Run(context.Background(), os.Args)
	if err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:                  "quercle",
		Usage:                 "AI-powered web search and fetch",
		EnableShellCompletion: true,
		Writer:                w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Quercle API base URL",
				Sources: cli.EnvVars("QUERCLE_BASE_URL"),
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "Quercle API key; QUERCLE_API_KEY is used when unset",
			},
			&cli.BoolFlag{
				Name:    "otel",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "Search the web and get an AI-synthesized answer with citations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "The search query",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "domain-filter",
						Usage: "Filter results by domain (none, allowed, blocked)",
						Value: "none",
					},
					&cli.StringFlag{
						Name:  "domains",
						Usage: "Comma-separated list of domains",
					},
				},
				Action: SearchCommand,
			},
			{
				Name:    "fetch",
				Aliases: []string{"f"},
				Usage:   "Fetch a URL and analyze its content with AI",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Aliases:  []string{"u"},
						Usage:    "The URL to fetch and analyze",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "prompt",
						Aliases:  []string{"p"},
						Usage:    "Instructions for how to analyze the page content",
						Required: true,
					},
				},
				Action: FetchCommand,
			},
			{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "Run a batch of items from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"i"},
						Usage:    "Batch file with parameters, items and overrides",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "continue-on-fail",
						Usage: "Emit an error item and keep going when an item fails",
					},
				},
				Action: RunCommand,
			},
			{
				Name:   "test-credentials",
				Usage:  "Check the API key against the Quercle API",
				Action: TestCredentialsCommand,
			},
			{
				Name:   "describe",
				Usage:  "Print the node descriptor as JSON",
				Action: DescribeCommand,
			},
		},
	}
}
