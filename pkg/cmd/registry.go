// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"log/slog"

	"github.com/quercle/operion-quercle/pkg/credentials"
	nodequercle "github.com/quercle/operion-quercle/pkg/nodes/quercle"
	"github.com/quercle/operion-quercle/pkg/protocol"
	"github.com/quercle/operion-quercle/pkg/quercle"
	"github.com/quercle/operion-quercle/pkg/registry"
	"go.opentelemetry.io/otel/trace"
)

// Options configures the node runtime shared by the CLI and the API server.
type Options struct {
	BaseURL     string
	PluginsPath string
	Tracer      trace.Tracer
	Credentials protocol.CredentialLookup
	Env         credentials.EnvLookup
}

func registerNodePlugins(ctx context.Context, reg *registry.Registry, pluginsPath string) error {
	nodePlugins, err := reg.LoadNodePlugins(ctx, pluginsPath)
	if err != nil {
		return err
	}

	for _, plugin := range nodePlugins {
		reg.RegisterNode(plugin)
	}

	return nil
}

// NewExecutor creates the Quercle executor pointed at baseURL, or the public API when empty.
func NewExecutor(log *slog.Logger, tracer trace.Tracer, baseURL string) *nodequercle.Executor {
	var opts []quercle.Option
	if baseURL != "" {
		opts = append(opts, quercle.WithBaseURL(baseURL))
	}

	return nodequercle.NewExecutor(log, tracer, opts...)
}

// NewRegistry registers the native Quercle node and credential type, then any node plugins.
func NewRegistry(ctx context.Context, log *slog.Logger, opts Options) (*registry.Registry, error) {
	reg := registry.NewRegistry(log)

	executor := NewExecutor(log, opts.Tracer, opts.BaseURL)
	reg.RegisterDefaultNodes(executor, opts.Credentials, opts.Env, credentials.NewQuercleAPI(opts.BaseURL, nil))

	if opts.PluginsPath != "" {
		if err := registerNodePlugins(ctx, reg, opts.PluginsPath); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
