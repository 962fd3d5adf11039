// Package registry keeps the node factories and credential types known to the process.
package registry

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"plugin"
	"sort"
	"strings"

	"github.com/quercle/operion-quercle/pkg/models"
	"github.com/quercle/operion-quercle/pkg/protocol"
)

type Registry struct {
	logger          *slog.Logger
	nodeFactories   map[string]protocol.NodeFactory
	credentialTypes map[string]protocol.CredentialType
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:          log,
		nodeFactories:   make(map[string]protocol.NodeFactory),
		credentialTypes: make(map[string]protocol.CredentialType),
	}
}

// LoadNodePlugins loads node factories exported as the "Node" symbol of
// Go plugins under <pluginsPath>/nodes.
func (r *Registry) LoadNodePlugins(ctx context.Context, pluginsPath string) ([]protocol.NodeFactory, error) {
	return loadPlugin[protocol.NodeFactory](ctx, r.logger, pluginsPath, "Node")
}

func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.nodeFactories[factory.ID()] = factory
}

func (r *Registry) RegisterCredential(credentialType protocol.CredentialType) {
	r.credentialTypes[credentialType.Name()] = credentialType
}

func (r *Registry) CreateNode(ctx context.Context, nodeType, id string, config map[string]any) (models.Node, error) {
	factory, ok := r.nodeFactories[nodeType]
	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", nodeType)
	}

	return factory.Create(ctx, id, config)
}

// NodeFactory returns the factory registered for nodeType.
func (r *Registry) NodeFactory(nodeType string) (protocol.NodeFactory, bool) {
	factory, ok := r.nodeFactories[nodeType]

	return factory, ok
}

// NodeFactories returns all node factories sorted by ID.
func (r *Registry) NodeFactories() []protocol.NodeFactory {
	factories := make([]protocol.NodeFactory, 0, len(r.nodeFactories))
	for _, factory := range r.nodeFactories {
		factories = append(factories, factory)
	}

	sort.Slice(factories, func(i, j int) bool {
		return factories[i].ID() < factories[j].ID()
	})

	return factories
}

// CredentialType returns the credential type registered under name.
func (r *Registry) CredentialType(name string) (protocol.CredentialType, bool) {
	credentialType, ok := r.credentialTypes[name]

	return credentialType, ok
}

// Components lists every node type with its metadata.
func (r *Registry) Components() []*models.RegisteredComponent {
	factories := r.NodeFactories()

	components := make([]*models.RegisteredComponent, 0, len(factories))
	for _, factory := range factories {
		components = append(components, &models.RegisteredComponent{
			Type:        factory.ID(),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return components
}

func loadPlugin[T any](ctx context.Context, logger *slog.Logger, pluginsPath string, symbolName string) ([]T, error) {
	rootPath := pluginsPath + "/" + strings.ToLower(symbolName) + "s"

	if _, err := os.Stat(rootPath); os.IsNotExist(err) {
		logger.DebugContext(ctx, "No plugin directory", "path", rootPath)

		return []T{}, nil
	}

	root := os.DirFS(rootPath)

	pluginPathList, err := fs.Glob(root, "**/*.so")
	if err != nil {
		return nil, err
	}

	l := logger.With(slog.String("path", pluginsPath), slog.String("type", symbolName))
	l.InfoContext(ctx, "Loading plugins")

	pluginList := make([]T, 0, len(pluginPathList))

	for _, p := range pluginPathList {
		plg, err := plugin.Open(rootPath + "/" + p)
		if err != nil {
			return nil, fmt.Errorf("failed to open plugin %s: %w", p, err)
		}

		v, err := plg.Lookup(symbolName)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p, err)
		}

		castV, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("plugin %s: symbol %s has unexpected type %T", p, symbolName, v)
		}

		pluginList = append(pluginList, castV)

		l.InfoContext(ctx, "Loaded node plugin", slog.String("plugin", p))
	}

	return pluginList, nil
}
