package quercle

import (
	"context"

	"github.com/quercle/operion-quercle/pkg/credentials"
	"github.com/quercle/operion-quercle/pkg/models"
	"github.com/quercle/operion-quercle/pkg/protocol"
	"github.com/quercle/operion-quercle/pkg/quercle"
)

// QuercleNodeFactory creates QuercleNode instances.
type QuercleNodeFactory struct {
	executor    *Executor
	credentials protocol.CredentialLookup
	env         credentials.EnvLookup
}

// NewQuercleNodeFactory creates a new Quercle node factory.
// Nodes resolve their API key from lookup first, then from env.
func NewQuercleNodeFactory(executor *Executor, lookup protocol.CredentialLookup, env credentials.EnvLookup) *QuercleNodeFactory {
	if executor == nil {
		executor = NewExecutor(nil, nil)
	}

	return &QuercleNodeFactory{
		executor:    executor,
		credentials: lookup,
		env:         env,
	}
}

// Create creates a new QuercleNode instance.
func (f *QuercleNodeFactory) Create(ctx context.Context, id string, config map[string]any) (models.Node, error) {
	return NewQuercleNode(id, config, f.executor, f.credentials, f.env)
}

// ID returns the factory ID.
func (f *QuercleNodeFactory) ID() string {
	return NodeType
}

// Name returns the factory name.
func (f *QuercleNodeFactory) Name() string {
	return NodeDisplayName
}

// Description returns the factory description.
func (f *QuercleNodeFactory) Description() string {
	return NodeSummary
}

// Describe returns the form descriptor of the node.
func (f *QuercleNodeFactory) Describe() models.NodeDescription {
	return Description()
}

// Executor returns the executor shared by the nodes of this factory.
func (f *QuercleNodeFactory) Executor() *Executor {
	return f.executor
}

// Schema returns the JSON schema for Quercle node configuration.
func (f *QuercleNodeFactory) Schema() map[string]any {
	return ConfigSchema()
}

// ConfigSchema is the draft-07 schema of the node configuration.
// String parameters other than operation accept templates such as "{{.item.topic}}".
func ConfigSchema() map[string]any {
	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]any{
			ParamOperation: map[string]any{
				"type":        "string",
				"description": "Operation to perform",
				"default":     string(quercle.OperationSearch),
				"enum":        []any{string(quercle.OperationSearch), string(quercle.OperationFetch)},
			},
			ParamQuery: map[string]any{
				"type":        "string",
				"description": QueryDescription,
				"minLength":   1,
				"examples":    []string{"What is TypeScript?", "{{.item.topic}}"},
			},
			ParamDomainFilter: map[string]any{
				"type":        "string",
				"description": "Filter search results by domain",
				"default":     string(quercle.DomainFilterNone),
				"enum": []any{
					string(quercle.DomainFilterNone),
					string(quercle.DomainFilterAllowed),
					string(quercle.DomainFilterBlocked),
				},
			},
			ParamDomains: map[string]any{
				"type":        "string",
				"description": DomainsDescription,
				"examples":    []string{"example.com, another.com"},
			},
			ParamURL: map[string]any{
				"type":        "string",
				"description": URLDescription,
				"minLength":   1,
				"examples":    []string{"https://example.com/page", "{{.item.url}}"},
			},
			ParamPrompt: map[string]any{
				"type":        "string",
				"description": PromptDescription,
				"minLength":   1,
			},
			ParamContinueOnFail: map[string]any{
				"type":        "boolean",
				"description": "Emit an error item and keep going when an item fails",
				"default":     false,
			},
		},
		"if": map[string]any{
			"properties": map[string]any{
				ParamOperation: map[string]any{"const": string(quercle.OperationFetch)},
			},
			"required": []any{ParamOperation},
		},
		"then": map[string]any{
			"required": []any{ParamURL, ParamPrompt},
		},
		"else": map[string]any{
			"required": []any{ParamQuery},
		},
		"examples": []map[string]any{
			{
				ParamOperation:    "search",
				ParamQuery:        "Latest Go release notes",
				ParamDomainFilter: "allowed",
				ParamDomains:      "go.dev, github.com",
			},
			{
				ParamOperation:      "fetch",
				ParamURL:            "{{.item.url}}",
				ParamPrompt:         "Summarize the article",
				ParamContinueOnFail: true,
			},
		},
	}
}
