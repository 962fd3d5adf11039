// Package quercle provides the Quercle search and fetch node for workflow graph execution.
package quercle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quercle/operion-quercle/pkg/credentials"
	"github.com/quercle/operion-quercle/pkg/models"
	"github.com/quercle/operion-quercle/pkg/protocol"
	"github.com/quercle/operion-quercle/pkg/quercle"
	"github.com/xeipuuv/gojsonschema"
)

const (
	OutputPortSuccess = "success"
	OutputPortError   = "error"
	InputPortMain     = "main"
)

// QuercleNode implements the Node interface for Quercle search and fetch.
type QuercleNode struct {
	id          string
	config      map[string]any
	executor    *Executor
	credentials protocol.CredentialLookup
	env         credentials.EnvLookup
}

// NewQuercleNode creates a node after validating config against the node schema.
func NewQuercleNode(
	id string,
	config map[string]any,
	executor *Executor,
	lookup protocol.CredentialLookup,
	env credentials.EnvLookup,
) (*QuercleNode, error) {
	if config == nil {
		config = map[string]any{}
	}

	node := &QuercleNode{
		id:          id,
		config:      config,
		executor:    executor,
		credentials: lookup,
		env:         env,
	}

	if err := node.Validate(config); err != nil {
		return nil, err
	}

	return node, nil
}

// ID returns the node ID.
func (n *QuercleNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *QuercleNode) Type() string {
	return NodeType
}

// Execute runs every input item through the Quercle API.
// Results go to the success port. An item failure that aborts the batch goes to
// the error port with the items produced before it; a missing API key is
// returned as an error because nothing can run without one.
func (n *QuercleNode) Execute(
	ctx context.Context,
	execCtx models.ExecutionContext,
	inputs map[string]models.NodeResult,
) (map[string]models.NodeResult, error) {
	items, err := inputItems(inputs)
	if err != nil {
		return n.createErrorResult(err.Error(), -1, nil), nil
	}

	if execCtx.NodeID == "" {
		execCtx.NodeID = n.id
	}

	continueOnFail, _ := n.config[ParamContinueOnFail].(bool)

	results, err := n.executor.Execute(ctx, Batch{
		Items: items,
		Parameters: &TemplateParameters{
			Config:           n.config,
			Items:            items,
			ExecutionContext: &execCtx,
		},
		Credentials:    n.credentials,
		Env:            n.env,
		ContinueOnFail: continueOnFail,
	})
	if err != nil {
		var itemErr *ItemError
		if errors.As(err, &itemErr) {
			return n.createErrorResult(itemErr.Err.Error(), itemErr.Index, results), nil
		}

		return nil, err
	}

	return map[string]models.NodeResult{
		OutputPortSuccess: {
			NodeID:    n.id,
			Data:      map[string]any{"items": results},
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now().UTC(),
		},
	}, nil
}

// inputItems extracts the items of the main input. Without input the node
// runs once on an empty item; an input without "items" is a single item.
func inputItems(inputs map[string]models.NodeResult) ([]models.Item, error) {
	input, ok := inputs[InputPortMain]
	if !ok {
		return []models.Item{{JSON: map[string]any{}}}, nil
	}

	raw, ok := input.Data["items"]
	if !ok {
		data := input.Data
		if data == nil {
			data = map[string]any{}
		}

		return []models.Item{{JSON: data}}, nil
	}

	items, err := models.ItemsFromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid input items: %w", err)
	}

	return items, nil
}

// createErrorResult creates a NodeResult for the error output port.
func (n *QuercleNode) createErrorResult(errorMessage string, itemIndex int, partial []models.Item) map[string]models.NodeResult {
	if partial == nil {
		partial = []models.Item{}
	}

	return map[string]models.NodeResult{
		OutputPortError: {
			NodeID: n.id,
			Data: map[string]any{
				"error":   errorMessage,
				"item":    itemIndex,
				"items":   partial,
				"success": false,
			},
			Status:    string(models.NodeStatusError),
			Timestamp: time.Now().UTC(),
			Error:     errorMessage,
		},
	}
}

// GetInputPorts returns the input ports for the node.
func (n *QuercleNode) GetInputPorts() []models.InputPort {
	return []models.InputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, InputPortMain),
				NodeID:      n.id,
				Name:        InputPortMain,
				Description: "Items to search or fetch for",
			},
		},
	}
}

// GetOutputPorts returns the output ports for the node.
func (n *QuercleNode) GetOutputPorts() []models.OutputPort {
	itemSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"json": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"result": map[string]any{"type": "string"},
					"error":  map[string]any{"type": "string"},
				},
			},
			"pairedItem": map[string]any{
				"type":       "object",
				"properties": map[string]any{"item": map[string]any{"type": "number"}},
			},
		},
	}

	return []models.OutputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, OutputPortSuccess),
				NodeID:      n.id,
				Name:        OutputPortSuccess,
				Description: "One result item per input item",
				Schema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"items": map[string]any{"type": "array", "items": itemSchema},
					},
				},
			},
		},
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, OutputPortError),
				NodeID:      n.id,
				Name:        OutputPortError,
				Description: "Failure of an item, with the items processed before it",
				Schema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error":   map[string]any{"type": "string"},
						"item":    map[string]any{"type": "number"},
						"items":   map[string]any{"type": "array", "items": itemSchema},
						"success": map[string]any{"type": "boolean"},
					},
				},
			},
		},
	}
}

// InputRequirements returns the input coordination requirements for the node.
func (n *QuercleNode) InputRequirements() models.InputRequirements {
	return models.DefaultInputRequirements()
}

// Validate validates the node configuration against the node schema.
func (n *QuercleNode) Validate(config map[string]any) error {
	return ValidateConfig(config)
}

// ValidateConfig checks a node configuration against ConfigSchema.
func ValidateConfig(config map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(ConfigSchema())
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			messages = append(messages, resultErr.String())
		}

		return &quercle.ValidationError{Message: "invalid node config: " + strings.Join(messages, "; ")}
	}

	return nil
}
