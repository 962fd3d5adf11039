package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/quercle/operion-quercle/pkg/credentials"
	"github.com/quercle/operion-quercle/pkg/models"
	nodequercle "github.com/quercle/operion-quercle/pkg/nodes/quercle"
	"github.com/quercle/operion-quercle/pkg/protocol"
	"github.com/quercle/operion-quercle/pkg/registry"
)

type APIHandlers struct {
	logger      *slog.Logger
	validator   *validator.Validate
	registry    *registry.Registry
	credentials protocol.CredentialLookup
	env         credentials.EnvLookup
}

func NewAPIHandlers(
	logger *slog.Logger,
	validator *validator.Validate,
	registry *registry.Registry,
	lookup protocol.CredentialLookup,
	env credentials.EnvLookup,
) *APIHandlers {
	return &APIHandlers{
		logger:      logger,
		validator:   validator,
		registry:    registry,
		credentials: lookup,
		env:         env,
	}
}

func (h *APIHandlers) GetNodes(c fiber.Ctx) error {
	return c.JSON(h.registry.Components())
}

// GetNode returns the full descriptor of a node type when it has one.
func (h *APIHandlers) GetNode(c fiber.Ctx) error {
	nodeType := c.Params("type")

	factory, ok := h.registry.NodeFactory(nodeType)
	if !ok {
		return notFound(c, "node_not_found", "node type '"+nodeType+"' not registered")
	}

	if describer, ok := factory.(protocol.NodeDescriber); ok {
		return c.JSON(describer.Describe())
	}

	return c.JSON(models.RegisteredComponent{
		Type:        factory.ID(),
		Name:        factory.Name(),
		Description: factory.Description(),
		Schema:      factory.Schema(),
	})
}

func (h *APIHandlers) ExecuteNode(c fiber.Ctx) error {
	nodeType := c.Params("type")

	var req ExecuteNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	factory, ok := h.registry.NodeFactory(nodeType)
	if !ok {
		return notFound(c, "node_not_found", "node type '"+nodeType+"' not registered")
	}

	executionID := uuid.New().String()
	execCtx := models.ExecutionContext{
		ID:        executionID,
		NodeID:    nodeType,
		Variables: req.Variables,
		Metadata:  map[string]any{"source": "api"},
	}

	logger := h.logger.With("execution_id", executionID, "node_type", nodeType)

	node, err := h.registry.CreateNode(c.Context(), nodeType, nodeType, req.Parameters)
	if err != nil {
		return handleQuercleError(c, err)
	}

	// Quercle nodes run through their executor so item failures keep their type.
	if qf, ok := factory.(*nodequercle.QuercleNodeFactory); ok {
		items, err := qf.Executor().Execute(c.Context(), nodequercle.Batch{
			Items: req.Items,
			Parameters: &nodequercle.TemplateParameters{
				Config:           req.Parameters,
				Overrides:        req.Overrides,
				Items:            req.Items,
				ExecutionContext: &execCtx,
			},
			Credentials:    h.credentials,
			Env:            h.env,
			ContinueOnFail: req.ContinueOnFail,
		})
		if err != nil {
			logger.WarnContext(c.Context(), "Execution failed", "error", err, "completed", len(items))

			return handleQuercleError(c, err)
		}

		logger.InfoContext(c.Context(), "Execution finished", "items", len(items))

		return c.JSON(ExecuteNodeResponse{ExecutionID: executionID, Items: items})
	}

	outputs, err := node.Execute(c.Context(), execCtx, map[string]models.NodeResult{
		nodequercle.InputPortMain: {
			NodeID:    "api",
			Data:      map[string]any{"items": req.Items},
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now().UTC(),
		},
	})
	if err != nil {
		return handleQuercleError(c, err)
	}

	return c.JSON(ExecuteNodeResponse{ExecutionID: executionID, Outputs: outputs})
}

// TestCredentials runs the credential type's test request with the given key.
func (h *APIHandlers) TestCredentials(c fiber.Ctx) error {
	name := c.Params("name")

	var req TestCredentialsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	credentialType, ok := h.registry.CredentialType(name)
	if !ok {
		return notFound(c, "credential_not_found", "credential type '"+name+"' not registered")
	}

	err := credentialType.Test(c.Context(), map[string]any{credentials.APIKeyProperty: req.APIKey})
	if err != nil {
		if errors.Is(err, credentials.ErrMissingAPIKey) {
			return badRequest(c, err.Error())
		}

		return handleQuercleError(c, err)
	}

	return c.JSON(TestCredentialsResponse{Status: "OK"})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	nodeTypes := len(h.registry.NodeFactories())

	status := "unhealthy"
	message := "Quercle API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if nodeTypes > 0 {
		status = "healthy"
		message = "Quercle API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry": fiber.Map{"node_types": nodeTypes},
		},
		"timestamp": time.Now().UTC(),
	})
}
