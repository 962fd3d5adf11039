package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/quercle/operion-quercle/pkg/cmd"
	"github.com/quercle/operion-quercle/pkg/credentials"
	"github.com/quercle/operion-quercle/pkg/log"
	"github.com/quercle/operion-quercle/pkg/models"
	nodequercle "github.com/quercle/operion-quercle/pkg/nodes/quercle"
	"github.com/quercle/operion-quercle/pkg/otelhelper"
	"github.com/quercle/operion-quercle/pkg/protocol"
	"github.com/quercle/operion-quercle/pkg/web"
	cli "github.com/urfave/cli/v3"
)

// session is the runtime built from the global flags for one command.
type session struct {
	logger         *slog.Logger
	factory        *nodequercle.QuercleNodeFactory
	credentialType protocol.CredentialType
	store          *credentials.Store
	env            credentials.EnvLookup
	shutdown       otelhelper.ShutdownFunc
}

func newSession(ctx context.Context, command *cli.Command) (*session, error) {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("cli")

	tracer, shutdown := cmd.NewTracer(ctx, logger, command.Bool("otel"), "quercle")

	store := credentials.NewStore()
	store.SetAPIKey(command.String("api-key"))

	env := credentials.OSEnv()

	reg, err := cmd.NewRegistry(ctx, logger, cmd.Options{
		BaseURL:     command.String("base-url"),
		Tracer:      tracer,
		Credentials: store,
		Env:         env,
	})
	if err != nil {
		return nil, err
	}

	registered, _ := reg.NodeFactory(nodequercle.NodeType)

	factory, ok := registered.(*nodequercle.QuercleNodeFactory)
	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", nodequercle.NodeType)
	}

	credentialType, ok := reg.CredentialType(credentials.QuercleAPIName)
	if !ok {
		return nil, fmt.Errorf("credential type '%s' not registered", credentials.QuercleAPIName)
	}

	return &session{
		logger:         logger,
		factory:        factory,
		credentialType: credentialType,
		store:          store,
		env:            env,
		shutdown:       shutdown,
	}, nil
}

func (s *session) close(ctx context.Context) {
	if err := s.shutdown(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to shutdown tracer", "error", err)
	}
}

// execute validates config and runs it over items.
func (s *session) execute(ctx context.Context, req web.ExecuteNodeRequest) ([]models.Item, error) {
	if err := nodequercle.ValidateConfig(req.Parameters); err != nil {
		return nil, err
	}

	return s.factory.Executor().Execute(ctx, nodequercle.Batch{
		Items: req.Items,
		Parameters: &nodequercle.TemplateParameters{
			Config:    req.Parameters,
			Overrides: req.Overrides,
			Items:     req.Items,
			ExecutionContext: &models.ExecutionContext{
				ID:        uuid.New().String(),
				NodeID:    nodequercle.NodeType,
				Variables: req.Variables,
				Metadata:  map[string]any{"source": "cli"},
			},
		},
		Credentials:    s.store,
		Env:            s.env,
		ContinueOnFail: req.ContinueOnFail,
	})
}

// single runs one item and prints its result.
func (s *session) single(ctx context.Context, w io.Writer, parameters map[string]any) error {
	items, err := s.execute(ctx, web.ExecuteNodeRequest{
		Parameters: parameters,
		Items:      []models.Item{{JSON: map[string]any{}}},
	})
	if err != nil {
		return err
	}

	result, _ := items[0].JSON["result"].(string)

	_, err = fmt.Fprintln(w, result)

	return err
}

func SearchCommand(ctx context.Context, command *cli.Command) error {
	s, err := newSession(ctx, command)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return s.single(ctx, command.Root().Writer, map[string]any{
		nodequercle.ParamOperation:    "search",
		nodequercle.ParamQuery:        command.String("query"),
		nodequercle.ParamDomainFilter: command.String("domain-filter"),
		nodequercle.ParamDomains:      command.String("domains"),
	})
}

func FetchCommand(ctx context.Context, command *cli.Command) error {
	s, err := newSession(ctx, command)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	return s.single(ctx, command.Root().Writer, map[string]any{
		nodequercle.ParamOperation: "fetch",
		nodequercle.ParamURL:       command.String("url"),
		nodequercle.ParamPrompt:    command.String("prompt"),
	})
}

// RunCommand executes a batch file and prints the output items as JSON.
// When an item aborts the batch, the items produced before it are still printed.
func RunCommand(ctx context.Context, command *cli.Command) error {
	req, err := readBatchFile(command.String("file"))
	if err != nil {
		return err
	}

	if command.Bool("continue-on-fail") {
		req.ContinueOnFail = true
	}

	s, err := newSession(ctx, command)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	items, execErr := s.execute(ctx, req)

	var itemErr *nodequercle.ItemError
	if execErr != nil && !errors.As(execErr, &itemErr) {
		return execErr
	}

	encoder := json.NewEncoder(command.Root().Writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(items); err != nil {
		return err
	}

	return execErr
}

func readBatchFile(path string) (web.ExecuteNodeRequest, error) {
	var req web.ExecuteNodeRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read batch file: %w", err)
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse batch file: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(req); err != nil {
		return req, fmt.Errorf("invalid batch file: %w", err)
	}

	return req, nil
}

// TestCredentialsCommand resolves the API key like an execution would and probes the API with it.
func TestCredentialsCommand(ctx context.Context, command *cli.Command) error {
	s, err := newSession(ctx, command)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	apiKey, err := credentials.ResolveAPIKey(ctx, s.store, s.env, s.logger)
	if err != nil {
		return err
	}

	if err := s.credentialType.Test(ctx, map[string]any{credentials.APIKeyProperty: apiKey}); err != nil {
		return fmt.Errorf("credential test failed: %w", err)
	}

	_, err = fmt.Fprintln(command.Root().Writer, "OK")

	return err
}

func DescribeCommand(ctx context.Context, command *cli.Command) error {
	encoder := json.NewEncoder(command.Root().Writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(nodequercle.Description())
}
