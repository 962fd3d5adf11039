package quercle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quercle/operion-quercle/pkg/credentials"
	"github.com/quercle/operion-quercle/pkg/models"
	"github.com/quercle/operion-quercle/pkg/otelhelper"
	"github.com/quercle/operion-quercle/pkg/protocol"
	"github.com/quercle/operion-quercle/pkg/quercle"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/quercle/operion-quercle/pkg/nodes/quercle"

// Batch is everything one execution of the node needs.
type Batch struct {
	Items          []models.Item
	Parameters     ParameterSource
	Credentials    protocol.CredentialLookup
	Env            credentials.EnvLookup
	ContinueOnFail bool
}

// ItemError is returned when an item fails and the batch is not continuing on failure.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Executor runs batches of items against the Quercle API, one request per item.
type Executor struct {
	logger        *slog.Logger
	tracer        trace.Tracer
	description   models.NodeDescription
	clientOptions []quercle.Option
}

// NewExecutor creates an executor. A nil tracer uses the global provider.
func NewExecutor(logger *slog.Logger, tracer trace.Tracer, clientOptions ...quercle.Option) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	if tracer == nil {
		tracer = otelhelper.Tracer(tracerName)
	}

	return &Executor{
		logger:        logger,
		tracer:        tracer,
		description:   Description(),
		clientOptions: clientOptions,
	}
}

// Execute resolves the API key once, then processes items in order.
//
// The returned items are paired to their input index. With ContinueOnFail a
// failing item yields {error} and processing goes on; otherwise Execute stops
// and returns the items produced so far together with an *ItemError.
// A missing API key fails before any request with *quercle.ConfigurationError.
func (e *Executor) Execute(ctx context.Context, batch Batch) ([]models.Item, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "quercle.execute",
		attribute.Int(otelhelper.ItemCountKey, len(batch.Items)),
	)
	defer span.End()

	apiKey, err := credentials.ResolveAPIKey(ctx, batch.Credentials, batch.Env, e.logger)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	opts := append([]quercle.Option{quercle.WithLogger(e.logger)}, e.clientOptions...)
	client := quercle.NewClient(apiKey, opts...)

	params := batch.Parameters
	if params == nil {
		params = &TemplateParameters{Items: batch.Items}
	}

	results := make([]models.Item, 0, len(batch.Items))

	for i := range batch.Items {
		result, err := e.executeItem(ctx, client, params, i)
		if err != nil {
			if batch.ContinueOnFail {
				e.logger.WarnContext(ctx, "Item failed, continuing", "item", i, "error", err)
				results = append(results, models.NewErrorItem(i, err.Error()))

				continue
			}

			otelhelper.SetError(span, err, attribute.Int(otelhelper.ItemIndexKey, i))

			return results, &ItemError{Index: i, Err: err}
		}

		results = append(results, models.NewResultItem(i, result))
	}

	return results, nil
}

func (e *Executor) executeItem(ctx context.Context, client *quercle.Client, params ParameterSource, index int) (string, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "quercle.item",
		attribute.Int(otelhelper.ItemIndexKey, index),
	)
	defer span.End()

	result, err := e.runItem(ctx, client, params, index, span)
	if err != nil {
		otelhelper.SetError(span, err)

		return "", err
	}

	return result, nil
}

func (e *Executor) runItem(ctx context.Context, client *quercle.Client, params ParameterSource, index int, span trace.Span) (string, error) {
	operation, err := stringParameter(params, ParamOperation, index, string(quercle.OperationSearch))
	if err != nil {
		return "", err
	}

	span.SetAttributes(attribute.String(otelhelper.OperationKey, operation))

	itemParams, err := readParams(params, e.description, operation, index)
	if err != nil {
		return "", err
	}

	req, err := quercle.BuildRequest(operation, itemParams)
	if err != nil {
		return "", err
	}

	span.SetAttributes(attribute.String(otelhelper.EndpointKey, req.Endpoint))
	e.logger.DebugContext(ctx, "Executing item", "item", index, "operation", operation)

	return client.Do(ctx, req)
}
