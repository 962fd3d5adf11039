package quercle

import (
	"context"
	"log/slog"
	"testing"

	"github.com/quercle/operion-quercle/pkg/models"
	"github.com/quercle/operion-quercle/pkg/quercle"
	"github.com/quercle/operion-quercle/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNode(t *testing.T, api *testutil.FakeAPI, config map[string]any) *QuercleNode {
	t.Helper()

	factory := NewQuercleNodeFactory(
		NewExecutor(slog.Default(), nil, quercle.WithBaseURL(api.URL)),
		keyStore("qk_test"),
		testutil.NoEnv,
	)

	node, err := factory.Create(context.Background(), "quercle-node", config)
	require.NoError(t, err)

	quercleNode, ok := node.(*QuercleNode)
	require.True(t, ok)

	return quercleNode
}

func execCtx() models.ExecutionContext {
	return models.ExecutionContext{
		ID:        "test-exec",
		Variables: map[string]any{"prompt": "summarize"},
		Metadata:  make(map[string]any),
	}
}

func TestQuercleNode_Execute_Success(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	node := newTestNode(t, api, map[string]any{
		"operation": "fetch",
		"url":       "{{ .item.link }}",
		"prompt":    "{{ .vars.prompt }}",
	})

	inputs := map[string]models.NodeResult{
		InputPortMain: {
			NodeID: "previous",
			Data: map[string]any{
				"items": []any{
					map[string]any{"json": map[string]any{"link": "https://a.example"}},
					map[string]any{"link": "https://b.example"},
				},
			},
		},
	}

	results, err := node.Execute(context.Background(), execCtx(), inputs)
	require.NoError(t, err)

	successResult, ok := results[OutputPortSuccess]
	require.True(t, ok, "Expected success output port")
	assert.Equal(t, string(models.NodeStatusSuccess), successResult.Status)

	items, ok := successResult.Data["items"].([]models.Item)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, models.NewResultItem(0, "analysis of https://a.example"), items[0])
	assert.Equal(t, models.NewResultItem(1, "analysis of https://b.example"), items[1])

	requests := api.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, map[string]any{"url": "https://a.example", "prompt": "summarize"}, requests[0].Body)
}

func TestQuercleNode_Execute_NoInputRunsOnce(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	node := newTestNode(t, api, map[string]any{"query": "what is go"})

	results, err := node.Execute(context.Background(), execCtx(), nil)
	require.NoError(t, err)

	items := results[OutputPortSuccess].Data["items"].([]models.Item)
	require.Len(t, items, 1)
	assert.Equal(t, "answer for what is go", items[0].JSON["result"])
}

func TestQuercleNode_Execute_ItemFailure(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	node := newTestNode(t, api, map[string]any{"query": "{{ .item.q }}"})

	inputs := map[string]models.NodeResult{
		InputPortMain: {Data: map[string]any{"items": []models.Item{
			{JSON: map[string]any{"q": "ok"}},
			{JSON: map[string]any{"q": "fail"}},
			{JSON: map[string]any{"q": "never"}},
		}}},
	}

	results, err := node.Execute(context.Background(), execCtx(), inputs)
	require.NoError(t, err)

	errorResult, ok := results[OutputPortError]
	require.True(t, ok, "Expected error output port")
	assert.Equal(t, string(models.NodeStatusError), errorResult.Status)
	assert.Equal(t, 1, errorResult.Data["item"])
	assert.Equal(t, false, errorResult.Data["success"])
	assert.Contains(t, errorResult.Data["error"], "HTTP 500")
	assert.Len(t, errorResult.Data["items"], 1)
}

func TestQuercleNode_Execute_ContinueOnFail(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	node := newTestNode(t, api, map[string]any{"query": "{{ .item.q }}", "continueOnFail": true})

	inputs := map[string]models.NodeResult{
		InputPortMain: {Data: map[string]any{"items": []any{
			map[string]any{"q": "ok"},
			map[string]any{"q": "fail"},
		}}},
	}

	results, err := node.Execute(context.Background(), execCtx(), inputs)
	require.NoError(t, err)

	items := results[OutputPortSuccess].Data["items"].([]models.Item)
	require.Len(t, items, 2)
	assert.False(t, items[0].IsError())
	assert.True(t, items[1].IsError())
	assert.Equal(t, 1, items[1].PairedItem.Item)
}

func TestQuercleNode_Execute_MissingAPIKey(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	factory := NewQuercleNodeFactory(NewExecutor(nil, nil, quercle.WithBaseURL(api.URL)), nil, testutil.NoEnv)

	node, err := factory.Create(context.Background(), "quercle-node", map[string]any{"query": "go"})
	require.NoError(t, err)

	results, err := node.Execute(context.Background(), execCtx(), nil)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, quercle.IsConfigurationError(err))
	assert.Empty(t, api.Requests())
}

func TestQuercleNode_Execute_InvalidInput(t *testing.T) {
	t.Parallel()

	api := testutil.NewFakeAPI(t)
	node := newTestNode(t, api, map[string]any{"query": "go"})

	inputs := map[string]models.NodeResult{
		InputPortMain: {Data: map[string]any{"items": "not a list"}},
	}

	results, err := node.Execute(context.Background(), execCtx(), inputs)
	require.NoError(t, err)
	assert.Contains(t, results[OutputPortError].Data["error"], "invalid input items")
	assert.Empty(t, api.Requests())
}

func TestQuercleNode_Ports(t *testing.T) {
	t.Parallel()

	node := newTestNode(t, testutil.NewFakeAPI(t), map[string]any{"query": "go"})

	assert.Equal(t, "quercle-node", node.ID())
	assert.Equal(t, "quercle", node.Type())

	inputPorts := node.GetInputPorts()
	require.Len(t, inputPorts, 1)
	assert.Equal(t, "quercle-node:main", inputPorts[0].ID)

	outputPorts := node.GetOutputPorts()
	require.Len(t, outputPorts, 2)
	assert.Equal(t, OutputPortSuccess, outputPorts[0].Name)
	assert.Equal(t, OutputPortError, outputPorts[1].Name)

	assert.Equal(t, []string{InputPortMain}, node.InputRequirements().RequiredPorts)
}

func TestQuercleNode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  map[string]any
		wantErr bool
	}{
		{name: "search with query", config: map[string]any{"operation": "search", "query": "go"}},
		{name: "operation defaults to search", config: map[string]any{"query": "go"}},
		{name: "search without query", config: map[string]any{"operation": "search"}, wantErr: true},
		{name: "empty query", config: map[string]any{"query": ""}, wantErr: true},
		{name: "fetch complete", config: map[string]any{"operation": "fetch", "url": "https://example.com", "prompt": "p"}},
		{name: "fetch without url", config: map[string]any{"operation": "fetch", "prompt": "p"}, wantErr: true},
		{name: "fetch without prompt", config: map[string]any{"operation": "fetch", "url": "https://example.com"}, wantErr: true},
		{name: "unknown operation", config: map[string]any{"operation": "crawl", "query": "go"}, wantErr: true},
		{name: "unknown domain filter", config: map[string]any{"query": "go", "domainFilter": "some"}, wantErr: true},
		{name: "continueOnFail must be boolean", config: map[string]any{"query": "go", "continueOnFail": "yes"}, wantErr: true},
		{
			name:   "allowed domains",
			config: map[string]any{"query": "go", "domainFilter": "allowed", "domains": "go.dev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateConfig(tt.config)
			if tt.wantErr {
				var validationErr *quercle.ValidationError
				require.ErrorAs(t, err, &validationErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestQuercleNodeFactory_CreateRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	factory := NewQuercleNodeFactory(nil, nil, testutil.NoEnv)

	_, err := factory.Create(context.Background(), "n", map[string]any{"operation": "fetch"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}
