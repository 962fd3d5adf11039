package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsFromAny(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected []Item
		wantErr  string
	}{
		{
			name:     "nil",
			raw:      nil,
			expected: nil,
		},
		{
			name:     "typed items",
			raw:      []Item{{JSON: map[string]any{"a": 1}}},
			expected: []Item{{JSON: map[string]any{"a": 1}}},
		},
		{
			name: "decoded items with json key",
			raw: []any{
				map[string]any{"json": map[string]any{"topic": "go"}},
				map[string]any{"topic": "rust"},
			},
			expected: []Item{
				{JSON: map[string]any{"topic": "go"}},
				{JSON: map[string]any{"topic": "rust"}},
			},
		},
		{
			name:     "map slice",
			raw:      []map[string]any{{"url": "https://go.dev"}},
			expected: []Item{{JSON: map[string]any{"url": "https://go.dev"}}},
		},
		{
			name:    "non object element",
			raw:     []any{"text"},
			wantErr: "item 0: expected object, got string",
		},
		{
			name:    "not an array",
			raw:     map[string]any{"topic": "go"},
			wantErr: "items: expected array",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ItemsFromAny(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, items)
		})
	}
}

func TestResultAndErrorItems(t *testing.T) {
	result := NewResultItem(3, "answer")
	assert.False(t, result.IsError())
	assert.Equal(t, 3, result.PairedItem.Item)

	failed := NewErrorItem(4, "boom")
	assert.True(t, failed.IsError())

	data, err := json.Marshal(failed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"json":{"error":"boom"},"pairedItem":{"item":4}}`, string(data))
}

func TestNodeProperty_IsVisible(t *testing.T) {
	property := NodeProperty{
		Name: "domains",
		DisplayOptions: &DisplayOptions{Show: map[string][]string{
			"operation":    {"search"},
			"domainFilter": {"allowed", "blocked"},
		}},
	}

	assert.True(t, property.IsVisible(map[string]string{"operation": "search", "domainFilter": "allowed"}))
	assert.False(t, property.IsVisible(map[string]string{"operation": "search", "domainFilter": "none"}))
	assert.False(t, property.IsVisible(map[string]string{"operation": "fetch", "domainFilter": "blocked"}))
	assert.True(t, NodeProperty{Name: "operation"}.IsVisible(nil))
}

func TestNodeDescription_Property(t *testing.T) {
	description := NodeDescription{Properties: []NodeProperty{{Name: "query"}, {Name: "url"}}}

	property, ok := description.Property("url")
	require.True(t, ok)
	assert.Equal(t, "url", property.Name)

	_, ok = description.Property("prompt")
	assert.False(t, ok)
}

func TestPortID(t *testing.T) {
	id := MakePortID("node-1", "success")
	assert.Equal(t, "node-1:success", id)

	nodeID, portName, ok := ParsePortID(id)
	require.True(t, ok)
	assert.Equal(t, "node-1", nodeID)
	assert.Equal(t, "success", portName)

	_, _, ok = ParsePortID("no-separator")
	assert.False(t, ok)
}
