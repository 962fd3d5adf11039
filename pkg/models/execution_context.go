package models

// ExecutionContext carries the per-invocation data a node sees while it runs.
// It is built fresh for every execution and never reused.
type ExecutionContext struct {
	ID        string         `json:"id"`
	NodeID    string         `json:"node_id"`
	Variables map[string]any `json:"variables,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
