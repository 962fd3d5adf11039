// Package models defines core node-based workflow models for item execution
package models

import (
	"context"
	"time"
)

// CategoryType represents the category of node.
type CategoryType string

const (
	CategoryTypeAction  CategoryType = "action"  // Regular action nodes (quercle, ...)
	CategoryTypeTrigger CategoryType = "trigger" // Trigger nodes, provided by the host engine
)

// Node is a configured node instance that the host can execute.
type Node interface {
	ID() string
	Type() string
	Execute(ctx context.Context, execCtx ExecutionContext, inputs map[string]NodeResult) (map[string]NodeResult, error)
	GetInputPorts() []InputPort
	GetOutputPorts() []OutputPort
	InputRequirements() InputRequirements
	Validate(config map[string]any) error
}

// NodeResult represents the result of a node execution.
type NodeResult struct {
	NodeID    string         `json:"node_id"`
	Data      map[string]any `json:"data"`
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Error     string         `json:"error,omitempty"`
}

// NodeStatus defines the possible states of a node execution.
type NodeStatus string

const (
	NodeStatusPending NodeStatus = "pending"
	NodeStatusRunning NodeStatus = "running"
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusError   NodeStatus = "error"
)
