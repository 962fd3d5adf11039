// Package web provides HTTP request and response types for the Quercle node API.
package web

import "github.com/quercle/operion-quercle/pkg/models"

// ExecuteNodeRequest represents the request body for executing a node over a batch of items.
type ExecuteNodeRequest struct {
	Parameters     map[string]any   `json:"parameters"          validate:"required"`
	Items          []models.Item    `json:"items"`
	Overrides      []map[string]any `json:"overrides,omitempty"`
	Variables      map[string]any   `json:"variables,omitempty"`
	ContinueOnFail bool             `json:"continue_on_fail"`
}

// ExecuteNodeResponse carries the output of one execution.
// Quercle nodes fill Items; other node types report their output ports.
type ExecuteNodeResponse struct {
	ExecutionID string                       `json:"execution_id"`
	Items       []models.Item                `json:"items,omitempty"`
	Outputs     map[string]models.NodeResult `json:"outputs,omitempty"`
}

// TestCredentialsRequest represents the request body for testing a credential.
type TestCredentialsRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

// TestCredentialsResponse is returned when the credential works.
type TestCredentialsResponse struct {
	Status string `json:"status"`
}
