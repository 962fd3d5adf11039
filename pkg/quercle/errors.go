package quercle

import (
	"errors"
	"fmt"
)

// MissingAPIKeyMessage tells the caller how to supply a key.
const MissingAPIKeyMessage = "No API key provided. Set " + EnvAPIKey +
	" environment variable or configure Quercle API credentials."

// ConfigurationError means no usable API key was found. It is fatal for a
// whole batch and is raised before any request is sent.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// NewConfigurationError returns the error raised when no API key is available.
func NewConfigurationError() *ConfigurationError {
	return &ConfigurationError{Message: MissingAPIKeyMessage}
}

// OperationError reports an operation value the node does not know.
type OperationError struct {
	Operation string
}

func (e *OperationError) Error() string {
	return "Unknown operation: " + e.Operation
}

// ValidationError reports a missing or invalid parameter for one item.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return fmt.Sprintf("invalid parameter '%s': %s", e.Field, e.Message)
}

// TransportError wraps network failures and non-2xx responses.
type TransportError struct {
	Endpoint   string
	StatusCode int // zero when the request never got a response
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("POST %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}

	return fmt.Sprintf("POST %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResponseFormatError means the API answered 2xx with a body we cannot use.
type ResponseFormatError struct {
	Endpoint string
	Err      error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("POST %s: unexpected response: %v", e.Endpoint, e.Err)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}

var errMissingResult = errors.New("missing 'result' field")

// IsConfigurationError checks if an error must abort the whole batch.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError

	return errors.As(err, &cfgErr)
}

// IsItemFailure checks if an error belongs to a single item and may be
// captured as an error result in continue-on-failure mode.
func IsItemFailure(err error) bool {
	var (
		opErr        *OperationError
		validationEr *ValidationError
		transportErr *TransportError
		formatErr    *ResponseFormatError
	)

	return errors.As(err, &opErr) ||
		errors.As(err, &validationEr) ||
		errors.As(err, &transportErr) ||
		errors.As(err, &formatErr)
}
