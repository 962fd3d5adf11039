package protocol

import (
	"context"
	"net/http"
)

// CredentialProperty describes one field of a credential form.
type CredentialProperty struct {
	DisplayName string `json:"displayName"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Password    bool   `json:"password,omitempty"`
	Required    bool   `json:"required"`
	Default     string `json:"default"`
	Description string `json:"description,omitempty"`
}

// CredentialType describes how a credential is entered, applied to requests and tested.
type CredentialType interface {
	// Name returns the identifier nodes use to reference this credential
	Name() string

	// DisplayName returns the human-readable name
	DisplayName() string

	// DocumentationURL points to the provider's docs
	DocumentationURL() string

	// Properties lists the fields the user fills in
	Properties() []CredentialProperty

	// Authenticate applies the credential values to an outgoing request
	Authenticate(req *http.Request, values map[string]any) error

	// Test verifies the credential values against the remote service
	Test(ctx context.Context, values map[string]any) error
}

// CredentialLookup returns the stored values of a named credential.
// An error means the credential is not available.
type CredentialLookup interface {
	GetCredentials(ctx context.Context, name string) (map[string]any, error)
}

// CredentialLookupFunc adapts a function to CredentialLookup.
type CredentialLookupFunc func(ctx context.Context, name string) (map[string]any, error)

func (f CredentialLookupFunc) GetCredentials(ctx context.Context, name string) (map[string]any, error) {
	return f(ctx, name)
}
