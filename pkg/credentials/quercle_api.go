// Package credentials provides the Quercle API credential type and API key resolution.
package credentials

import (
	"context"
	"errors"
	"net/http"

	"github.com/quercle/operion-quercle/pkg/protocol"
	"github.com/quercle/operion-quercle/pkg/quercle"
)

const (
	QuercleAPIName          = "quercleApi"
	QuercleAPIDisplayName   = "Quercle API"
	QuercleDocumentationURL = "https://quercle.dev/docs"

	// APIKeyProperty is the credential field holding the key.
	APIKeyProperty = "apiKey"
)

var ErrMissingAPIKey = errors.New("credential has no API key")

// QuercleAPI is the credential type for the Quercle API.
type QuercleAPI struct {
	baseURL    string
	httpClient *http.Client
}

// NewQuercleAPI creates the credential type. An empty baseURL uses the public API.
func NewQuercleAPI(baseURL string, httpClient *http.Client) protocol.CredentialType {
	return &QuercleAPI{baseURL: baseURL, httpClient: httpClient}
}

func (q *QuercleAPI) Name() string {
	return QuercleAPIName
}

func (q *QuercleAPI) DisplayName() string {
	return QuercleAPIDisplayName
}

func (q *QuercleAPI) DocumentationURL() string {
	return QuercleDocumentationURL
}

func (q *QuercleAPI) Properties() []protocol.CredentialProperty {
	return []protocol.CredentialProperty{
		{
			DisplayName: "API Key",
			Name:        APIKeyProperty,
			Type:        "string",
			Password:    true,
			Required:    true,
			Default:     "",
			Description: "Your Quercle API key (starts with " + quercle.APIKeyPrefix + "). " +
				"Can also be set via " + quercle.EnvAPIKey + " environment variable.",
		},
	}
}

// Authenticate sets the bearer token header.
func (q *QuercleAPI) Authenticate(req *http.Request, values map[string]any) error {
	apiKey := apiKeyFrom(values)
	if apiKey == "" {
		return ErrMissingAPIKey
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)

	return nil
}

// Test sends POST /v1/search {"query":"test"} and passes on any 2xx status.
func (q *QuercleAPI) Test(ctx context.Context, values map[string]any) error {
	apiKey := apiKeyFrom(values)
	if apiKey == "" {
		return ErrMissingAPIKey
	}

	client := quercle.NewClient(apiKey, quercle.WithBaseURL(q.baseURL), quercle.WithHTTPClient(q.httpClient))

	return client.CheckCredentials(ctx)
}

func apiKeyFrom(values map[string]any) string {
	if values == nil {
		return ""
	}

	apiKey, _ := values[APIKeyProperty].(string)

	return apiKey
}
