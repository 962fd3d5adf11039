package quercle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client sends requests to the Quercle API with a fixed bearer token.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host (tests, proxies).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client authenticated with apiKey.
// The default HTTP client keeps the transport defaults and adds tracing.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the API host the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a built request and returns the "result" field of the response.
func (c *Client) Do(ctx context.Context, req Request) (string, error) {
	respBody, err := c.post(ctx, req.Endpoint, req.Body)
	if err != nil {
		return "", err
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", &ResponseFormatError{Endpoint: req.Endpoint, Err: err}
	}

	if resp.Result == nil {
		return "", &ResponseFormatError{Endpoint: req.Endpoint, Err: errMissingResult}
	}

	return *resp.Result, nil
}

// Search runs an AI-synthesized web search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (string, error) {
	return c.Do(ctx, Request{Operation: OperationSearch, Endpoint: SearchPath, Body: req})
}

// Fetch fetches a page and has it analyzed according to the prompt.
func (c *Client) Fetch(ctx context.Context, req FetchRequest) (string, error) {
	return c.Do(ctx, Request{Operation: OperationFetch, Endpoint: FetchPath, Body: req})
}

// CheckCredentials performs a minimal search to verify the API key.
// Any 2xx status passes; the response body is not inspected.
func (c *Client) CheckCredentials(ctx context.Context) error {
	_, err := c.post(ctx, SearchPath, SearchRequest{Query: "test"})

	return err
}

// post executes a single request. Exactly one HTTP call, no retries.
func (c *Client) post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.DebugContext(ctx, "Sending Quercle request", "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WarnContext(ctx, "Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	return respBody, nil
}
