package quercle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, SearchPath, r.URL.Path)
		assert.Equal(t, "Bearer qk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"query":"what is go","allowed_domains":["go.dev"]}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"Go is a programming language."}`))
	}))
	defer server.Close()

	client := NewClient("qk_test", WithBaseURL(server.URL))

	result, err := client.Search(context.Background(), SearchRequest{Query: "what is go", AllowedDomains: []string{"go.dev"}})
	require.NoError(t, err)
	assert.Equal(t, "Go is a programming language.", result)
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, FetchPath, r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"url": "https://example.com", "prompt": "summarize"}, body)

		_, _ = w.Write([]byte(`{"result":"An example page."}`))
	}))
	defer server.Close()

	client := NewClient("qk_test", WithBaseURL(server.URL+"/"))

	result, err := client.Fetch(context.Background(), FetchRequest{URL: "https://example.com", Prompt: "summarize"})
	require.NoError(t, err)
	assert.Equal(t, "An example page.", result)
}

func TestClient_Do_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		checkFn func(t *testing.T, err error)
	}{
		{
			name:   "non-2xx status",
			status: http.StatusUnauthorized,
			body:   `{"error":"invalid api key"}`,
			checkFn: func(t *testing.T, err error) {
				t.Helper()

				var transportErr *TransportError
				require.ErrorAs(t, err, &transportErr)
				assert.Equal(t, http.StatusUnauthorized, transportErr.StatusCode)
				assert.Contains(t, err.Error(), "invalid api key")
			},
		},
		{
			name:   "missing result",
			status: http.StatusOK,
			body:   `{"answer":"nope"}`,
			checkFn: func(t *testing.T, err error) {
				t.Helper()

				var formatErr *ResponseFormatError
				require.ErrorAs(t, err, &formatErr)
				assert.ErrorIs(t, err, errMissingResult)
			},
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `<html></html>`,
			checkFn: func(t *testing.T, err error) {
				t.Helper()

				var formatErr *ResponseFormatError
				require.ErrorAs(t, err, &formatErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient("qk_test", WithBaseURL(server.URL))

			_, err := client.Search(context.Background(), SearchRequest{Query: "q"})
			require.Error(t, err)
			assert.True(t, IsItemFailure(err))
			tt.checkFn(t, err)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient("qk_test", WithBaseURL(url))

	_, err := client.Search(context.Background(), SearchRequest{Query: "q"})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Zero(t, transportErr.StatusCode)
}

func TestClient_SendsExactlyOneRequest(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("qk_test", WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), SearchRequest{Query: "q"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CheckCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"query": "test"}, body)

		if r.Header.Get("Authorization") != "Bearer qk_good" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, NewClient("qk_good", WithBaseURL(server.URL)).CheckCredentials(context.Background()))

	err := NewClient("qk_bad", WithBaseURL(server.URL)).CheckCredentials(context.Background())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusUnauthorized, transportErr.StatusCode)
}
