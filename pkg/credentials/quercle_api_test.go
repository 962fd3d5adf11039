package credentials

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quercle/operion-quercle/pkg/quercle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuercleAPI_Definition(t *testing.T) {
	t.Parallel()

	cred := NewQuercleAPI("", nil)

	assert.Equal(t, "quercleApi", cred.Name())
	assert.Equal(t, "Quercle API", cred.DisplayName())
	assert.Equal(t, "https://quercle.dev/docs", cred.DocumentationURL())

	props := cred.Properties()
	require.Len(t, props, 1)
	assert.Equal(t, "apiKey", props[0].Name)
	assert.Equal(t, "string", props[0].Type)
	assert.True(t, props[0].Password)
	assert.True(t, props[0].Required)
	assert.Contains(t, props[0].Description, "qk_")
	assert.Contains(t, props[0].Description, "QUERCLE_API_KEY")
}

func TestQuercleAPI_Authenticate(t *testing.T) {
	t.Parallel()

	cred := NewQuercleAPI("", nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/search", nil)
	require.NoError(t, cred.Authenticate(req, map[string]any{"apiKey": "qk_abc"}))
	assert.Equal(t, "Bearer qk_abc", req.Header.Get("Authorization"))

	err := cred.Authenticate(httptest.NewRequest(http.MethodPost, "/", nil), map[string]any{})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestQuercleAPI_Test(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, quercle.SearchPath, r.URL.Path)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"query":"test"}`, string(body))

		if r.Header.Get("Authorization") != "Bearer qk_valid" {
			w.WriteHeader(http.StatusForbidden)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cred := NewQuercleAPI(server.URL, server.Client())

	require.NoError(t, cred.Test(context.Background(), map[string]any{"apiKey": "qk_valid"}))

	err := cred.Test(context.Background(), map[string]any{"apiKey": "qk_revoked"})

	var transportErr *quercle.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusForbidden, transportErr.StatusCode)

	require.ErrorIs(t, cred.Test(context.Background(), nil), ErrMissingAPIKey)
}
