// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/quercle/operion-quercle/pkg/quercle"
)

// FailQuery and FailURL make the fake API answer with HTTP 500.
const (
	FailQuery = "fail"
	FailURL   = "https://fail.example"
)

// RecordedRequest is one request received by FakeAPI.
type RecordedRequest struct {
	Path string
	Auth string
	Body map[string]any
}

// FakeAPI answers like the Quercle API and records every request.
// Search results are "answer for <query>", fetch results "analysis of <url>".
type FakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	api := &FakeAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Close)

	return api
}

func (a *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	a.mu.Lock()
	a.requests = append(a.requests, RecordedRequest{
		Path: r.URL.Path,
		Auth: r.Header.Get("Authorization"),
		Body: body,
	})
	a.mu.Unlock()

	if body["query"] == FailQuery || body["url"] == FailURL {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"upstream exploded"}`))

		return
	}

	query, _ := body["query"].(string)
	url, _ := body["url"].(string)

	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case quercle.SearchPath:
		_ = json.NewEncoder(w).Encode(map[string]any{"result": "answer for " + query})
	case quercle.FetchPath:
		_ = json.NewEncoder(w).Encode(map[string]any{"result": "analysis of " + url})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Requests returns a copy of the requests received so far.
func (a *FakeAPI) Requests() []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]RecordedRequest(nil), a.requests...)
}

// NoEnv is an environment without variables.
func NoEnv(string) (string, bool) {
	return "", false
}
