package credentials

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/quercle/operion-quercle/pkg/protocol"
	"github.com/quercle/operion-quercle/pkg/quercle"
)

var ErrCredentialNotFound = errors.New("credential not configured")

// EnvLookup reads an environment variable. os.LookupEnv satisfies it.
type EnvLookup func(key string) (string, bool)

// ResolveAPIKey returns the stored credential key, falling back to the
// QUERCLE_API_KEY environment variable. A failing lookup counts as "no key".
// It returns a *quercle.ConfigurationError when neither source has a key.
func ResolveAPIKey(ctx context.Context, lookup protocol.CredentialLookup, env EnvLookup, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var apiKey string

	if lookup != nil {
		values, err := lookup.GetCredentials(ctx, QuercleAPIName)
		if err != nil {
			logger.DebugContext(ctx, "Credentials not available, trying environment", "credential", QuercleAPIName, "error", err)
		} else {
			apiKey = apiKeyFrom(values)
		}
	}

	if apiKey == "" && env != nil {
		if value, ok := env(quercle.EnvAPIKey); ok {
			apiKey = value
		}
	}

	if apiKey == "" {
		return "", quercle.NewConfigurationError()
	}

	if !strings.HasPrefix(apiKey, quercle.APIKeyPrefix) {
		logger.WarnContext(ctx, "API key does not have the expected prefix", "prefix", quercle.APIKeyPrefix)
	}

	return apiKey, nil
}

// Store keeps credential values in memory, keyed by credential name.
type Store struct {
	mu     sync.RWMutex
	values map[string]map[string]any
}

// NewStore creates an empty credential store.
func NewStore() *Store {
	return &Store{values: make(map[string]map[string]any)}
}

// Set stores the values of a credential.
func (s *Store) Set(name string, values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[name] = values
}

// GetCredentials returns ErrCredentialNotFound for unknown names.
func (s *Store) GetCredentials(_ context.Context, name string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.values[name]
	if !ok {
		return nil, ErrCredentialNotFound
	}

	return values, nil
}

// SetAPIKey stores the Quercle API key. An empty key leaves the store unchanged.
func (s *Store) SetAPIKey(apiKey string) {
	if apiKey == "" {
		return
	}

	s.Set(QuercleAPIName, map[string]any{APIKeyProperty: apiKey})
}

// OSEnv returns an EnvLookup backed by the process environment.
func OSEnv() EnvLookup {
	return os.LookupEnv
}
