package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
)

// EnvAPIKey is the provider-independent credential variable. It wins
// over provider-specific variables and the config store.
const EnvAPIKey = "LEXRAG_API_KEY"

// providerEnvVars maps a provider name to its conventional variable.
var providerEnvVars = map[string]string{
	"gemini": "GEMINI_API_KEY",
	"openai": "OPENAI_API_KEY",
}

// CredentialResolver resolves API keys for AI providers. Resolution
// order: LEXRAG_API_KEY, the provider's own variable, then the config
// store. Keys are resolved at startup so a missing credential fails
// fast instead of on the first request.
type CredentialResolver struct {
	config driven.ConfigStore
}

// NewCredentialResolver creates a resolver backed by the config store.
func NewCredentialResolver(config driven.ConfigStore) *CredentialResolver {
	return &CredentialResolver{config: config}
}

// Resolve returns the API key for the given provider, or
// ErrMissingCredential when none is configured anywhere.
func (r *CredentialResolver) Resolve(provider string) (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}

	if envVar, ok := providerEnvVars[provider]; ok {
		if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
			return key, nil
		}
	}

	if r.config != nil {
		if key := strings.TrimSpace(r.config.GetString(configKey(provider))); key != "" {
			return key, nil
		}
	}

	return "", fmt.Errorf("%w: set %s or run 'lexrag auth set'", domain.ErrMissingCredential, EnvAPIKey)
}

// Store persists the API key for the given provider in the config
// store. The environment variables still take precedence when set.
func (r *CredentialResolver) Store(provider, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: empty API key", domain.ErrInvalidInput)
	}
	return r.config.Set(configKey(provider), key)
}

func configKey(provider string) string {
	return "auth." + provider + ".api_key"
}
