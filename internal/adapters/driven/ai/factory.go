// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/blugen-labs/lexrag/internal/adapters/driven/embedding/gemini"
	openaiembed "github.com/blugen-labs/lexrag/internal/adapters/driven/embedding/openai"
	geminillm "github.com/blugen-labs/lexrag/internal/adapters/driven/llm/gemini"
	openaillm "github.com/blugen-labs/lexrag/internal/adapters/driven/llm/openai"
	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Provider identifies an AI backend.
type Provider string

// Supported providers.
const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Settings holds the resolved configuration for one AI service.
// APIKey comes from the credential resolver, the rest from the config store.
type Settings struct {
	Provider   Provider
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
}

// CreateEmbeddingService creates the embedding service for the given settings.
func CreateEmbeddingService(settings Settings) (driven.EmbeddingService, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key for embedding provider %q",
			domain.ErrMissingCredential, settings.Provider)
	}

	switch settings.Provider {
	case ProviderGemini:
		return geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateGenerationService creates the generation service for the given settings.
func CreateGenerationService(settings Settings) (driven.GenerationService, error) {
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key for generation provider %q",
			domain.ErrMissingCredential, settings.Provider)
	}

	switch settings.Provider {
	case ProviderGemini:
		return geminillm.NewGenerationService(geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case ProviderOpenAI:
		return openaillm.NewGenerationService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", settings.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings Settings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%v). Run 'lexrag auth set' to fix credentials",
			domain.ErrEmbeddingService, err)
	}

	return svc, nil
}

// CreateAndValidateGenerationService creates a generation service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateGenerationService(settings Settings) (driven.GenerationService, error) {
	svc, err := CreateGenerationService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%v). Run 'lexrag auth set' to fix credentials",
			domain.ErrGenerationService, err)
	}

	return svc, nil
}
