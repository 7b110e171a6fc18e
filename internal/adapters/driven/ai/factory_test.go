package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blugen-labs/lexrag/internal/core/domain"
)

func TestCreateEmbeddingService_Gemini(t *testing.T) {
	svc, err := CreateEmbeddingService(Settings{
		Provider: ProviderGemini,
		APIKey:   "test-key",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "gemini-embedding-001", svc.ModelName())
	assert.Equal(t, 3072, svc.Dimensions())
	svc.Close()
}

func TestCreateEmbeddingService_OpenAI(t *testing.T) {
	svc, err := CreateEmbeddingService(Settings{
		Provider: ProviderOpenAI,
		APIKey:   "test-key",
		Model:    "text-embedding-3-small",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "text-embedding-3-small", svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())
	svc.Close()
}

func TestCreateEmbeddingService_MissingKey(t *testing.T) {
	_, err := CreateEmbeddingService(Settings{Provider: ProviderGemini})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestCreateEmbeddingService_UnsupportedProvider(t *testing.T) {
	_, err := CreateEmbeddingService(Settings{
		Provider: Provider("cohere"),
		APIKey:   "test-key",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported embedding provider")
}

func TestCreateGenerationService_Gemini(t *testing.T) {
	svc, err := CreateGenerationService(Settings{
		Provider: ProviderGemini,
		APIKey:   "test-key",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "gemini-2.5-flash-lite", svc.ModelName())
	svc.Close()
}

func TestCreateGenerationService_OpenAI(t *testing.T) {
	svc, err := CreateGenerationService(Settings{
		Provider: ProviderOpenAI,
		APIKey:   "test-key",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "gpt-4o-mini", svc.ModelName())
	svc.Close()
}

func TestCreateGenerationService_MissingKey(t *testing.T) {
	_, err := CreateGenerationService(Settings{Provider: ProviderOpenAI})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestCreateGenerationService_UnsupportedProvider(t *testing.T) {
	_, err := CreateGenerationService(Settings{
		Provider: Provider("mistral"),
		APIKey:   "test-key",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported generation provider")
}
